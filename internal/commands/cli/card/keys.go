package card

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/output"
	"github.com/kaique-kira/xml-card-reader/pkg/cryptoutils"
)

type keyCheck struct {
	Name  string `json:"name"`
	KCV   string `json:"kcv,omitempty"`
	Error string `json:"error,omitempty"`
}

func newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys [file]",
		Short: "List the symmetric keys of a card image with their check values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inline, _ := cmd.Flags().GetString("xml")
			asset, err := loadAsset(cmd.InOrStdin(), args, inline, false)
			if err != nil {
				return err
			}

			return output.JSON(cmd.OutOrStdout(), checkKeys(asset.Property("symmetricKeys")))
		},
	}

	cmd.Flags().String("xml", "", "card image XML given inline")

	return cmd
}

// checkKeys computes a check value per key, sorted by name. Keys that cannot be
// used for 3DES are reported with their error.
func checkKeys(v any, ok bool) []keyCheck {
	keys, _ := v.(map[string]string)
	if !ok || len(keys) == 0 {
		return []keyCheck{}
	}

	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]keyCheck, 0, len(names))
	for _, name := range names {
		kc := keyCheck{Name: name}
		kcv, err := cryptoutils.CalculateKCVHex(keys[name])
		if err != nil {
			log.Warn().Str("key", name).Err(err).Msg("key check failed")
			kc.Error = err.Error()
		} else {
			kc.KCV = kcv
		}
		out = append(out, kc)
	}

	return out
}
