// Package emv provides EMV session key, MAC and ARPC commands.
package emv

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/output"
	"github.com/kaique-kira/xml-card-reader/pkg/cryptoutils"
	"github.com/kaique-kira/xml-card-reader/pkg/emvmac"
)

// NewEMVCommand creates the emv command with subcommands.
func NewEMVCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "emv",
		Short: "EMV 3DES card simulation operations",
		Long: `EMV 3DES operations used when simulating a card: session key derivation,
secure messaging MAC over an APDU and ARPC method 1.`,
		Example: `  # MAC an APDU with a key derived from the master key
  cardimage emv mac --apdu 8424000008 --atc 0001 --ac 1122334455667788 \
    --mk 0123456789ABCDEFFEDCBA9876543210

  # Derive the AC session key
  cardimage emv session-key --mk 0123456789ABCDEFFEDCBA9876543210 --atc 0001 --un 12345678

  # Generate an ARPC
  cardimage emv arpc --sk 0123456789ABCDEFFEDCBA9876543210 --ac 1122334455667788 --arc 3030

  # Check value of a key
  cardimage emv kcv 0123456789ABCDEFFEDCBA9876543210`,
	}

	macCmd, err := newMACCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'mac' subcommand: %w", err)
	}
	cmd.AddCommand(macCmd)

	skCmd, err := newSessionKeyCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'session-key' subcommand: %w", err)
	}
	cmd.AddCommand(skCmd)

	arpcCmd, err := newARPCCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to create 'arpc' subcommand: %w", err)
	}
	cmd.AddCommand(arpcCmd)

	cmd.AddCommand(newKCVCommand())
	cmd.AddCommand(newGenerateKeyCommand())

	return cmd, nil
}

func newMACCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "mac",
		Short: "Append a secure messaging MAC to an APDU",
		Long: `Append a secure messaging MAC to an APDU and print the result with the next rand.
The session key is taken from --sk or derived from --mk and the rand, which
defaults to the application cryptogram.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := emvmac.Input{}
			in.APDU, _ = cmd.Flags().GetString("apdu")
			in.ATC, _ = cmd.Flags().GetString("atc")
			in.AC, _ = cmd.Flags().GetString("ac")
			in.SessionKey, _ = cmd.Flags().GetString("sk")
			in.MasterKey, _ = cmd.Flags().GetString("mk")
			in.Rand, _ = cmd.Flags().GetString("rand")

			res, err := emvmac.Generate(in)
			if err != nil {
				return err
			}

			return output.JSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().String("apdu", "", "command APDU as hex")
	cmd.Flags().String("atc", "", "application transaction counter (2 bytes hex)")
	cmd.Flags().String("ac", "", "application cryptogram (8 bytes hex)")
	cmd.Flags().String("sk", "", "MAC session key (16 bytes hex)")
	cmd.Flags().String("mk", "", "MAC master key (16 bytes hex)")
	cmd.Flags().String("rand", "", "diversification rand (defaults to ac)")
	cmd.MarkFlagsMutuallyExclusive("sk", "mk")

	for _, name := range []string{"apdu", "atc", "ac"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			return nil, fmt.Errorf("failed to mark %s flag as required: %w", name, err)
		}
	}

	return cmd, nil
}

func newSessionKeyCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "session-key",
		Short: "Derive an AC or MAC session key",
		Long: `Derive a session key from a master key.
With --atc and --un the application cryptogram key is derived; with --ac the
secure messaging (MAC) key is derived.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mk, _ := cmd.Flags().GetString("mk")
			ac, _ := cmd.Flags().GetString("ac")
			atc, _ := cmd.Flags().GetString("atc")
			un, _ := cmd.Flags().GetString("un")

			var (
				sk  string
				err error
			)
			switch {
			case ac != "":
				sk, err = cryptoutils.DeriveSessionKeyMACHex(mk, ac)
			case atc != "" && un != "":
				sk, err = cryptoutils.DeriveSessionKeyACHex(mk, atc, un)
			default:
				return errors.New("either --ac or both --atc and --un are required")
			}
			if err != nil {
				return err
			}

			return output.Line(cmd.OutOrStdout(), sk)
		},
	}

	cmd.Flags().String("mk", "", "master key (16 bytes hex)")
	cmd.Flags().String("ac", "", "application cryptogram for the MAC key (8 bytes hex)")
	cmd.Flags().String("atc", "", "application transaction counter for the AC key (2 bytes hex)")
	cmd.Flags().String("un", "", "unpredictable number for the AC key (4 or 6 bytes hex)")
	cmd.MarkFlagsMutuallyExclusive("ac", "atc")
	cmd.MarkFlagsRequiredTogether("atc", "un")

	if err := cmd.MarkFlagRequired("mk"); err != nil {
		return nil, fmt.Errorf("failed to mark mk flag as required: %w", err)
	}

	return cmd, nil
}

func newARPCCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "arpc",
		Short: "Generate an ARPC with method 1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sk, _ := cmd.Flags().GetString("sk")
			ac, _ := cmd.Flags().GetString("ac")
			arc, _ := cmd.Flags().GetString("arc")

			arpc, err := cryptoutils.GenerateARPCMethod1Hex(sk, ac, arc)
			if err != nil {
				return err
			}

			return output.Line(cmd.OutOrStdout(), arpc)
		},
	}

	cmd.Flags().String("sk", "", "AC session key (16 bytes hex)")
	cmd.Flags().String("ac", "", "application cryptogram (8 bytes hex)")
	cmd.Flags().String("arc", "", "authorisation response code (2 bytes hex)")

	for _, name := range []string{"sk", "ac", "arc"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			return nil, fmt.Errorf("failed to mark %s flag as required: %w", name, err)
		}
	}

	return cmd, nil
}

func newKCVCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kcv <key>",
		Short: "Calculate the check value of a DES key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kcv, err := cryptoutils.CalculateKCVHex(args[0])
			if err != nil {
				return err
			}

			return output.Line(cmd.OutOrStdout(), kcv)
		},
	}
}

type generatedKey struct {
	Key string `json:"key"`
	KCV string `json:"kcv"`
}

func newGenerateKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-key",
		Short: "Generate a random double length master key for a test card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, kcv, err := cryptoutils.GenerateKeyHex()
			if err != nil {
				return err
			}

			return output.JSON(cmd.OutOrStdout(), generatedKey{Key: key, KCV: kcv})
		},
	}
}
