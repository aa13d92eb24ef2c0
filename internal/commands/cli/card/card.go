// Package card provides card image commands.
package card

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/output"
	"github.com/kaique-kira/xml-card-reader/internal/config"
	"github.com/kaique-kira/xml-card-reader/pkg/cardimage"
	"github.com/kaique-kira/xml-card-reader/pkg/document"
)

// NewCardCommand creates the card command with subcommands.
func NewCardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Card image operations",
		Long: `Card image operations. A card image is an EMVCoL3CardImage XML document
describing a card's header, features, keys and the responses it gives to
each terminal request.`,
		Example: `  # Build the card asset as JSON
  cardimage card parse "samples/AEIPS 03 EP 03.xml"

  # Read the XML from stdin
  cat card.xml | cardimage card parse

  # List symmetric keys with their check values
  cardimage card keys card.xml

  # Browse the expected APDUs interactively
  cardimage card browse card.xml`,
	}

	cmd.AddCommand(newParseCommand())
	cmd.AddCommand(newBrowseCommand())
	cmd.AddCommand(newKeysCommand())

	return cmd
}

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Build the card asset from a card image",
		Long: `Build the card asset from a card image and print it as JSON.
The image is read from the file argument, from --xml, or from stdin.
With --json the input is the generic map form produced by XML-to-JSON converters
(attributes prefixed with "@_", text under "#text").`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().String("xml", "", "card image XML given inline")
	cmd.Flags().Bool("json", false, "input is the generic JSON map form instead of XML")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	inline, _ := cmd.Flags().GetString("xml")
	fromJSON, _ := cmd.Flags().GetBool("json")

	asset, err := loadAsset(cmd.InOrStdin(), args, inline, fromJSON)
	if err != nil {
		return err
	}

	log.Debug().
		Str("title", asset.Title).
		Int("apdus", len(asset.Apdus)).
		Msg("card image parsed")

	return output.JSON(cmd.OutOrStdout(), asset)
}

// loadAsset reads the card image from the first argument, inline XML or stdin.
func loadAsset(stdin io.Reader, args []string, inline string, fromJSON bool) (cardimage.Asset, error) {
	var r io.Reader
	switch {
	case inline != "":
		r = strings.NewReader(inline)
	case len(args) == 1 && args[0] != "-":
		f, err := os.Open(args[0])
		if err != nil {
			return cardimage.Asset{}, fmt.Errorf("failed to open card image: %w", err)
		}
		defer f.Close()
		r = f
	default:
		r = stdin
	}

	var (
		doc *document.Element
		err error
	)
	if fromJSON {
		var m map[string]any
		if err = json.NewDecoder(r).Decode(&m); err != nil {
			return cardimage.Asset{}, fmt.Errorf("failed to decode card image json: %w", err)
		}
		doc, err = document.FromMap(m)
	} else {
		doc, err = document.ParseXML(r)
	}
	if err != nil {
		return cardimage.Asset{}, fmt.Errorf("failed to read card image: %w", err)
	}

	builder := cardimage.Builder{RootName: config.Get().Card.Root}
	asset, err := builder.Build(doc)
	if err != nil {
		return cardimage.Asset{}, fmt.Errorf("failed to build card asset: %w", err)
	}

	return asset, nil
}
