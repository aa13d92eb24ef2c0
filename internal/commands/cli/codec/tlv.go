// Package codec provides BER-TLV commands.
package codec

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/output"
	"github.com/kaique-kira/xml-card-reader/pkg/tlv"
)

// NewTLVCommand creates the tlv command with subcommands.
func NewTLVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tlv",
		Short: "EMV BER-TLV encoding and decoding",
		Example: `  # Decode a flat TLV stream
  cardimage tlv decode 5A084111111111111111 5F2403251231

  # Decode constructed tags as a tree
  cardimage tlv decode --tree 70075A021122950100

  # Encode a single tag
  cardimage tlv encode --tag 9F27 --value 80`,
	}

	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newEncodeCommand())

	return cmd
}

func newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex>...",
		Short: "Decode a TLV hex stream",
		Long: `Decode a TLV hex stream into its fields and print them as JSON.
Arguments are joined, so the stream may be split by spaces.
By default constructed values are left as raw hex; --tree descends into them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, "")
			tree, _ := cmd.Flags().GetBool("tree")
			if tree {
				tlvs, err := tlv.DecodeTree(input)
				if err != nil {
					return err
				}

				return output.JSON(cmd.OutOrStdout(), tlv.ToNodes(tlvs))
			}

			fields, err := tlv.Decode(input)
			if err != nil {
				return err
			}

			return output.JSON(cmd.OutOrStdout(), fields)
		},
	}

	cmd.Flags().Bool("tree", false, "descend into constructed tags")

	return cmd
}

func newEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a single primitive tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			value, _ := cmd.Flags().GetString("value")

			out, err := tlv.Encode(tag, value)
			if err != nil {
				return err
			}

			return output.Line(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().String("tag", "", "tag as hex (e.g. 9F27)")
	cmd.Flags().String("value", "", "value as hex")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}
