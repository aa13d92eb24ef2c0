// Package cli provides centralized command registration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/card"
	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/codec"
	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/emv"
	"github.com/kaique-kira/xml-card-reader/internal/commands/cli/server"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	root.AddCommand(card.NewCardCommand())
	root.AddCommand(codec.NewTLVCommand())

	emvCmd, err := emv.NewEMVCommand()
	if err != nil {
		return fmt.Errorf("failed to create emv command: %w", err)
	}
	root.AddCommand(emvCmd)

	root.AddCommand(server.NewServeCommand())

	return nil
}
