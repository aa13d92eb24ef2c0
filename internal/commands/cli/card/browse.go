package card

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/pkg/cardimage"
	"github.com/kaique-kira/xml-card-reader/pkg/tlv"
)

func newBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the expected APDUs of a card image",
		Long: `Open an interactive list of the command/response pairs built from a card image.
Use up/down (or k/j) to move, enter to show the decoded response and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inline, _ := cmd.Flags().GetString("xml")
			asset, err := loadAsset(cmd.InOrStdin(), args, inline, false)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newBrowserModel(asset), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()

			return err
		},
	}

	cmd.Flags().String("xml", "", "card image XML given inline")

	return cmd
}

type browserModel struct {
	title    string
	apdus    []cardimage.Apdu
	cursor   int
	detail   bool
	quitting bool
}

// newBrowserModel creates the APDU browser for an asset.
func newBrowserModel(asset cardimage.Asset) browserModel {
	return browserModel{
		title: asset.Title,
		apdus: asset.Apdus,
	}
}

// Init initializes the model.
func (m browserModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true

		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.apdus)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.apdus) > 0 {
			m.cursor = len(m.apdus) - 1
		}
	case "enter", " ":
		m.detail = !m.detail
	case "esc":
		m.detail = false
	}

	return m, nil
}

// View renders the list and, when toggled, the selected APDU.
func (m browserModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d APDUs)\n", m.title, len(m.apdus))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(m.apdus) == 0 {
		sb.WriteString("No terminal requests.\n\nq quit\n")
		return sb.String()
	}

	for i, a := range m.apdus {
		selector := "  "
		if i == m.cursor {
			selector = "▶ "
		}
		fmt.Fprintf(&sb, "%s%-24s %-12s %s\n", selector, displayName(a), a.Command, a.StatusWord)
	}

	if m.detail {
		sb.WriteString("\n" + renderDetail(m.apdus[m.cursor]))
	}

	sb.WriteString("\n↑/↓ move • enter details • q quit\n")

	return sb.String()
}

func displayName(a cardimage.Apdu) string {
	if a.Name == "" {
		return "(unnamed)"
	}

	return a.Name
}

// renderDetail shows the selected APDU with its TLV response decoded as a tree.
func renderDetail(a cardimage.Apdu) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Command:  %s\n", a.Command)
	fmt.Fprintf(&sb, "Expr:     %s\n", a.Expr)
	fmt.Fprintf(&sb, "SW:       %s\n", a.StatusWord)

	if a.Response == "" {
		sb.WriteString("Response: none\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Response: %s (%s)\n", a.Response, a.ResponseType)

	if a.ResponseType != cardimage.ResponseTLV {
		return sb.String()
	}

	tree, err := tlv.DecodeTree(a.Response)
	if err != nil {
		fmt.Fprintf(&sb, "  decode error: %v\n", err)
		return sb.String()
	}
	writeNodes(&sb, tlv.ToNodes(tree), 1)

	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []tlv.Node, depth int) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", depth)
		if len(n.Children) > 0 {
			fmt.Fprintf(sb, "%s%s\n", indent, n.Tag)
			writeNodes(sb, n.Children, depth+1)
			continue
		}
		fmt.Fprintf(sb, "%s%s: %s\n", indent, n.Tag, n.Value)
	}
}
