package card

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/kaique-kira/xml-card-reader/pkg/cardimage"
)

func testAsset() cardimage.Asset {
	return cardimage.Asset{
		Title: "TEST CARD",
		Apdus: []cardimage.Apdu{
			{
				Name:         "Select",
				Command:      "00A40400",
				Expr:         "interface='contact' and name='Select'",
				Response:     "6F07" + "8402A000" + "500141",
				ResponseType: cardimage.ResponseTLV,
				StatusWord:   "9000",
			},
			{Name: "ReadRecord", Command: "00B2011400", StatusWord: "6A83"},
		},
	}
}

func press(m browserModel, key string) browserModel {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)

	return next.(browserModel)
}

func TestBrowserNavigation(t *testing.T) {
	m := newBrowserModel(testAsset())
	assert.Equal(t, 0, m.cursor)

	m = press(m, "up")
	assert.Equal(t, 0, m.cursor)

	m = press(m, "down")
	m = press(m, "down")
	assert.Equal(t, 1, m.cursor)

	m = press(m, "k")
	assert.Equal(t, 0, m.cursor)

	m = press(m, "G")
	assert.Equal(t, 1, m.cursor)
}

func TestBrowserDetail(t *testing.T) {
	m := newBrowserModel(testAsset())
	assert.NotContains(t, m.View(), "Response:")

	m = press(m, "enter")
	view := m.View()
	assert.Contains(t, view, "TEST CARD (2 APDUs)")
	assert.Contains(t, view, "Response: 6F078402A000500141 (TLV)")
	assert.Contains(t, view, "  6F\n")
	assert.Contains(t, view, "    84: A000\n")
	assert.Contains(t, view, "    50: 41\n")

	m = press(m, "down")
	assert.Contains(t, m.View(), "Response: none")
}

func TestBrowserQuit(t *testing.T) {
	m := newBrowserModel(testAsset())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
	assert.True(t, next.(browserModel).quitting)
	assert.Empty(t, next.(browserModel).View())

	empty := newBrowserModel(cardimage.Asset{Title: "EMPTY"})
	empty = press(empty, "G")
	assert.Equal(t, 0, empty.cursor)
	assert.Contains(t, empty.View(), "No terminal requests.")
}
