package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaique-kira/xml-card-reader/pkg/cardimage"
	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
	"github.com/kaique-kira/xml-card-reader/pkg/emvmac"
	"github.com/kaique-kira/xml-card-reader/pkg/tlv"
)

const testCard = `<?xml version="1.0" encoding="UTF-8"?>
<EMVCoL3CardImage>
  <Header><CardId>CLI CARD</CardId><CardVersion>2</CardVersion></Header>
  <Contact>
    <Application AID="A0000000041010">
      <TerminalRequest name="ReadRecord" sfi="02" record="03">
        <CardResponse><Tag ID="70"><Tag ID="5A">1122</Tag></Tag></CardResponse>
      </TerminalRequest>
    </Application>
  </Contact>
</EMVCoL3CardImage>`

// executeCommand runs the root command with args in an isolated home directory.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	root, err := NewRootCommand()
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))

	err = root.Execute()

	return out.String(), err
}

func TestCardParse(t *testing.T) {
	file := filepath.Join(t.TempDir(), "card.xml")
	require.NoError(t, os.WriteFile(file, []byte(testCard), 0o600))

	for _, args := range [][]string{
		{"card", "parse", file},
		{"card", "parse", "--xml", testCard},
	} {
		out, err := executeCommand(t, "", args...)
		require.NoError(t, err)

		var asset cardimage.Asset
		require.NoError(t, json.Unmarshal([]byte(out), &asset))
		assert.Equal(t, "CLI CARD", asset.Title)
		assert.Equal(t, 2, asset.Version)
		require.Len(t, asset.Apdus, 1)
		assert.Equal(t, "00B2031400", asset.Apdus[0].Command)
		assert.Equal(t, "70045A021122", asset.Apdus[0].Response)
	}
}

func TestCardParseStdinJSON(t *testing.T) {
	out, err := executeCommand(t,
		`{"EMVCoL3CardImage": {"Header": {"CardId": "JSON CARD"}}}`,
		"card", "parse", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "JSON CARD"`)
}

func TestCardParseInvalid(t *testing.T) {
	_, err := executeCommand(t, "<a/><b/>", "card", "parse")
	assert.Error(t, err)

	_, err = executeCommand(t, "", "card", "parse", "missing.xml")
	assert.Error(t, err)
}

func TestTLVCommands(t *testing.T) {
	out, err := executeCommand(t, "", "tlv", "decode", "5A021122", "5F2403251231")
	require.NoError(t, err)
	var fields []tlv.Field
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	assert.Equal(t, []tlv.Field{
		{Tag: "5A", Value: "1122", Size: 8},
		{Tag: "5F24", Value: "251231", Size: 12},
	}, fields)

	out, err = executeCommand(t, "", "tlv", "decode", "--tree", "70075A021122950100")
	require.NoError(t, err)
	var nodes []tlv.Node
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Children, 2)

	out, err = executeCommand(t, "", "tlv", "encode", "--tag", "9F27", "--value", "80")
	require.NoError(t, err)
	assert.Equal(t, "9F270180\n", out)

	_, err = executeCommand(t, "", "tlv", "decode", "5A0511")
	assert.ErrorIs(t, err, emverr.ErrMalformedTLV)
}

func TestEMVCommands(t *testing.T) {
	const mk = "0123456789ABCDEFFEDCBA9876543210"

	out, err := executeCommand(t, "",
		"emv", "mac", "--apdu", "8424000008", "--atc", "0001", "--ac", "1122334455667788", "--mk", mk)
	require.NoError(t, err)
	var res emvmac.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, emvmac.Result{APDUWithMAC: "84240000083D40E0A4A3DE8445", NextRand: "1122334455667789"}, res)

	out, err = executeCommand(t, "", "emv", "session-key", "--mk", mk, "--ac", "1122334455667788")
	require.NoError(t, err)
	assert.Equal(t, "2742517CB19B110771F36176FFF40AE7\n", out)

	out, err = executeCommand(t, "", "emv", "session-key", "--mk", mk, "--atc", "0001", "--un", "12345678")
	require.NoError(t, err)
	assert.Equal(t, "FB99AF71C5A2924D62E87E6643E6F1FD\n", out)

	out, err = executeCommand(t, "", "emv", "arpc", "--sk", mk, "--ac", "1122334455667788", "--arc", "3030")
	require.NoError(t, err)
	assert.Equal(t, "4D605DF18D589F0F\n", out)

	_, err = executeCommand(t, "", "emv", "session-key", "--mk", mk)
	assert.Error(t, err)

	_, err = executeCommand(t, "", "emv", "mac", "--apdu", "84", "--atc", "0001", "--ac", "1122334455667788", "--mk", mk)
	assert.Equal(t, "apdu", emverr.FieldOf(err))
}

func TestKeyCommands(t *testing.T) {
	out, err := executeCommand(t, "", "emv", "kcv", "0123456789ABCDEFFEDCBA9876543210")
	require.NoError(t, err)
	assert.Equal(t, "08D7B4\n", out)

	out, err = executeCommand(t, "", "emv", "generate-key")
	require.NoError(t, err)
	var gen struct {
		Key string `json:"key"`
		KCV string `json:"kcv"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &gen))
	assert.Len(t, gen.Key, 32)
	assert.Len(t, gen.KCV, 6)

	card := `<EMVCoL3CardImage><Crypto><SymmetricKeys>
  <Key name="MK_AC"><Value>0123456789ABCDEF FEDCBA9876543210</Value></Key>
  <Key name="BROKEN"><Value>0123</Value></Key>
</SymmetricKeys></Crypto></EMVCoL3CardImage>`
	out, err = executeCommand(t, "", "card", "keys", "--xml", card)
	require.NoError(t, err)
	var checks []struct {
		Name  string `json:"name"`
		KCV   string `json:"kcv"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	require.Len(t, checks, 2)
	assert.Equal(t, "BROKEN", checks[0].Name)
	assert.NotEmpty(t, checks[0].Error)
	assert.Equal(t, "MK_AC", checks[1].Name)
	assert.Equal(t, "08D7B4", checks[1].KCV)
}

func TestDebugFlag(t *testing.T) {
	_, err := executeCommand(t, "", "--debug", "tlv", "encode", "--tag", "5A", "--value", "11")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	_, err = executeCommand(t, "", "tlv", "encode", "--tag", "5A", "--value", "11")
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}
