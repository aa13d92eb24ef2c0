package cardimage

import (
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

// tagValueHex returns the hex value of a Tag element. Values with a text format are
// encoded byte per character in that single-byte charset; all others are hex with
// every non-hex character dropped.
func tagValueHex(id, format, text string) (string, error) {
	enc, err := textEncoding(format)
	if err != nil {
		return "", err
	}

	if enc == nil {
		value := stripNonHex(text)
		if len(value)%2 != 0 {
			return "", emverr.Validation("Tag "+id, "even number of hex digits", value)
		}

		return value, nil
	}

	raw, err := enc.NewEncoder().String(text)
	if err != nil {
		return "", emverr.Validation("Tag "+id, format+" text", text)
	}

	return strings.ToUpper(hex.EncodeToString([]byte(raw))), nil
}

// textEncoding maps a format attribute to a charset. A nil encoding means the value
// is already hex.
func textEncoding(format string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "hex", "b", "n", "cn":
		return nil, nil
	case "an", "ans":
		return charmap.ISO8859_1, nil
	}

	enc, err := ianaindex.IANA.Encoding(format)
	if err != nil || enc == nil {
		return nil, emverr.Validation("format", "hex or a known charset", format)
	}

	return enc, nil
}

func stripNonHex(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'F':
			sb.WriteRune(r)
		case r >= 'a' && r <= 'f':
			sb.WriteRune(r - 'a' + 'A')
		}
	}

	return sb.String()
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
