package cryptoutils

import (
	"strings"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

const (
	upperHexDigits = "0123456789ABCDEF"
	hexDigits      = upperHexDigits + "abcdef"
)

// XORHex XORs two equal-length hex strings and returns uppercase hex.
func XORHex(a, b string) (string, error) {
	if len(a) != len(b) {
		return "", emverr.InvalidLength(len(a), len(b))
	}
	aRaw, err := DecodeHex("a", a, -1)
	if err != nil {
		return "", err
	}
	bRaw, err := DecodeHex("b", b, -1)
	if err != nil {
		return "", err
	}

	out, err := XORBytes(aRaw, bRaw)
	if err != nil {
		return "", err
	}

	return Raw2Str(out), nil
}

// IncrementHex adds one to the big-endian number s, keeping its digit count. The
// maximum value wraps to zero.
func IncrementHex(s string) (string, error) {
	if s == "" || strings.Trim(s, hexDigits) != "" {
		return "", emverr.Validation("value", "hex digits", s)
	}

	digits := []byte(strings.ToUpper(s))
	for i := len(digits) - 1; i >= 0; i-- {
		d := strings.IndexByte(upperHexDigits, digits[i])
		if d < 0xF {
			digits[i] = upperHexDigits[d+1]

			return string(digits), nil
		}
		digits[i] = '0'
	}

	return string(digits), nil
}
