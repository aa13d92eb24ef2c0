// Package cryptoutils implements the 3DES primitives used to simulate an EMV card:
// session key derivation, the retail MAC, ARPC method 1 and key check values.
// Byte-level functions are paired with hex facades that accept any case and
// return uppercase hex.
package cryptoutils

import (
	"crypto/cipher"
	"crypto/des"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

const (
	ISO9797_METHOD2_PADDING_BYTE = 0x80
	KEY_LENGTH_SINGLE            = 8
	KEY_LENGTH_DOUBLE            = 16
	KEY_LENGTH_TRIPLE            = 24
	ATC_LENGTH                   = 2
	AC_LENGTH                    = 8
	ARC_LENGTH                   = 2
	UN_LENGTH                    = 4
	UN_LENGTH_EXTENDED           = 6
)

// padISO9797Method2 appends 0x80 and the fewest zero bytes that make the length a
// multiple of bs. The marker byte is always added, even to aligned input.
func padISO9797Method2(msg []byte, bs int) []byte {
	padded := slices.Concat(msg, []byte{ISO9797_METHOD2_PADDING_BYTE})
	if rem := len(padded) % bs; rem != 0 {
		padded = append(padded, make([]byte, bs-rem)...)
	}

	return padded
}

// Raw2Str converts raw binary data to an uppercase hex string.
func Raw2Str(raw []byte) string {
	return strings.ToUpper(hex.EncodeToString(raw))
}

// PrepareTripleDESKey extends a double length key k1||k2 to k1||k2||k1.
// Single length keys are repeated three times; other lengths are returned unchanged.
func PrepareTripleDESKey(key []byte) []byte {
	switch len(key) {
	case KEY_LENGTH_SINGLE:
		return slices.Concat(key, key, key)
	case KEY_LENGTH_DOUBLE:
		return slices.Concat(key, key[:KEY_LENGTH_SINGLE])
	default:
		return key
	}
}

// XORBytes returns a^b for equal-length slices.
func XORBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, emverr.InvalidLength(len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out, nil
}

// Chunk splits b into blocks of size sz. The last block may be shorter.
func Chunk(b []byte, sz int) [][]byte {
	if sz <= 0 {
		return nil
	}
	n := (len(b) + sz - 1) / sz
	out := make([][]byte, n)
	for i := range n {
		start := i * sz
		end := min(start+sz, len(b))
		out[i] = b[start:end]
	}

	return out
}

// DecodeHex decodes s and checks it is exactly n bytes long. A negative n accepts
// any non-empty even-length input. Failures are reported against field.
func DecodeHex(field, s string, n int) ([]byte, error) {
	expected := "hex"
	if n >= 0 {
		expected = fmt.Sprintf("%d hex bytes", n)
	}

	raw, err := hex.DecodeString(s)
	if err != nil || (n >= 0 && len(raw) != n) || (n < 0 && len(raw) == 0) {
		return nil, emverr.Validation(field, expected, s)
	}

	return raw, nil
}

func checkKey(field string, key []byte) error {
	if len(key) != KEY_LENGTH_DOUBLE {
		return emverr.Validation(field, "16-byte double length key", Raw2Str(key))
	}

	return nil
}

func newTripleDES(doubleKey []byte) (cipher.Block, error) {
	block, err := des.NewTripleDESCipher(PrepareTripleDESKey(doubleKey))
	if err != nil {
		return nil, errors.Wrap(err, "create 3des cipher")
	}

	return block, nil
}

// encryptBlockTDES encrypts a single 8-byte block under doubleKey with 3DES CBC and
// a zero IV.
func encryptBlockTDES(doubleKey, block []byte) ([]byte, error) {
	c, err := newTripleDES(doubleKey)
	if err != nil {
		return nil, err
	}
	out := make([]byte, des.BlockSize)
	cipher.NewCBCEncrypter(c, make([]byte, des.BlockSize)).CryptBlocks(out, block)

	return out, nil
}

func invalidField(field, expected string, raw []byte) error {
	return emverr.Validation(field, expected, Raw2Str(raw))
}
