package cryptoutils

import (
	"crypto/des"
	"crypto/rand"

	"github.com/pkg/errors"
)

// KCV_LENGTH is the number of bytes in a key check value.
const KCV_LENGTH = 3

// GenerateKey returns a random double length 3DES key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KEY_LENGTH_DOUBLE)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "generate random key")
	}

	return key, nil
}

// CalculateKCV encrypts a zero block under key and returns the leading 3 bytes.
// Single, double and triple length keys are accepted.
func CalculateKCV(key []byte) ([]byte, error) {
	switch len(key) {
	case KEY_LENGTH_SINGLE, KEY_LENGTH_DOUBLE, KEY_LENGTH_TRIPLE:
	default:
		return nil, invalidField("key", "8, 16 or 24 byte key", key)
	}

	block, err := des.NewTripleDESCipher(PrepareTripleDESKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "create 3des cipher")
	}
	out := make([]byte, des.BlockSize)
	block.Encrypt(out, make([]byte, des.BlockSize))

	return out[:KCV_LENGTH], nil
}

// CalculateKCVHex is CalculateKCV over hex input.
func CalculateKCVHex(key string) (string, error) {
	raw, err := DecodeHex("key", key, -1)
	if err != nil {
		return "", err
	}
	kcv, err := CalculateKCV(raw)
	if err != nil {
		return "", err
	}

	return Raw2Str(kcv), nil
}

// GenerateKeyHex returns a random double length key and its check value as hex.
func GenerateKeyHex() (string, string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", "", err
	}
	kcv, err := CalculateKCV(key)
	if err != nil {
		return "", "", err
	}

	return Raw2Str(key), Raw2Str(kcv), nil
}

