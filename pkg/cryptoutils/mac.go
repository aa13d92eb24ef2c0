package cryptoutils

import (
	"crypto/des"

	"github.com/pkg/errors"
)

// RetailMAC computes the 8-byte ISO/IEC 9797-1 MAC algorithm 3 over msg with the
// 16-byte key sk. The message is always padded with method 2. All blocks but the
// last are chained with single DES under sk[0:8]; the final block is XORed into the
// chain and encrypted with 3DES under sk||sk[0:8].
func RetailMAC(sk, msg []byte) ([]byte, error) {
	if err := checkKey("sessionKey", sk); err != nil {
		return nil, err
	}

	padded := padISO9797Method2(msg, des.BlockSize)
	head := padded[:len(padded)-des.BlockSize]
	last := padded[len(padded)-des.BlockSize:]

	chain := make([]byte, des.BlockSize)
	if len(head) > 0 {
		single, err := des.NewCipher(sk[:KEY_LENGTH_SINGLE])
		if err != nil {
			return nil, errors.Wrap(err, "create des cipher")
		}
		for _, block := range Chunk(head, des.BlockSize) {
			x, err := XORBytes(block, chain)
			if err != nil {
				return nil, err
			}
			single.Encrypt(chain, x)
		}
	}

	final, err := XORBytes(last, chain)
	if err != nil {
		return nil, err
	}

	return encryptBlockTDES(sk, final)
}

// RetailMACHex is RetailMAC over hex strings. An empty message is allowed.
func RetailMACHex(sk, msg string) (string, error) {
	skRaw, err := DecodeHex("sessionKey", sk, KEY_LENGTH_DOUBLE)
	if err != nil {
		return "", err
	}
	var msgRaw []byte
	if msg != "" {
		if msgRaw, err = DecodeHex("message", msg, -1); err != nil {
			return "", err
		}
	}

	mac, err := RetailMAC(skRaw, msgRaw)
	if err != nil {
		return "", err
	}

	return Raw2Str(mac), nil
}
