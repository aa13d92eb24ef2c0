package cryptoutils

import (
	"crypto/des"
	"slices"
)

// DeriveSessionKeyAC derives the 16-byte application cryptogram session key from
// master key mk, application transaction counter atc and unpredictable number un.
// The two halves are 3DES(mk) of atc||F000||un and atc||0F00||un truncated to one
// block, so a 4-byte un fills the block and a 6-byte un loses its last two bytes.
func DeriveSessionKeyAC(mk, atc, un []byte) ([]byte, error) {
	if err := checkKey("masterKey", mk); err != nil {
		return nil, err
	}
	if len(atc) != ATC_LENGTH {
		return nil, invalidField("atc", "2 hex bytes", atc)
	}
	if len(un) != UN_LENGTH && len(un) != UN_LENGTH_EXTENDED {
		return nil, invalidField("un", "4 or 6 hex bytes", un)
	}

	left := slices.Concat(atc, []byte{0xF0, 0x00}, un)[:des.BlockSize]
	right := slices.Concat(atc, []byte{0x0F, 0x00}, un)[:des.BlockSize]

	return deriveHalves(mk, left, right)
}

// DeriveSessionKeyMAC derives the 16-byte secure messaging session key from master
// key mk and application cryptogram ac by replacing the third byte of ac with F0 and
// 0F respectively.
func DeriveSessionKeyMAC(mk, ac []byte) ([]byte, error) {
	if err := checkKey("masterKey", mk); err != nil {
		return nil, err
	}
	if len(ac) != AC_LENGTH {
		return nil, invalidField("ac", "8 hex bytes", ac)
	}

	left := slices.Clone(ac)
	right := slices.Clone(ac)
	left[2] = 0xF0
	right[2] = 0x0F

	return deriveHalves(mk, left, right)
}

func deriveHalves(mk, left, right []byte) ([]byte, error) {
	l, err := encryptBlockTDES(mk, left)
	if err != nil {
		return nil, err
	}
	r, err := encryptBlockTDES(mk, right)
	if err != nil {
		return nil, err
	}

	return slices.Concat(l, r), nil
}

// DeriveSessionKeyACHex is DeriveSessionKeyAC over hex strings.
func DeriveSessionKeyACHex(mk, atc, un string) (string, error) {
	mkRaw, err := DecodeHex("masterKey", mk, KEY_LENGTH_DOUBLE)
	if err != nil {
		return "", err
	}
	atcRaw, err := DecodeHex("atc", atc, ATC_LENGTH)
	if err != nil {
		return "", err
	}
	unRaw, err := DecodeHex("un", un, -1)
	if err != nil {
		return "", err
	}

	sk, err := DeriveSessionKeyAC(mkRaw, atcRaw, unRaw)
	if err != nil {
		return "", err
	}

	return Raw2Str(sk), nil
}

// DeriveSessionKeyMACHex is DeriveSessionKeyMAC over hex strings.
func DeriveSessionKeyMACHex(mk, ac string) (string, error) {
	mkRaw, err := DecodeHex("masterKey", mk, KEY_LENGTH_DOUBLE)
	if err != nil {
		return "", err
	}
	acRaw, err := DecodeHex("ac", ac, AC_LENGTH)
	if err != nil {
		return "", err
	}

	sk, err := DeriveSessionKeyMAC(mkRaw, acRaw)
	if err != nil {
		return "", err
	}

	return Raw2Str(sk), nil
}
