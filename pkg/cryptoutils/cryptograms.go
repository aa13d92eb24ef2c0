package cryptoutils

import (
	"slices"
)

// GenerateARPCMethod1 computes the authorisation response cryptogram from the 16-byte
// session key sk, the 8-byte application cryptogram ac and the 2-byte authorisation
// response code arc: 3DES(sk||sk[0:8]) of ac XOR (arc||000000000000).
func GenerateARPCMethod1(sk, ac, arc []byte) ([]byte, error) {
	if err := checkKey("sessionKey", sk); err != nil {
		return nil, err
	}
	if len(ac) != AC_LENGTH {
		return nil, invalidField("ac", "8 hex bytes", ac)
	}
	if len(arc) != ARC_LENGTH {
		return nil, invalidField("arc", "2 hex bytes", arc)
	}

	padded := slices.Concat(arc, make([]byte, AC_LENGTH-ARC_LENGTH))
	x, err := XORBytes(ac, padded)
	if err != nil {
		return nil, err
	}

	return encryptBlockTDES(sk, x)
}

// GenerateARPCMethod1Hex is GenerateARPCMethod1 over hex strings.
func GenerateARPCMethod1Hex(sk, ac, arc string) (string, error) {
	skRaw, err := DecodeHex("sessionKey", sk, KEY_LENGTH_DOUBLE)
	if err != nil {
		return "", err
	}
	acRaw, err := DecodeHex("ac", ac, AC_LENGTH)
	if err != nil {
		return "", err
	}
	arcRaw, err := DecodeHex("arc", arc, ARC_LENGTH)
	if err != nil {
		return "", err
	}

	arpc, err := GenerateARPCMethod1(skRaw, acRaw, arcRaw)
	if err != nil {
		return "", err
	}

	return Raw2Str(arpc), nil
}
