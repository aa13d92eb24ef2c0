package message

import (
	"strings"

	"github.com/kaique-kira/xml-card-reader/internal/errorcodes"
)

// Field names shared by the parsers.
const (
	FieldAPDU       = "APDU"
	FieldATC        = "ATC"
	FieldAC         = "AC"
	FieldUN         = "UN"
	FieldARC        = "ARC"
	FieldSessionKey = "Session Key"
	FieldMasterKey  = "Master Key"
	FieldRand       = "Rand"
	FieldTag        = "Tag"
	FieldValue      = "Value"
)

const (
	keyLen = 32
	atcLen = 4
	acLen  = 16
	arcLen = 4
)

// NewMA parses an MA APDU MAC command: apdu;atc;ac;sessionKey;masterKey;rand.
func NewMA(data []byte) (*BaseMessage, error) {
	parts := strings.Split(string(data), ";")
	if len(parts) != 6 {
		return nil, errorcodes.Err15
	}

	m := NewBaseMessage("MA", "Generate an APDU MAC")
	m.Set(FieldAPDU, parts[0])
	m.Set(FieldATC, parts[1])
	m.Set(FieldAC, parts[2])
	m.SetSecret(FieldSessionKey, parts[3])
	m.SetSecret(FieldMasterKey, parts[4])
	m.Set(FieldRand, parts[5])

	return m, nil
}

// NewKA parses a KA AC session key command: mk(32H) atc(4H) un(8H or 12H).
func NewKA(data []byte) (*BaseMessage, error) {
	if len(data) != keyLen+atcLen+8 && len(data) != keyLen+atcLen+12 {
		return nil, errorcodes.Err80
	}

	m := NewBaseMessage("KA", "Derive an AC session key")
	m.SetSecret(FieldMasterKey, string(data[:keyLen]))
	m.Set(FieldATC, string(data[keyLen:keyLen+atcLen]))
	m.Set(FieldUN, string(data[keyLen+atcLen:]))

	return m, nil
}

// NewKM parses a KM MAC session key command: mk(32H) ac(16H).
func NewKM(data []byte) (*BaseMessage, error) {
	if len(data) != keyLen+acLen {
		return nil, errorcodes.Err80
	}

	m := NewBaseMessage("KM", "Derive a MAC session key")
	m.SetSecret(FieldMasterKey, string(data[:keyLen]))
	m.Set(FieldAC, string(data[keyLen:]))

	return m, nil
}

// NewAR parses an AR ARPC command: sk(32H) ac(16H) arc(4H).
func NewAR(data []byte) (*BaseMessage, error) {
	if len(data) != keyLen+acLen+arcLen {
		return nil, errorcodes.Err80
	}

	m := NewBaseMessage("AR", "Generate an ARPC")
	m.SetSecret(FieldSessionKey, string(data[:keyLen]))
	m.Set(FieldAC, string(data[keyLen:keyLen+acLen]))
	m.Set(FieldARC, string(data[keyLen+acLen:]))

	return m, nil
}

// NewTN parses a TN TLV encode command: tag;value.
func NewTN(data []byte) (*BaseMessage, error) {
	tag, value, ok := strings.Cut(string(data), ";")
	if !ok {
		return nil, errorcodes.Err15
	}

	m := NewBaseMessage("TN", "Encode a TLV")
	m.Set(FieldTag, tag)
	m.Set(FieldValue, value)

	return m, nil
}
