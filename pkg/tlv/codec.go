// Package tlv implements the EMV flavour of BER-TLV over hex-encoded strings.
// Decoding is flat: constructed values are returned as raw hex and never descended into.
package tlv

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/moov-io/bertlv"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

const (
	multiByteTagMask = 0x1F
	moreTagBytesBit  = 0x80
	longLengthBit    = 0x80
	lengthCountMask  = 0x7F
	// maxLengthBytes bounds the long-form length so the value fits an int.
	maxLengthBytes = 4
)

// Field is a single decoded tag/length/value triple.
type Field struct {
	Tag   string `json:"tag"`   // raw tag bytes as uppercase hex
	Value string `json:"value"` // raw value bytes as uppercase hex
	Size  int    `json:"size"`  // hex characters consumed: tag + length + value
}

// Decode splits input into consecutive TLV fields, consuming the whole string.
func Decode(input string) ([]Field, error) {
	if len(input)%2 != 0 {
		return nil, emverr.MalformedTLV(len(input)-1, "odd number of hex characters")
	}

	var fields []Field
	for pos := 0; pos < len(input); {
		f, next, err := DecodeField(input, pos)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		pos = next
	}

	return fields, nil
}

// DecodeField decodes the field starting at hex offset pos and returns it with the
// offset of the next field.
func DecodeField(input string, pos int) (Field, int, error) {
	start := pos

	tag, pos, err := decodeTag(input, pos)
	if err != nil {
		return Field{}, start, err
	}

	length, pos, err := decodeLength(input, pos)
	if err != nil {
		return Field{}, start, err
	}

	end := pos + length*2
	if length < 0 || end > len(input) {
		return Field{}, start, emverr.MalformedTLV(
			pos,
			"tag %s declares %d value bytes, only %d available",
			tag, length, (len(input)-pos)/2,
		)
	}
	value := input[pos:end]
	if _, err := hex.DecodeString(value); err != nil {
		return Field{}, start, emverr.MalformedTLV(pos, "value of tag %s is not hex", tag)
	}

	return Field{
		Tag:   tag,
		Value: strings.ToUpper(value),
		Size:  end - start,
	}, end, nil
}

// decodeTag reads one or more tag bytes.
func decodeTag(input string, pos int) (string, int, error) {
	first, err := readByte(input, pos, "tag")
	if err != nil {
		return "", pos, err
	}
	end := pos + 2

	if first&multiByteTagMask == multiByteTagMask {
		for {
			b, err := readByte(input, end, "subsequent tag")
			if err != nil {
				return "", pos, err
			}
			end += 2
			if b&moreTagBytesBit == 0 {
				break
			}
		}
	}

	return strings.ToUpper(input[pos:end]), end, nil
}

// decodeLength reads a short or long form length.
func decodeLength(input string, pos int) (int, int, error) {
	first, err := readByte(input, pos, "length")
	if err != nil {
		return 0, pos, err
	}
	pos += 2

	if first&longLengthBit == 0 {
		return int(first), pos, nil
	}

	count := int(first & lengthCountMask)
	if count == 0 || count > maxLengthBytes {
		return 0, pos, emverr.MalformedTLV(pos-2, "unsupported long-form length byte %02X", first)
	}

	length := 0
	for i := 0; i < count; i++ {
		b, err := readByte(input, pos, "length")
		if err != nil {
			return 0, pos, err
		}
		length = length<<8 | int(b)
		pos += 2
	}

	return length, pos, nil
}

func readByte(input string, pos int, what string) (byte, error) {
	if pos+2 > len(input) {
		return 0, emverr.MalformedTLV(pos, "missing %s byte", what)
	}
	v, err := strconv.ParseUint(input[pos:pos+2], 16, 8)
	if err != nil {
		return 0, emverr.MalformedTLV(pos, "%s byte %q is not hex", what, input[pos:pos+2])
	}

	return byte(v), nil
}

// Encode returns tag||length||value as uppercase hex.
func Encode(tagHex, valueHex string) (string, error) {
	return EncodeNode(Node{Tag: tagHex, Value: valueHex})
}

// DecodeTree decodes input into nested bertlv.TLV values, descending into constructed tags.
func DecodeTree(input string) ([]bertlv.TLV, error) {
	raw, err := hex.DecodeString(input)
	if err != nil {
		return nil, emverr.MalformedTLV(0, "input is not hex: %v", err)
	}
	tlvs, err := bertlv.Decode(raw)
	if err != nil {
		return nil, emverr.MalformedTLV(0, "%v", err)
	}

	return tlvs, nil
}
