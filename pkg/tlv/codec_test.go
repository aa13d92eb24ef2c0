package tlv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Field
	}{
		{
			name:  "pan and expiry date",
			input: "5A081234567890123456" + "5F2403251231",
			want: []Field{
				{Tag: "5A", Value: "1234567890123456", Size: 20},
				{Tag: "5F24", Value: "251231", Size: 12},
			},
		},
		{
			name:  "three byte tag",
			input: "DF810101AA",
			want:  []Field{{Tag: "DF8101", Value: "AA", Size: 10}},
		},
		{
			name:  "zero length value",
			input: "9F3700",
			want:  []Field{{Tag: "9F37", Value: "", Size: 6}},
		},
		{
			name:  "lower case input",
			input: "9f3604001c",
			want:  []Field{{Tag: "9F36", Value: "001C", Size: 10}},
		},
		{
			name:  "constructed value kept raw",
			input: "7007" + "5A021122" + "950100",
			want:  []Field{{Tag: "70", Value: "5A021122950100", Size: 18}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeLongFormLength(t *testing.T) {
	t.Parallel()

	value := strings.Repeat("AB", 200)
	got, err := Decode("70" + "81C8" + value)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, value, got[0].Value)
	assert.Equal(t, 2+4+400, got[0].Size)

	got, err = Decode("70" + "820100" + strings.Repeat("00", 256))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Value, 512)
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "declared length exceeds input", input: "5A08123456"},
		{name: "second field truncated", input: "5A0112" + "5F2403"},
		{name: "missing length byte", input: "5A"},
		{name: "unterminated multi byte tag", input: "9F"},
		{name: "tag continuation never ends", input: "DF81"},
		{name: "non hex tag", input: "ZZ0100"},
		{name: "non hex length", input: "5AQ1"},
		{name: "non hex value", input: "5A02GGGG"},
		{name: "odd length input", input: "5A0112F"},
		{name: "long form length truncated", input: "708201"},
		{name: "indefinite length", input: "7080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, emverr.ErrMalformedTLV)
			assert.Equal(t, emverr.KindMalformedTLV, emverr.KindOf(err))
		})
	}
}

func TestDecodeField(t *testing.T) {
	t.Parallel()

	input := "5A021122" + "9F360200FF"

	f, next, err := DecodeField(input, 0)
	require.NoError(t, err)
	assert.Equal(t, Field{Tag: "5A", Value: "1122", Size: 8}, f)
	assert.Equal(t, 8, next)

	f, next, err = DecodeField(input, next)
	require.NoError(t, err)
	assert.Equal(t, Field{Tag: "9F36", Value: "00FF", Size: 10}, f)
	assert.Equal(t, len(input), next)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tag   string
		value string
		want  string
	}{
		{name: "short value", tag: "5A", value: "1234567890123456", want: "5A081234567890123456"},
		{name: "lower case normalised", tag: "9f36", value: "001c", want: "9F3602001C"},
		{name: "empty value", tag: "9F37", value: "", want: "9F3700"},
		{
			name:  "127 bytes short form",
			tag:   "70",
			value: strings.Repeat("00", 127),
			want:  "707F" + strings.Repeat("00", 127),
		},
		{
			name:  "128 bytes long form",
			tag:   "70",
			value: strings.Repeat("00", 128),
			want:  "708180" + strings.Repeat("00", 128),
		},
		{
			name:  "256 bytes two length octets",
			tag:   "70",
			value: strings.Repeat("11", 256),
			want:  "70820100" + strings.Repeat("11", 256),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Encode(tt.tag, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Encode("5", "00")
	assert.ErrorIs(t, err, &emverr.Error{Kind: emverr.KindValidation, Field: "tag"})

	_, err = Encode("5A", "123")
	assert.ErrorIs(t, err, &emverr.Error{Kind: emverr.KindValidation, Field: "value"})

	_, err = Encode("XY", "00")
	assert.ErrorIs(t, err, emverr.ErrValidation)
}

func TestEncodeLengthForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		size   int
		prefix string
	}{
		{"short form max", 127, "5A7F"},
		{"one length byte", 128, "5A8180"},
		{"one length byte max", 255, "5A81FF"},
		{"two length bytes", 256, "5A820100"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			value := strings.Repeat("AB", tt.size)
			got, err := Encode("5A", value)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix+value, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct{ tag, value string }{
		{"5A", "1234567890123456"},
		{"5F24", "251231"},
		{"9F10", "06010A03A00000"},
		{"DF8101", ""},
		{"70", strings.Repeat("A5", 130)},
	}

	for _, c := range cases {
		encoded, err := Encode(c.tag, c.value)
		require.NoError(t, err)

		fields, err := Decode(encoded)
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, Field{Tag: c.tag, Value: c.value, Size: len(encoded)}, fields[0])

		again, err := Encode(c.tag, fields[0].Value)
		require.NoError(t, err)
		assert.Equal(t, encoded, again)
	}
}

func TestEncodeNode(t *testing.T) {
	t.Parallel()

	n := Node{
		Tag: "70",
		Children: []Node{
			{Tag: "5A", Value: "1122"},
			{Tag: "5F24", Value: "251231"},
		},
	}

	got, err := EncodeNode(n)
	require.NoError(t, err)
	assert.Equal(t, "700A"+"5A021122"+"5F2403251231", got)

	nested := Node{
		Tag: "77",
		Children: []Node{
			{Tag: "9F27", Value: "80"},
			{Tag: "A5", Children: []Node{{Tag: "50", Value: "41"}}},
		},
	}
	got, err = EncodeNode(nested)
	require.NoError(t, err)
	assert.Equal(t, "7709"+"9F270180"+"A503500141", got)

	got, err = EncodeNodes([]Node{{Tag: "5A", Value: "11"}, {Tag: "9F36", Value: "0001"}})
	require.NoError(t, err)
	assert.Equal(t, "5A0111"+"9F36020001", got)
}

func TestDecodeTree(t *testing.T) {
	t.Parallel()

	tlvs, err := DecodeTree("7007" + "5A021122" + "950100")
	require.NoError(t, err)
	require.Len(t, tlvs, 1)
	assert.Equal(t, "70", strings.ToUpper(tlvs[0].Tag))
	require.Len(t, tlvs[0].TLVs, 2)
	assert.Equal(t, []byte{0x11, 0x22}, tlvs[0].TLVs[0].Value)

	nodes := ToNodes(tlvs)
	assert.Equal(t, []Node{{
		Tag: "70",
		Children: []Node{
			{Tag: "5A", Value: "1122"},
			{Tag: "95", Value: "00"},
		},
	}}, nodes)

	roundTrip, err := EncodeNodes(nodes)
	require.NoError(t, err)
	assert.Equal(t, "70075A021122950100", roundTrip)

	_, err = DecodeTree("nothex")
	assert.ErrorIs(t, err, emverr.ErrMalformedTLV)
}
