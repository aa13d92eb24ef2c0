package cryptoutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

func TestGenerateARPCMethod1(t *testing.T) {
	t.Parallel()

	skAC, err := DeriveSessionKeyACHex(testMK, "0001", "12345678")
	require.NoError(t, err)

	tests := []struct {
		name string
		sk   string
		want string
	}{
		{"derived session key", skAC, "49749220005B2BE1"},
		{"master key as session key", testMK, "4D605DF18D589F0F"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := GenerateARPCMethod1Hex(tt.sk, testAC, "3030")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateARPCMethod1Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sk    string
		ac    string
		arc   string
		field string
	}{
		{"short key", "0011", testAC, "3030", "sessionKey"},
		{"short ac", testMK, "11", "3030", "ac"},
		{"long arc", testMK, testAC, "303030", "arc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := GenerateARPCMethod1Hex(tt.sk, tt.ac, tt.arc)
			require.Error(t, err)
			assert.ErrorIs(t, err, emverr.ErrValidation)
			assert.Equal(t, tt.field, emverr.FieldOf(err))
		})
	}
}
