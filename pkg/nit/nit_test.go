package nit_test

import (
	"testing"

	"github.com/jhoicas/Distribuidores-api/pkg/nit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"900123456", "900123456-8"},
		{"900.123.456-8", "900123456-8"},
		{"9001234568", "900123456-8"},
		{" 800 197 268 4 ", "800197268-4"},
	}
	for _, tc := range cases {
		got, err := nit.Normalize(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalize_Invalidos(t *testing.T) {
	for _, in := range []string{"", "900", "900123456-1", "90012345678", "900A23456"} {
		_, err := nit.Normalize(in)
		assert.ErrorIs(t, err, nit.ErrInvalid, in)
	}
}

func TestCheckDigit_RestoCeroOUno(t *testing.T) {
	// 000000000: suma 0, resto 0
	dv, err := nit.CheckDigit("000000000")
	require.NoError(t, err)
	assert.Equal(t, byte('0'), dv)
}
