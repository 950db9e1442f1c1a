package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplicitMul(t *testing.T) {
	tests := []struct {
		in    string
		level int
		want  string
	}{
		{"2x", MulOff, "2x"},
		{"2x", MulNumeric, "2*x"},
		{"3(x+1)", MulNumeric, "3*(x+1)"},
		{"sin(x) y", MulNumeric, "sin(x) y"},
		{"sin(x) y", MulParen, "sin(x)*y"},
		{"'a' x", MulNumeric, "'a' x"},
		{"'a' x", MulParen, "'a'*x"},
		{"a b", MulParen, "a b"},
		{"(2x^2-4x+3)a0", MulDefault, "(2*x^2-4*x+3)*a0"},
		{"a b c in L", MulDefault, "a*b*c in L"},
		{"1r + 1e3 + 5exp(2)", MulDefault, "1r + 1e3 + 5*exp(2)"},
		{"f(a)(b)", MulDefault, "f(a)(b)"},
		{"f(a)(b)", MulParenParens, "f(a)*(b)"},
		{"2 if c else 3", MulDefault, "2 if c else 3"},
		{"0x1f + 0b101 + 0o17", MulDefault, "0x1f + 0b101 + 0o17"},
		{"time a", MulDefault, "time a"},
		{"a b # c d", MulDefault, "a*b # c d"},
		{"x = 'time 2x' + 2y", MulNumeric, "x = 'time 2x' + 2*y"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ImplicitMul(tt.in, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImplicitMul_RemovesMarkers(t *testing.T) {
	got, err := ImplicitMul("0x10 + 2r + 1e5 + time x", MulParenParens)
	require.NoError(t, err)
	assert.NotContains(t, got, noMul)
	assert.Equal(t, "0x10 + 2r + 1e5 + time x", got)
}
