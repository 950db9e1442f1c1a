package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainingBlock(t *testing.T) {
	s := "factor(next_prime(L[5]+1))"
	tests := []struct {
		name   string
		ix     int
		delims []string
		want   string
	}{
		{"innermost paren", 22, nil, "(L[5]+1)"},
		{"bracket", 20, nil, "[5]"},
		{"paren only", 20, []string{"()"}, "(L[5]+1)"},
		{"outer call", 10, nil, "(next_prime(L[5]+1))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := ContainingBlock(s, tt.ix, tt.delims, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, span.Text(s))
			assert.LessOrEqual(t, span.Start, tt.ix)
			assert.Greater(t, span.End, tt.ix)
		})
	}
}

func TestContainingBlock_NoEnclosing(t *testing.T) {
	_, err := ContainingBlock("a..b", 1, []string{"()", "[]"}, true)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Msg, "unbalanced")

	span, err := ContainingBlock("a..b", 1, []string{"()", "[]"}, false)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 4}, span)
}

func TestContainingBlock_MissingCloser(t *testing.T) {
	_, err := ContainingBlock("[1..n", 2, nil, false)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Span.Start)
}

func TestContainingBlock_SkipsClosedSiblings(t *testing.T) {
	s := "[f(1), g(2), ..,n]"
	span, err := ContainingBlock(s, 13, []string{"()", "[]"}, true)
	require.NoError(t, err)
	assert.Equal(t, s, span.Text(s))
}

func TestMatchingOpen(t *testing.T) {
	s := "PolynomialRing(ZZ, %(L1)s)"
	assert.Equal(t, 14, MatchingOpen(s, len(s)-1))
	assert.Equal(t, 3, MatchingOpen("ZZ[[]]", 4))
	assert.Equal(t, 2, MatchingOpen("ZZ[[]]", 5))
	assert.Equal(t, -1, MatchingOpen("x)", 1))
	assert.Equal(t, -1, MatchingOpen("x", 0))
}
