package preprocess

import (
	"errors"
	"testing"

	"github.com/rubiojr/sagepp/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreparse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"integers", "2/3", "Integer(2)/Integer(3)"},
		{"real", "2.5", "RealNumber('2.5')"},
		{"power", "a^b", "a**b"},
		{"xor", "a^^b", "a^b"},
		{"xor4", "a^^^^b", "a^b"},
		{"relative import", "from ..mod import f", "from ..mod import f"},
		{"gen index", "R.0 + R.1", "R.gen(0) + R.gen(1)"},
		{"method on integer", "1.sqrt()", "Integer(1).sqrt()"},
		{"ellipsis", "[1,2,..,n]", "(ellipsis_range(Integer(1),Integer(2),Ellipsis,n))"},
		{"backslash", `A \ B`, "A  * BackslashOperator() * B"},
		{"backslash power", `A^2 \ B + C`, "A**Integer(2)  * BackslashOperator() * B + C"},
		{"no implicit mul", "2x", "2x"},
		{"string untouched", `print("2x", 3)`, `print("2x", Integer(3))`},
		{"comment kept", "x = 2 # 3 apples", "x = Integer(2) # 3 apples"},
		{"percent", `"%d" % 5`, `"%d" % Integer(5)`},
		{"comment line", "# 2x^3", "# 2x^3"},
		{"shell line", "  !ls 2", "  !ls 2"},
		{"continuation prompt", "... 2", "... Integer(2)"},
		{"time without option", "time x = 2", "time x = Integer(2)"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Preparse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreparse_Options(t *testing.T) {
	p := New(Options{})
	got, err := p.Preparse("[1,2,..,n]", true)
	require.NoError(t, err)
	assert.Equal(t, "(ellipsis_range(1,2,Ellipsis,n))", got)

	p = New(Options{ImplicitMul: MulNumeric, NumericLiterals: true})
	got, err = p.Preparse("2x", true)
	require.NoError(t, err)
	assert.Equal(t, "Integer(2)*x", got)

	p.SetImplicitMul(MulOff)
	assert.Equal(t, MulOff, p.Options().ImplicitMul)
	got, err = p.Preparse("2x", true)
	require.NoError(t, err)
	assert.Equal(t, "2x", got)

	p = New(Options{NumericLiterals: true, IgnorePrompts: true})
	got, err = p.Preparse("sage: 2 + 2", true)
	require.NoError(t, err)
	assert.Equal(t, "Integer(2) + Integer(2)", got)
}

func TestPreparse_Time(t *testing.T) {
	p := New(Options{NumericLiterals: true, Time: true})

	got, err := p.Preparse("time x = 2", true)
	require.NoError(t, err)
	assert.Equal(t,
		`__time__=misc.cputime(); __wall__=misc.walltime(); x = Integer(2); print("Time: CPU %.2f s, Wall: %.2f s" % (misc.cputime(__time__), misc.walltime(__wall__)))`,
		got)

	got, err = p.Preparse("time R.<x> = ZZ[]", true)
	require.NoError(t, err)
	assert.Equal(t,
		`__time__=misc.cputime(); __wall__=misc.walltime(); R = ZZ['x']; print("Time: CPU %.2f s, Wall: %.2f s" % (misc.cputime(__time__), misc.walltime(__wall__))); (x,) = R._first_ngens(1)`,
		got)
}

func TestPreparse_FixedPoint(t *testing.T) {
	for _, in := range []string{"2/3", "x = 1.5 + 2j", "0b101 + 0o17 + 0xff", "5.sqrt()"} {
		once, err := Preparse(in)
		require.NoError(t, err)
		twice, err := Preparse(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, in)
	}
}

func TestPreparser_Continuation(t *testing.T) {
	p := New(DefaultOptions())

	got, err := p.Preparse(`s = """2`, true)
	require.NoError(t, err)
	assert.Equal(t, `s = """2`, got)
	assert.True(t, p.State().Open())
	assert.Equal(t, `"""`, p.State().Delim)

	got, err = p.Preparse(`3 + x"""  + 4`, false)
	require.NoError(t, err)
	assert.Equal(t, `3 + x"""  + Integer(4)`, got)
	assert.False(t, p.State().Open())

	_, err = p.Preparse(`s = '''a`, true)
	require.NoError(t, err)
	got, err = p.Preparse("# 2", true)
	require.NoError(t, err)
	assert.Equal(t, "# 2", got)
	assert.False(t, p.State().Open())
}

func TestPreparser_ErrorKeepsState(t *testing.T) {
	p := New(DefaultOptions())
	_, err := p.Preparse(`s = '''a`, true)
	require.NoError(t, err)

	_, err = p.Preparse(`b''' + a..b`, false)
	require.Error(t, err)
	assert.True(t, p.State().Open())

	p.Reset()
	assert.False(t, p.State().Open())
}

func TestPreparse_SyntaxErrorSpan(t *testing.T) {
	_, err := Preparse(`x = 'ab' + a..b`)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, scanner.Span{Start: 12, End: 14}, se.Span)

	_, err = Preparse("  ..5")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "cannot start line with ellipsis", se.Msg)
	assert.Equal(t, scanner.Span{Start: 2, End: 4}, se.Span)
}

func TestPreparse_TypeError(t *testing.T) {
	_, err := Preparse("x\x00")
	var te *TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Offset)

	_, err = Preparse("a\xffb")
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Offset)
	assert.Equal(t, "invalid UTF-8", te.Reason)
}

func BenchmarkPreparse(b *testing.B) {
	p := New(Options{ImplicitMul: MulDefault, NumericLiterals: true})
	for b.Loop() {
		_, _ = p.Preparse("R.<x,y> = QQ[]; f(x) = 2x^3 - 1.5 + [1..10]", true)
	}
}
