package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5", "Integer(5)"},
		{"5j", "ComplexNumber(0, '5')"},
		{"5jr", "5J"},
		{"5l", "5l"},
		{"5L", "5L"},
		{"1.5", "RealNumber('1.5')"},
		{"1.5j", "ComplexNumber(0, '1.5')"},
		{".5j", "ComplexNumber(0, '.5')"},
		{"5e9j", "ComplexNumber(0, '5e9')"},
		{"5.", "RealNumber('5.')"},
		{"5.j", "ComplexNumber(0, '5.')"},
		{"5.foo()", "Integer(5).foo()"},
		{"5.5.foo()", "RealNumber('5.5').foo()"},
		{"5.5j.foo()", "ComplexNumber(0, '5.5').foo()"},
		{"5j.foo()", "ComplexNumber(0, '5').foo()"},
		{"1.exp()", "Integer(1).exp()"},
		{"1e+10", "RealNumber('1e+10')"},
		{"0x0af", "Integer(0x0af)"},
		{"0x10.sqrt()", "Integer(0x10).sqrt()"},
		{"0xe5", "Integer(0xe5)"},
		{"0o100", "Integer('100', 8)"},
		{"0b111001", "Integer('111001', 2)"},
		{"R.0 + x_1", "R.0 + x_1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericLiterals(tt.in))
		})
	}
}

func TestNumericLiterals_FixedPoint(t *testing.T) {
	for _, in := range []string{"2/3", "0x1f + 5.sqrt()", "x^2 + 3"} {
		once := NumericLiterals(in)
		assert.Equal(t, once, NumericLiterals(once), in)
	}
}

func TestExtractNumericLiterals(t *testing.T) {
	code, consts := ExtractNumericLiterals("1.2 + 5")
	assert.Equal(t, "_sage_const_1p2  + _sage_const_5 ", code)
	assert.Equal(t, []Constant{
		{Name: "_sage_const_1p2", Constructor: "RealNumber('1.2')"},
		{Name: "_sage_const_5", Constructor: "Integer(5)"},
	}, consts.Entries())

	code, _ = ExtractNumericLiterals("[1, 1.1, 1e1, -1e-1, 1.]")
	assert.Equal(t, "[_sage_const_1 , _sage_const_1p1 , _sage_const_1e1 , -_sage_const_1en1 , _sage_const_1p ]", code)

	code, _ = ExtractNumericLiterals("[1.sqrt(), 1.2.sqrt(), 1r, 1.2r, R.1, R0.1, (1..5)]")
	assert.Equal(t, "[_sage_const_1 .sqrt(), _sage_const_1p2 .sqrt(), 1 , 1.2 , R.1, R0.1, (_sage_const_1 .._sage_const_5 )]", code)
}

func TestExtractNumericLiterals_Dedup(t *testing.T) {
	_, consts := ExtractNumericLiterals("1.0 + 1.00 + 1.0 + 2j + 2j")
	require.Equal(t, 3, consts.Len())
	assert.Equal(t, []string{
		"_sage_const_1p0 = RealNumber('1.0')",
		"_sage_const_1p00 = RealNumber('1.00')",
		"_sage_const_2j = ComplexNumber(0, '2')",
	}, consts.Assignments())

	ctor, ok := consts.Lookup("_sage_const_1p00")
	assert.True(t, ok)
	assert.Equal(t, "RealNumber('1.00')", ctor)
	_, ok = consts.Lookup("_sage_const_3")
	assert.False(t, ok)
}
