package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreparseGenerators(t *testing.T) {
	assert.Equal(t,
		";  R = ZZ['x']; (x,) = R._first_ngens(1);",
		PreparseGenerators(";  R.<x>=ZZ[];"))
	assert.Equal(t, ";x = 1;", PreparseGenerators(";x = 1;"))
	assert.Equal(t, ";R.<x> == S;", PreparseGenerators(";R.<x> == S;"))
}

func TestPreparse_Generators(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"R.<x> = ZZ['x']", "R = ZZ['x']; (x,) = R._first_ngens(1)"},
		{"R.<x,y> = ZZ['x,y']", "R = ZZ['x,y']; (x, y,) = R._first_ngens(2)"},
		{"R.<x> = ZZ[]", "R = ZZ['x']; (x,) = R._first_ngens(1)"},
		{"R.<x,y> = ZZ[]", "R = ZZ['x, y']; (x, y,) = R._first_ngens(2)"},
		{"R.<x> = PolynomialRing(ZZ, 'x')", "R = PolynomialRing(ZZ, 'x', names=('x',)); (x,) = R._first_ngens(1)"},
		{"K.<a> = QQ[2^(1/3)]", "K = QQ[Integer(2)**(Integer(1)/Integer(3))]; (a,) = K._first_ngens(1)"},
		{"R.<x> = ZZx", "R = ZZx; (x,) = R._first_ngens(1)"},
		{"A.<x,y,z>=FreeAlgebra(ZZ,3)", "A = FreeAlgebra(ZZ,Integer(3), names=('x', 'y', 'z',)); (x, y, z,) = A._first_ngens(3)"},
		{"R.<x, y> = ZZ;2", "R = ZZ; (x, y,) = R._first_ngens(2);Integer(2)"},
		{"F.<b>, f, g = S.field_extension()", "F, f, g  = S.field_extension(names=('b',)); (b,) = F._first_ngens(1)"},
		{"R.<x> = ZZ[] # ring", "R = ZZ['x']; (x,) = R._first_ngens(1) # ring"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Preparse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInjectNames(t *testing.T) {
	gens := []string{"x", "y"}
	assert.Equal(t, "P(names=('x', 'y',))", injectNames("P()", gens))
	assert.Equal(t, "P(QQ, names=('x', 'y',))", injectNames("P(QQ)", gens))
	assert.Equal(t, "f(a)(QQ, names=('x', 'y',))", injectNames("f(a)(QQ)", gens))
	assert.Equal(t, "ZZ['x, y']", injectNames("ZZ[]", gens))
	assert.Equal(t, "ZZ['t']", injectNames("ZZ['t']", gens))
	assert.Equal(t, "ZZ", injectNames("ZZ", gens))
}
