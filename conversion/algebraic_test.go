package conversion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvalAlgebraicFormulas(t *testing.T) {
	cases := []struct {
		name    string
		formula string
		x       float64
		want    float64
	}{
		{"identity", "X", 5, 5},
		{"case insensitive", "x*2", 3, 6},
		{"precedence", "2+3*4", 0, 14},
		{"parens override precedence", "(2+3)*4", 0, 20},
		{"unary minus", "-X", 4, -4},
		{"unary plus", "+X", 4, 4},
		{"double unary", "--X", 4, 4},
		{"power", "X^2", 3, 9},
		{"power alias", "X**2", 3, 9},
		{"right assoc power", "2^3^2", 0, 512}, // 2^(3^2), not (2^3)^2
		{"negative integer exponent", "2^-2", 0, 0.25},
		{"non integer exponent", "4^0.5", 0, 2},
		{"scientific notation", "1e2+X", 1, 101},
		{"division", "X/4", 10, 2.5},
		{"nested parens", "((X+1))*2", 2, 6},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := EvalAlgebraic(c.formula, c.x)
			require.NoError(t, err)
			require.InDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestEvalAlgebraicErrors(t *testing.T) {
	cases := []string{
		"X +",
		"(X",
		"@",
		"",
		")",
	}

	for _, formula := range cases {
		t.Run(formula, func(t *testing.T) {
			_, err := EvalAlgebraic(formula, 1)
			require.Error(t, err)
		})
	}
}
