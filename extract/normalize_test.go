package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected float64
	}{
		{"comma decimal, dot thousands", "1.234,56", 1234.56},
		{"dot decimal, comma thousands", "1,234.56", 1234.56},
		{"comma decimal only", "1234,56", 1234.56},
		{"dot decimal only", "850.50", 850.5},
		{"plain integer", "900", 900},
		{"currency symbol and spaces", " $ 1.050,75 ", 1050.75},
		{"currency code", "R$ 5,42", 5.42},
		{"negative", "-12,5", -12.5},
		{"trailing separator", "850.50.", 850.5},
		{"leading decimal", ".5", 0.5},
		{"multiple thousands groups", "1.234.567,89", 1234567.89},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			v := Normalize(testCase.input)

			require.NotNil(t, v)
			assert.InDelta(t, testCase.expected, *v, 1e-9)
		})
	}
}

func TestNormalize_Absent(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"",
		"abc",
		"-",
		",",
		".",
		"--5",
		"USD",
	} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			assert.Nil(t, Normalize(input))
		})
	}
}
