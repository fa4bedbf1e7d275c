package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDispatch(t *testing.T) {
	for _, category := range []Category{Einmaleins, Schriftlich, Primfaktorisierung} {
		set, err := Generate(10, category, Settings{})
		require.NoError(t, err, category)
		assert.Len(t, set, 10, category)
	}

	_, err := Generate(10, Category("algebra"), Settings{})
	assert.Error(t, err)
}

func TestEinmaleinsProblemsAreUniqueAndCorrect(t *testing.T) {
	set := GenerateEinmaleins(100, Settings{})
	require.Len(t, set, 100)

	seen := make(map[[2]int]bool)
	for _, p := range set {
		assert.Equal(t, "multiplication", p.Type)
		assert.GreaterOrEqual(t, p.A, 1)
		assert.LessOrEqual(t, p.A, 10)
		assert.Equal(t, p.A*p.B, p.Correct)

		key := [2]int{p.A, p.B}
		assert.False(t, seen[key], "duplicate problem %dx%d", p.A, p.B)
		seen[key] = true
	}
}

func TestEinmaleinsSquareSettingsExtendRange(t *testing.T) {
	settings := Settings{IncludeSquares11To20: true, IncludeSquares21To25: true}

	// With both square blocks enabled the pool holds 115 distinct
	// problems; asking for all of them must surface the squares.
	set := GenerateEinmaleins(115, settings)
	require.Len(t, set, 115)

	squares := make(map[int]bool)
	for _, p := range set {
		if p.A == p.B && p.A > 10 {
			squares[p.A] = true
		}
	}
	for n := 11; n <= 25; n++ {
		assert.True(t, squares[n], "square %d×%d missing", n, n)
	}
}

func TestSchriftlichHalvesAndDigitGrids(t *testing.T) {
	set := GenerateSchriftlich(10)
	require.Len(t, set, 10)

	adds := 0
	for i, p := range set {
		assert.Equal(t, "schriftlich", p.Type)
		assert.GreaterOrEqual(t, p.A, 1000)
		assert.LessOrEqual(t, p.A, 9999)

		switch p.Operation {
		case "add":
			adds++
			assert.Equal(t, p.A+p.B, p.Correct)
			assert.Len(t, p.CorrectDigits, 5)
		case "subtract":
			assert.Equal(t, p.A-p.B, p.Correct)
			assert.Greater(t, p.A, p.B, "subtraction must stay positive")
			assert.Len(t, p.CorrectDigits, 4)
		default:
			t.Fatalf("problem %d has operation %q", i, p.Operation)
		}

		assert.Len(t, p.ADigits, 4)
		assert.Len(t, p.BDigits, 4)
		assert.Equal(t, p.A, undigits(p.ADigits))
		assert.Equal(t, p.B, undigits(p.BDigits))
	}
	assert.Equal(t, 5, adds, "first half adds, second half subtracts")
}

func TestPrimfaktorisierungFactorsMultiplyBack(t *testing.T) {
	set := GeneratePrimfaktorisierung(20)
	require.Len(t, set, 20)

	for _, p := range set {
		assert.Equal(t, "primfaktorisierung", p.Type)
		assert.GreaterOrEqual(t, p.Number, 12)
		assert.LessOrEqual(t, p.Number, 200)

		product := 1
		for _, f := range p.Factors {
			assert.True(t, isPrime(f), "factor %d of %d is not prime", f, p.Number)
			product *= f
		}
		assert.Equal(t, p.Number, product)
	}
}

func undigits(digits []int) int {
	n := 0
	for _, d := range digits {
		n = n*10 + d
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
