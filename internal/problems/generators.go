// Package problems generates the arithmetic problem sets the quiz
// categories are built from. Generation is pure and stateless; the room
// core never looks inside a problem record.
package problems

import (
	"fmt"
	"math/rand/v2"
)

type Category string

const (
	Einmaleins         Category = "einmaleins"
	Schriftlich        Category = "schriftlich"
	Primfaktorisierung Category = "primfaktorisierung"
)

// Settings carries the category-specific flags chosen by the admin.
type Settings struct {
	IncludeSquares11To20 bool `json:"includeSquares11_20"`
	IncludeSquares21To25 bool `json:"includeSquares21_25"`
}

// Problem is one generated task. Fields are populated per category and
// the JSON shape matches what clients and the report renderer expect.
type Problem struct {
	ID            int         `json:"id"`
	Type          string      `json:"type"`
	A             int         `json:"a,omitempty"`
	B             int         `json:"b,omitempty"`
	Operation     string      `json:"operation,omitempty"`
	Correct       interface{} `json:"correct,omitempty"`
	ADigits       []int       `json:"aDigits,omitempty"`
	BDigits       []int       `json:"bDigits,omitempty"`
	CorrectDigits []int       `json:"correctDigits,omitempty"`
	Number        int         `json:"number,omitempty"`
	Factors       []int       `json:"factors,omitempty"`
}

// Generate produces a problem set for the category.
func Generate(count int, category Category, settings Settings) ([]Problem, error) {
	switch category {
	case Einmaleins:
		return GenerateEinmaleins(count, settings), nil
	case Schriftlich:
		return GenerateSchriftlich(count), nil
	case Primfaktorisierung:
		return GeneratePrimfaktorisierung(count), nil
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}

type pair struct{ a, b int }

// GenerateEinmaleins draws multiplication problems from a weighted pool:
// edge rows (×1, ×10) appear rarely, optional square blocks extend the
// range. No problem repeats within a set.
func GenerateEinmaleins(count int, settings Settings) []Problem {
	var pool []pair
	for a := 1; a <= 10; a++ {
		for b := 1; b <= 10; b++ {
			weight := 4
			if a == 1 || b == 1 || a == 10 || b == 10 {
				weight = 1
			}
			for i := 0; i < weight; i++ {
				pool = append(pool, pair{a, b})
			}
		}
	}
	if settings.IncludeSquares11To20 {
		for n := 11; n <= 20; n++ {
			for i := 0; i < 3; i++ {
				pool = append(pool, pair{n, n})
			}
		}
	}
	if settings.IncludeSquares21To25 {
		for n := 21; n <= 25; n++ {
			for i := 0; i < 3; i++ {
				pool = append(pool, pair{n, n})
			}
		}
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	seen := make(map[pair]bool)
	var problems []Problem
	id := 1
	for _, p := range pool {
		if seen[p] {
			continue
		}
		seen[p] = true
		problems = append(problems, Problem{
			ID:      id,
			Type:    "multiplication",
			A:       p.a,
			B:       p.b,
			Correct: p.a * p.b,
		})
		id++
		if len(problems) >= count {
			break
		}
	}

	// Top up deterministically if the pool ran short of count.
	for a := 1; a <= 10 && len(problems) < count; a++ {
		for b := 1; b <= 10 && len(problems) < count; b++ {
			p := pair{a, b}
			if seen[p] {
				continue
			}
			seen[p] = true
			problems = append(problems, Problem{
				ID:      id,
				Type:    "multiplication",
				A:       a,
				B:       b,
				Correct: a * b,
			})
			id++
		}
	}
	return problems
}

// GenerateSchriftlich produces column-arithmetic problems on 4-digit
// numbers, half additions then half subtractions, with the digit grids
// the input widget renders.
func GenerateSchriftlich(count int) []Problem {
	problems := make([]Problem, 0, count)
	half := count / 2
	for i := 0; i < count; i++ {
		operation := "subtract"
		if i < half {
			operation = "add"
		}

		var a, b, correct int
		if operation == "add" {
			a = rand.IntN(9000) + 1000
			b = rand.IntN(9000) + 1000
			correct = a + b
		} else {
			a = rand.IntN(9000) + 1000
			if a > 1000 {
				b = rand.IntN(a-1000) + 1000
			}
			if b >= a || b == 0 {
				b = a - 1
			}
			correct = a - b
		}

		correctWidth := 4
		if operation == "add" {
			correctWidth = 5
		}
		problems = append(problems, Problem{
			ID:            i + 1,
			Type:          "schriftlich",
			A:             a,
			B:             b,
			Operation:     operation,
			Correct:       correct,
			ADigits:       digits(a, 4),
			BDigits:       digits(b, 4),
			CorrectDigits: digits(correct, correctWidth),
		})
	}
	return problems
}

// GeneratePrimfaktorisierung produces factorization problems over 12–200.
func GeneratePrimfaktorisierung(count int) []Problem {
	problems := make([]Problem, 0, count)
	for i := 0; i < count; i++ {
		num := rand.IntN(189) + 12
		factors := primeFactors(num)
		problems = append(problems, Problem{
			ID:      i + 1,
			Type:    "primfaktorisierung",
			Number:  num,
			Factors: factors,
			Correct: joinInts(factors),
		})
	}
	return problems
}

func primeFactors(n int) []int {
	var factors []int
	for d := 2; n > 1; d++ {
		for n%d == 0 {
			factors = append(factors, d)
			n /= d
		}
		if d*d > n && n > 1 {
			factors = append(factors, n)
			break
		}
	}
	return factors
}

func digits(n, width int) []int {
	out := make([]int, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = n % 10
		n /= 10
	}
	return out
}

func joinInts(nums []int) string {
	s := ""
	for i, n := range nums {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d", n)
	}
	return s
}
