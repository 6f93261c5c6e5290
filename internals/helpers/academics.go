package helper

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeGrade reduce entradas tipo "1°", "1ro", "1er" al dígito solo.
// Acepta 1..10; cualquier otra cosa devuelve "".
func NormalizeGrade(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n < 1 || n > 10 {
		return ""
	}
	return strconv.Itoa(n)
}

// NormalizeGroup toma la primera letra A-Z de la entrada ("2-B" -> "B").
func NormalizeGroup(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return string(r)
		}
	}
	return ""
}

// SplitGradeGroup separa entradas combinadas ("1A", "3° a", "10 C").
func SplitGradeGroup(raw string) (grade, group string) {
	return NormalizeGrade(raw), NormalizeGroup(raw)
}
