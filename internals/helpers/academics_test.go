package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGrade(t *testing.T) {
	cases := map[string]string{
		"1":     "1",
		"1°":    "1",
		"1ro":   "1",
		"3er":   "3",
		" 10 ":  "10",
		"0":     "",
		"11":    "",
		"abc":   "",
		"":      "",
		"  ":    "",
		"2-B":   "2",
		"grupo": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeGrade(in), "input %q", in)
	}
}

func TestNormalizeGroup(t *testing.T) {
	cases := map[string]string{
		"A":    "A",
		"a":    "A",
		" b ":  "B",
		"2-B":  "B",
		"3° c": "C",
		"10":   "",
		"":     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeGroup(in), "input %q", in)
	}
}

func TestSplitGradeGroup(t *testing.T) {
	grade, group := SplitGradeGroup("1A")
	assert.Equal(t, "1", grade)
	assert.Equal(t, "A", group)

	grade, group = SplitGradeGroup("10 C")
	assert.Equal(t, "10", grade)
	assert.Equal(t, "C", group)

	grade, group = SplitGradeGroup("B")
	assert.Equal(t, "", grade)
	assert.Equal(t, "B", group)
}
