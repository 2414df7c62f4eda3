package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		max      int
		expected []string
	}{
		{
			name:     "empty label",
			label:    "",
			max:      20,
			expected: nil,
		},
		{
			name:     "whitespace only",
			label:    "  \t ",
			max:      20,
			expected: nil,
		},
		{
			name:     "fits on one line",
			label:    "Crop farming",
			max:      20,
			expected: []string{"Crop farming"},
		},
		{
			name:     "exactly max",
			label:    "abcdefghij klmnopqrs",
			max:      20,
			expected: []string{"abcdefghij klmnopqrs"},
		},
		{
			name:     "breaks between words",
			label:    "Growing of non-perennial crops and spices",
			max:      20,
			expected: []string{"Growing of", "non-perennial crops", "and spices"},
		},
		{
			name:     "collapses repeated whitespace",
			label:    "  retail   trade\n of fuel ",
			max:      20,
			expected: []string{"retail trade of fuel"},
		},
		{
			name:     "long word splits with hyphens",
			label:    strings.Repeat("x", 58),
			max:      20,
			expected: []string{strings.Repeat("x", 19) + "-", strings.Repeat("x", 19) + "-", strings.Repeat("x", 20)},
		},
		{
			name:     "long word keeps the remainder on the current line",
			label:    "a " + strings.Repeat("y", 12) + " b",
			max:      5,
			expected: []string{"a", "yyyy-", "yyyy-", "yyyy", "b"},
		},
		{
			name:     "counts runes",
			label:    "Растениеводство и животноводство",
			max:      16,
			expected: []string{"Растениеводство", "и животноводство"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Wrap(tt.label, tt.max))
		})
	}
}

func TestWrap_SixtyCharacterWord(t *testing.T) {
	// 60 characters cannot fit into three 20 character lines once two hyphens are added.
	lines := Wrap(strings.Repeat("z", 60), 20)

	assert.Len(t, lines, 4)
	for _, line := range lines[:len(lines)-1] {
		assert.True(t, strings.HasSuffix(line, "-"))
	}
	for _, line := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 20)
	}
}

func TestWrap_PreservesTokens(t *testing.T) {
	labels := []string{
		"Деятельность в области архитектуры, инженерных изысканий и предоставления технических консультаций",
		"Manufacture of electronic components",
		"supercalifragilisticexpialidocious word",
		"a",
		"ООО  Казахтелекоммуникацииэнергосбыт   сервис",
	}

	for _, label := range labels {
		for maxChars := 4; maxChars <= 30; maxChars++ {
			lines := Wrap(label, maxChars)

			var rebuilt strings.Builder
			for i, line := range lines {
				assert.LessOrEqual(t, utf8.RuneCountInString(line), maxChars, "label %q max %d", label, maxChars)
				if strings.HasSuffix(line, "-") && utf8.RuneCountInString(line) == maxChars {
					rebuilt.WriteString(strings.TrimSuffix(line, "-"))
					continue
				}
				rebuilt.WriteString(line)
				if i < len(lines)-1 {
					rebuilt.WriteString(" ")
				}
			}

			assert.Equal(t, strings.Join(strings.Fields(label), " "), rebuilt.String(), "max %d", maxChars)
		}
	}
}

func TestFitWidth(t *testing.T) {
	perRune := func(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }

	tests := []struct {
		name     string
		line     string
		width    float64
		expected []string
	}{
		{
			name:     "fits",
			line:     "Crop growing",
			width:    120,
			expected: []string{"Crop growing"},
		},
		{
			name:     "breaks between words",
			line:     "Crop growing and spices",
			width:    130,
			expected: []string{"Crop growing", "and spices"},
		},
		{
			name:     "cuts a wide word with a hyphen",
			line:     "Manufacturing",
			width:    60,
			expected: []string{"Manuf-", "actur-", "ing"},
		},
		{
			name:     "single rune wider than the cell",
			line:     "ab",
			width:    5,
			expected: []string{"a-", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FitWidth(tt.line, tt.width, perRune))
		})
	}
}
