package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategoryVariants(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"Adulte", "Adulte", false},
		{"adultes", "Adulte", true},
		{"JEUNES", "Jeune", true},
		{"Jeune -16 ans", "Jeune", true},
		{"retraité", "Retraité", true},
		{"retraites", "Retraité", true},
		{"RetraitÃ©", "Retraité", true},
		{"  Adulte  ", "Adulte", false},
	}

	for _, tc := range cases {
		got, changed := normalizeCategory(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.changed, changed, "input %q", tc.in)
	}
}

func TestNormalizeCategoryKeepsUnknownValues(t *testing.T) {
	got, changed := normalizeCategory("Vétéran")
	assert.Equal(t, "Vétéran", got)
	assert.False(t, changed)
}

func TestNormalizeCategoryIsIdempotent(t *testing.T) {
	for _, in := range []string{"adultes", "jeunes", "retraités", "Jeune -16 ans"} {
		once, _ := normalizeCategory(in)
		twice, changed := normalizeCategory(once)
		assert.Equal(t, once, twice)
		assert.False(t, changed, "canonical value %q must not change again", once)
	}
}
