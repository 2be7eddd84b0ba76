package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHandle(t *testing.T) {
	cases := map[string]string{
		"Ann":                "USER-ann",
		"Ann Lee":            "USER-ann-lee",
		"  Mary   Ann\tLee ": "USER-mary-ann-lee",
		"LEANNE Graham":      "USER-leanne-graham",
		"Zoë Ärzt":           "USER-zoë-ärzt",
	}
	for name, want := range cases {
		assert.Equal(t, want, DeriveHandle(name), "name %q", name)
	}
}

func TestDeriveHandle_Idempotent(t *testing.T) {
	for _, name := range []string{"Ann", "Clementine  Bauch", "Kurtis Weissnat III"} {
		first := DeriveHandle(name)
		assert.Equal(t, first, DeriveHandle(name))
		assert.True(t, strings.HasPrefix(first, HandlePrefix))
		assert.NotContains(t, first, " ")
		assert.NotContains(t, first, "--")
	}
}
