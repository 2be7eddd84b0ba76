package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Ann Lee", "Ann Lee"},
		{"", ""},
		{"<b>Ann</b> Lee", "Ann Lee"},
		{`<script>alert(1)</script>Bob`, "Bob"},
		{"Smith & Sons", "Smith & Sons"},
		{"a < b", "a < b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripTags(tc.in), tc.in)
	}
}

func TestHasMarkup(t *testing.T) {
	for _, s := range []string{"Ann <Lee>", "<b>Ann</b>", "a<b", "x<y@a.com", "<Ann>"} {
		assert.True(t, HasMarkup(s), s)
	}
	for _, s := range []string{"", "Ann Lee", "Smith & Sons", "a < b", "5 > 3", "https://x.io/?a=1&b=2"} {
		assert.False(t, HasMarkup(s), s)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
