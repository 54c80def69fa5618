package policylens_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/policylens"
	"github.com/stretchr/testify/assert"
)

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter passes everything", func(t *testing.T) {
		t.Parallel()

		var f *policylens.URLFilter
		assert.True(t, f.Match("https://example.com/anything"))
	})

	t.Run("exclude applies after include", func(t *testing.T) {
		t.Parallel()

		f := &policylens.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/legal/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/legal/old`)},
		}

		assert.True(t, f.Match("https://example.com/legal/privacy"))
		assert.False(t, f.Match("https://example.com/legal/old-privacy"))
		assert.False(t, f.Match("https://example.com/about"))
	})
}

func TestPrivacyURLFilter(t *testing.T) {
	t.Parallel()

	f := policylens.PrivacyURLFilter()

	assert.True(t, f.Match("https://example.com/privacy"))
	assert.True(t, f.Match("https://example.com/legal/Privacy-Policy"))
	assert.True(t, f.Match("https://example.de/datenschutz"))
	assert.True(t, f.Match("https://example.com/data-protection"))
	assert.False(t, f.Match("https://example.com/terms"))
	assert.False(t, f.Match("https://example.com/privacy.pdf"))
	assert.False(t, f.Match("https://example.com/blog/privacy-tips"))
}
