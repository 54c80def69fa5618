package policylens_test

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/policylens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "single sentence",
			text: "We collect data.",
			want: []string{"We collect data."},
		},
		{
			name: "mixed punctuation",
			text: "Do we sell data? No! We never do.",
			want: []string{"Do we sell data?", " No!", " We never do."},
		},
		{
			name: "punctuation runs stay together",
			text: "Wait... Really?! Yes.",
			want: []string{"Wait...", " Really?!", " Yes."},
		},
		{
			name: "trailing text without punctuation",
			text: "First. Then some trailing words",
			want: []string{"First.", " Then some trailing words"},
		},
		{
			name: "no punctuation at all",
			text: "just a heading",
			want: []string{"just a heading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := policylens.SplitSentences(tt.text)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, strings.Join(got, ""))
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("each sentence alone when pairs exceed max length", func(t *testing.T) {
		t.Parallel()

		chunks := policylens.Split("Sentence one. Sentence two. Sentence three.", 15)

		assert.Equal(t, []string{"Sentence one.", "Sentence two.", "Sentence three."}, chunks)
	})

	t.Run("groups sentences that fit", func(t *testing.T) {
		t.Parallel()

		chunks := policylens.Split("One. Two. Three. Four.", 10)

		assert.Equal(t, []string{"One. Two.", "Three.", "Four."}, chunks)
	})

	t.Run("oversized sentence becomes its own chunk", func(t *testing.T) {
		t.Parallel()

		long := "This single sentence is far longer than the configured limit."
		chunks := policylens.Split("Short. "+long+" End.", 20)

		require.Len(t, chunks, 3)
		assert.Equal(t, "Short.", chunks[0])
		assert.Equal(t, long, chunks[1])
		assert.Equal(t, "End.", chunks[2])
	})

	t.Run("emits trailing text without punctuation", func(t *testing.T) {
		t.Parallel()

		chunks := policylens.Split("Complete sentence. trailing fragment", 18)

		assert.Equal(t, []string{"Complete sentence.", "trailing fragment"}, chunks)
	})

	t.Run("non-positive max length keeps one chunk", func(t *testing.T) {
		t.Parallel()

		chunks := policylens.Split("One. Two. Three.", 0)

		assert.Equal(t, []string{"One. Two. Three."}, chunks)
	})

	t.Run("whitespace only text yields no chunks", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, policylens.Split("   \n\n  ", 10))
	})
}

func TestSplit_Properties(t *testing.T) {
	t.Parallel()

	texts := []string{
		"Sentence one. Sentence two. Sentence three.",
		"We collect your IP address! Do we share it? Only with partners.\n\nCookies are used for analytics.",
		"Données personnelles. Nous utilisons des cookies… Vraiment? Oui.",
		"A very long sentence that keeps going and going without any break at all until it finally ends.",
		"No punctuation here at all",
		"Mixed. Text with a tail",
	}
	lengths := []int{1, 5, 15, 40, 200}

	for _, text := range texts {
		for _, maxLength := range lengths {
			chunks := policylens.Split(text, maxLength)

			// No characters lost or duplicated, ignoring whitespace at boundaries.
			assert.Equal(t, stripSpace(text), stripSpace(strings.Join(chunks, "")), "text=%q max=%d", text, maxLength)

			sentences := policylens.SplitSentences(text)
			for _, chunk := range chunks {
				if utf8.RuneCountInString(chunk) <= maxLength {
					continue
				}
				// Oversized chunks hold exactly one sentence.
				assert.True(t, containsTrimmed(sentences, chunk), "oversized chunk %q is not a single sentence", chunk)
			}

			// Boundaries fall on sentence boundaries: every chunk but the
			// last ends with terminal punctuation.
			for i := 0; i < len(chunks)-1; i++ {
				last := chunks[i][len(chunks[i])-1]
				assert.Contains(t, ".!?", string(last), "chunk %q does not end a sentence", chunks[i])
			}
		}
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func containsTrimmed(sentences []string, chunk string) bool {
	for _, s := range sentences {
		if strings.TrimSpace(s) == chunk {
			return true
		}
	}
	return false
}
