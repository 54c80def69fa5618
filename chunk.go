package policylens

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkLength is the chunk size used when none is configured.
// It keeps each chunk within the input window of small classification models.
const DefaultMaxChunkLength = 512

// SplitSentences splits text at runs of terminal punctuation (., ! and ?).
// Each sentence runs up to and including its punctuation; whitespace that
// follows belongs to the next sentence. Trailing text without terminal
// punctuation becomes the final sentence. Joining the result gives back
// the input exactly.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		if !isTerminal(text[i]) {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		// Consume the whole punctuation run ("...", "?!").
		for i < len(text) && isTerminal(text[i]) {
			i++
		}
		sentences = append(sentences, text[start:i])
		start = i
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// Split groups sentences into chunks of at most maxLength runes.
// A chunk is closed when appending the next sentence would exceed
// maxLength; a single sentence longer than maxLength becomes its own chunk
// rather than being cut. Chunks are trimmed of surrounding whitespace.
// A maxLength of zero or less disables the limit.
func Split(text string, maxLength int) []string {
	var chunks []string
	var current string

	for _, sentence := range SplitSentences(text) {
		if maxLength > 0 && strings.TrimSpace(current) != "" {
			candidate := strings.TrimSpace(current + sentence)
			if utf8.RuneCountInString(candidate) > maxLength {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}
		}
		current += sentence
	}

	if last := strings.TrimSpace(current); last != "" {
		chunks = append(chunks, last)
	}
	return chunks
}
