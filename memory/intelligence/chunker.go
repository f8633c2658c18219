package intelligence

import (
	"regexp"
	"strings"
)

const (
	// MaxChunkSize is the character bound above which a paragraph is
	// split on sentence boundaries.
	MaxChunkSize = 500

	// MinChunkSize is the character bound below which a chunk is merged
	// into its neighbour.
	MinChunkSize = 20
)

// Piece is one chunk of a source text. Content is the exact substring
// text[Start:End], with any trailing separator whitespace attached, so
// concatenating the pieces of a text in Index order reproduces the text
// byte for byte.
type Piece struct {
	Content string
	Index   int
	Start   int
	End     int
}

// paragraphGap matches a blank-line separator run between paragraphs.
var paragraphGap = regexp.MustCompile(`\n[ \t\r]*\n\s*`)

// Chunk splits text into ordered pieces: paragraphs first, sentence
// accumulation for paragraphs over MaxChunkSize, and a merge pass that
// folds pieces under MinChunkSize into the preceding piece (or the
// following one when there is no preceding piece).
//
// Empty or whitespace-only input yields no pieces. A single short text
// comes back unchanged as one piece.
func Chunk(text string) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var spans [][2]int
	for _, para := range paragraphSpans(text) {
		if trimmedLen(text, para) > MaxChunkSize {
			spans = append(spans, splitSentences(text, para)...)
			continue
		}
		spans = append(spans, para)
	}

	spans = mergeShort(text, spans)

	pieces := make([]Piece, len(spans))
	for i, s := range spans {
		pieces[i] = Piece{
			Content: text[s[0]:s[1]],
			Index:   i,
			Start:   s[0],
			End:     s[1],
		}
	}
	return pieces
}

// paragraphSpans tiles text into paragraph spans. Each blank-line
// separator is attached to the paragraph it terminates.
func paragraphSpans(text string) [][2]int {
	var spans [][2]int
	start := 0
	for _, gap := range paragraphGap.FindAllStringIndex(text, -1) {
		spans = append(spans, [2]int{start, gap[1]})
		start = gap[1]
	}
	if start < len(text) {
		spans = append(spans, [2]int{start, len(text)})
	}
	return spans
}

// splitSentences tiles a paragraph span into chunks of accumulated
// sentences, flushing whenever the next sentence would push the chunk
// past MaxChunkSize.
func splitSentences(text string, span [2]int) [][2]int {
	sentences := sentenceSpans(text, span)

	var chunks [][2]int
	chunkStart := span[0]
	size := 0
	for _, s := range sentences {
		length := s[1] - s[0]
		if size > 0 && size+length > MaxChunkSize {
			chunks = append(chunks, [2]int{chunkStart, s[0]})
			chunkStart = s[0]
			size = 0
		}
		size += length
	}
	chunks = append(chunks, [2]int{chunkStart, span[1]})
	return chunks
}

// sentenceSpans tiles a span on terminal punctuation followed by
// whitespace. The whitespace run stays attached to the sentence it
// follows.
func sentenceSpans(text string, span [2]int) [][2]int {
	var spans [][2]int
	start := span[0]
	i := span[0]
	for i < span[1] {
		if isTerminal(text[i]) {
			j := i + 1
			for j < span[1] && isSpace(text[j]) {
				j++
			}
			if j > i+1 { // punctuation followed by whitespace: boundary
				spans = append(spans, [2]int{start, j})
				start = j
				i = j
				continue
			}
		}
		i++
	}
	if start < span[1] {
		spans = append(spans, [2]int{start, span[1]})
	}
	return spans
}

// mergeShort folds spans whose visible content is under MinChunkSize
// into the preceding span, or into the following span for the first.
func mergeShort(text string, spans [][2]int) [][2]int {
	var merged [][2]int
	carry := -1 // start of a leading short span waiting for a successor
	for _, s := range spans {
		if carry >= 0 {
			s[0] = carry
			carry = -1
		}
		if trimmedLen(text, s) >= MinChunkSize {
			merged = append(merged, s)
			continue
		}
		if len(merged) > 0 {
			merged[len(merged)-1][1] = s[1]
		} else {
			carry = s[0]
		}
	}
	if carry >= 0 {
		// Everything was short: keep it as a single piece.
		merged = append(merged, [2]int{carry, spans[len(spans)-1][1]})
	}
	return merged
}

func trimmedLen(text string, span [2]int) int {
	return len(strings.TrimSpace(text[span[0]:span[1]]))
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
