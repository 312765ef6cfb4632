package transcript

import (
	"strings"
	"unicode/utf8"
)

type Chunk struct {
	Content string
	Index   int
}

const DefaultChunkSize = 1000

// ChunkText splits transcript text into embedding-sized pieces, preferring
// sentence boundaries and falling back to word boundaries for run-on speech.
func ChunkText(text string, maxRunes int) []Chunk {
	if maxRunes <= 0 {
		maxRunes = DefaultChunkSize
	}

	var chunks []Chunk
	var b strings.Builder
	idx := 0

	flush := func() {
		content := strings.TrimSpace(b.String())
		if content != "" {
			chunks = append(chunks, Chunk{Content: content, Index: idx})
			idx++
		}
		b.Reset()
	}

	for _, piece := range splitPieces(text, maxRunes) {
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(piece)+1 > maxRunes {
			flush()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(piece)
	}
	flush()

	return chunks
}

func splitPieces(text string, maxRunes int) []string {
	var pieces []string
	for _, sentence := range splitAfterAny(text, ".!?。！？") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if utf8.RuneCountInString(sentence) <= maxRunes {
			pieces = append(pieces, sentence)
			continue
		}

		// Sentence longer than a chunk: break on words.
		words := strings.Fields(sentence)
		var b strings.Builder
		for _, w := range words {
			if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(w)+1 > maxRunes && b.Len() > 0 {
				pieces = append(pieces, b.String())
				b.Reset()
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w)
		}
		if b.Len() > 0 {
			pieces = append(pieces, b.String())
		}
	}
	return pieces
}

func splitAfterAny(text, enders string) []string {
	var parts []string
	start := 0
	for i, r := range text {
		if strings.ContainsRune(enders, r) {
			parts = append(parts, text[start:i+utf8.RuneLen(r)])
			start = i + utf8.RuneLen(r)
		}
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}
