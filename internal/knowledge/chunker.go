package knowledge

import "strings"

const (
	// DefaultChunkSize is the chunk length in words.
	DefaultChunkSize = 512
	// DefaultChunkOverlap is the word overlap between consecutive chunks.
	DefaultChunkOverlap = 50
	// minChunkWords drops trailing fragments too short to be useful.
	minChunkWords = 10
)

// ChunkText splits text into overlapping word-window chunks. Chunks shorter
// than minChunkWords are dropped, except when the whole text is a single
// short chunk.
func ChunkText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	if len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		if end-start >= minChunkWords {
			chunks = append(chunks, strings.Join(words[start:end], " "))
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}
