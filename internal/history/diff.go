package history

import "github.com/sergi/go-diff/diffmatchpatch"

// Chunk is one run of equal, inserted or deleted text between two stored
// snapshots.
type Chunk struct {
	Type string `json:"type"` // "equal", "insert" or "delete"
	Text string `json:"text"`
}

// DiffContent computes a character-level diff between two text snapshots
// with semantic cleanup for readability.
func DiffContent(base, head string) []Chunk {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(base, head, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]Chunk, 0, len(diffs))
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "insert"
		case diffmatchpatch.DiffDelete:
			chunkType = "delete"
		default:
			chunkType = "equal"
		}
		chunks = append(chunks, Chunk{Type: chunkType, Text: d.Text})
	}
	return chunks
}

// Changed reports whether a diff contains any non-equal chunk.
func Changed(chunks []Chunk) bool {
	for _, c := range chunks {
		if c.Type != "equal" {
			return true
		}
	}
	return false
}
