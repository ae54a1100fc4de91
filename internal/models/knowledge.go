package models

import "time"

// KnowledgeDocument is one chunk of the curated finance knowledge base.
// Documents are read-only from the engine's perspective; ingestion happens
// at seed time.
type KnowledgeDocument struct {
	ID          string    `json:"id" badgerhold:"key"`
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Authority   string    `json:"authority"`
	Confidence  float64   `json:"confidence"`
	ChunkIndex  int       `json:"chunk_index"`
	TotalChunks int       `json:"total_chunks"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// RetrievedDocument is a knowledge document with its retrieval distance.
// Distance follows the cosine-distance convention scaled 0-2:
// 0 = identical, 2 = opposite. Similarity = 1 - distance/2.
type RetrievedDocument struct {
	Document KnowledgeDocument `json:"document"`
	Distance float64           `json:"distance"`
}

// Similarity converts the distance to a similarity score in [0, 1].
func (d *RetrievedDocument) Similarity() float64 {
	return 1 - d.Distance/2
}

// RAGAnswer is the retrieval-augmented answer for one query.
// Always freshly constructed, never cached.
type RAGAnswer struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// KnowledgeStats summarizes the loaded knowledge base.
type KnowledgeStats struct {
	TotalDocuments int      `json:"total_documents"`
	Categories     []string `json:"categories"`
}
