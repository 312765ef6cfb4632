package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

type Chunk struct {
	ID         uuid.UUID
	JobID      uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
}

type SearchOptions struct {
	TopK     int
	MinScore float64
}

type SearchResult struct {
	ChunkID    uuid.UUID `json:"chunk_id"`
	JobID      uuid.UUID `json:"job_id"`
	Content    string    `json:"content"`
	ChunkIndex int       `json:"chunk_index"`
	Score      float64   `json:"score"`
}

type VectorStore interface {
	Upsert(ctx context.Context, chunks []Chunk) error
	SimilaritySearch(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error)
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
}
