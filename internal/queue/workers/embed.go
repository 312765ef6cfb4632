package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/voskhttp/voskhttp/internal/embedding"
	"github.com/voskhttp/voskhttp/internal/job"
	"github.com/voskhttp/voskhttp/internal/queue"
	"github.com/voskhttp/voskhttp/internal/transcript"
	"github.com/voskhttp/voskhttp/internal/vectorstore"
)

const embedBatchSize = 100

type EmbedWorker struct {
	jobs     *job.Service
	embedder *embedding.Service
	store    vectorstore.VectorStore
}

func NewEmbedWorker(jobs *job.Service, embedder *embedding.Service, store vectorstore.VectorStore) *EmbedWorker {
	return &EmbedWorker{
		jobs:     jobs,
		embedder: embedder,
		store:    store,
	}
}

func (w *EmbedWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.TranscriptEmbedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("parse job ID: %w", err)
	}

	j, err := w.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if len(j.Result) == 0 {
		slog.Warn("job has no transcript to embed", "job_id", jobID)
		return nil
	}

	var doc transcript.Document
	if err := json.Unmarshal(j.Result, &doc); err != nil {
		return fmt.Errorf("unmarshal transcript: %w", err)
	}

	chunks := transcript.ChunkText(doc.PlainText(), transcript.DefaultChunkSize)
	if len(chunks) == 0 {
		return nil
	}

	slog.Info("embedding transcript", "job_id", jobID, "chunks", len(chunks))

	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for start := 0; start < len(chunks); start += embedBatchSize {
		start := start
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Content)
			}

			embs, err := w.embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed batch at %d: %w", start, err)
			}
			copy(vectors[start:end], embs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Re-embedding replaces earlier chunks for the job.
	if err := w.store.DeleteByJob(ctx, jobID); err != nil {
		return fmt.Errorf("delete stale chunks: %w", err)
	}

	records := make([]vectorstore.Chunk, 0, len(chunks))
	for i, c := range chunks {
		records = append(records, vectorstore.Chunk{
			ID:         uuid.New(),
			JobID:      jobID,
			ChunkIndex: c.Index,
			Content:    c.Content,
			Embedding:  vectors[i],
		})
	}

	if err := w.store.Upsert(ctx, records); err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}

	slog.Info("transcript embedded", "job_id", jobID, "chunks", len(records))
	return nil
}
