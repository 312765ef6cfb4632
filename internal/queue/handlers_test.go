package queue

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMuxRoutesTaskTypes(t *testing.T) {
	mux := NewMux()

	var processed, embedded bool
	mux.HandleTranscriptionProcess(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		processed = true
		return nil
	}))
	mux.HandleTranscriptEmbed(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		embedded = true
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, mux.ServeMux().ProcessTask(ctx, asynq.NewTask(TypeTranscriptionProcess, nil)))
	assert.True(t, processed)
	assert.False(t, embedded)

	require.NoError(t, mux.ServeMux().ProcessTask(ctx, asynq.NewTask(TypeTranscriptEmbed, nil)))
	assert.True(t, embedded)
}

func TestMuxUnknownTaskType(t *testing.T) {
	mux := NewMux()

	err := mux.ServeMux().ProcessTask(context.Background(), asynq.NewTask("transcription:unknown", nil))
	assert.Error(t, err)
}
