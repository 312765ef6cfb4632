package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/voskhttp/voskhttp/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueTranscriptionProcess(payload TranscriptionProcessPayload) error {
	// Long decodes on large recordings; the timeout bounds a stuck ffmpeg.
	return c.enqueue(TypeTranscriptionProcess, payload, asynq.MaxRetry(2), asynq.Timeout(30*time.Minute))
}

func (c *Client) EnqueueTranscriptEmbed(payload TranscriptEmbedPayload) error {
	return c.enqueue(TypeTranscriptEmbed, payload, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute), asynq.Queue("low"))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
