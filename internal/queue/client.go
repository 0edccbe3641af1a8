package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/notq/speech-backend/internal/config"
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

func (c *Client) EnqueueAudioPurge(maxAge time.Duration) error {
	payload := AudioPurgePayload{MaxAgeSeconds: int64(maxAge.Seconds())}
	return c.enqueue(TypeAudioPurge, payload, asynq.MaxRetry(2), asynq.Timeout(time.Minute))
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
