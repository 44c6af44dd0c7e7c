package publisher

import (
	"encoding/json"

	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"
)

// Publisher represents a service for publishing messages
type Publisher interface {
	// Publish publishes a message to a stream under key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

// PublishAll JSON-encodes every item and publishes it under key. It stops at
// the first failure and returns how many items were published.
func PublishAll[T any](p Publisher, key string, items []T) (int, error) {
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return i, apperrors.NewPublisher(key, "encode message", err)
		}
		if err := p.Publish(key, data); err != nil {
			return i, apperrors.NewPublisher(key, "publish message", err)
		}
	}
	return len(items), nil
}
