package record

import (
	"context"
	"encoding/json"

	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/services/publisher"
)

// PublisherRecorder publishes each record as a JSON winner event
type PublisherRecorder struct {
	name string
	pub  publisher.Publisher
	key  string
}

// NewPublisherRecorder creates a recorder publishing under key
func NewPublisherRecorder(name string, pub publisher.Publisher, key string) *PublisherRecorder {
	return &PublisherRecorder{name: name, pub: pub, key: key}
}

// Name returns the recorder name
func (r *PublisherRecorder) Name() string {
	return r.name
}

// Record implements Recorder
func (r *PublisherRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.pub.Publish(ctx, r.key, payload)
}
