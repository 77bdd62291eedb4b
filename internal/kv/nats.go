package kv

import (
	"context"
	"errors"
	"fmt"

	enats "github.com/mark3labs/enrollr/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// DraftBucket is the JetStream key-value bucket drafts are stored in.
const DraftBucket = "enrollr_drafts"

// NATS stores keys in a JetStream key-value bucket on an embedded server.
type NATS struct {
	embedded *enats.Embedded
	bucket   jetstream.KeyValue
}

// OpenNATS starts an embedded server persisting under storeDir and opens
// the draft bucket.
func OpenNATS(ctx context.Context, storeDir string) (*NATS, error) {
	e, err := enats.Start(storeDir)
	if err != nil {
		return nil, err
	}
	bucket, err := e.KeyValue(ctx, DraftBucket)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	return &NATS{embedded: e, bucket: bucket}, nil
}

func (n *NATS) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := n.bucket.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(entry.Value()), true, nil
}

func (n *NATS) Set(ctx context.Context, key, value string) error {
	if _, err := n.bucket.PutString(ctx, key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (n *NATS) Remove(ctx context.Context, key string) error {
	err := n.bucket.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (n *NATS) Close() error {
	return n.embedded.Close()
}
