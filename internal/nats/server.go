// Package nats runs an in-process NATS server with JetStream so drafts can be
// kept in a JetStream key-value bucket without any network listener.
package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Embedded bundles the in-process server, its client connection and the
// JetStream context built on it.
type Embedded struct {
	Server *server.Server
	Conn   *nats.Conn
	JS     jetstream.JetStream
}

// Start boots an embedded server storing JetStream data under storeDir and
// connects to it in-process.
func Start(storeDir string) (*Embedded, error) {
	logger.Debug("Starting embedded NATS, store dir: %s", storeDir)

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connecting in-process: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	logger.Debug("Embedded NATS ready")
	return &Embedded{Server: ns, Conn: nc, JS: js}, nil
}

// KeyValue creates (or opens) the named bucket keeping only the latest
// revision of each key.
func (e *Embedded) KeyValue(ctx context.Context, bucket string) (jetstream.KeyValue, error) {
	kv, err := e.JS.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "enrollr wizard drafts",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kv bucket %s: %w", bucket, err)
	}
	return kv, nil
}

// Close drains the connection and shuts the server down, bounding both
// steps so a wedged server cannot hang program exit.
func (e *Embedded) Close() error {
	if e == nil {
		return nil
	}

	if e.Conn != nil {
		done := make(chan error, 1)
		go func() { done <- e.Conn.Drain() }()
		select {
		case err := <-done:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				e.Conn.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("NATS drain timed out after %s, forcing close", drainTimeout)
			e.Conn.Close()
		}
	}

	if e.Server == nil {
		return nil
	}
	e.Server.Shutdown()

	stopped := make(chan struct{})
	go func() {
		e.Server.WaitForShutdown()
		close(stopped)
	}()
	select {
	case <-stopped:
		logger.Debug("Embedded NATS shut down")
		return nil
	case <-time.After(shutdownTimeout):
		return errors.New("nats server shutdown timed out")
	}
}
