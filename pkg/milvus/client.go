// Package milvus opens milvus connections for the pipelines and bootstrap tools.
package milvus

import (
	"context"
	"time"

	"doc-rag/pkg/logger"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
)

// Dial opens a single connection bounded by timeout.
func Dial(ctx context.Context, address string, timeout time.Duration) (client.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.NewClient(ctx, client.Config{Address: address})
}

// ConnectWithRetry keeps dialing until it succeeds or attempts run out.
// Milvus may take tens of seconds to boot.
func ConnectWithRetry(ctx context.Context, address string, attempts int, perAttemptTimeout, delay time.Duration) (client.Client, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		cli, err := Dial(ctx, address, perAttemptTimeout)
		if err == nil {
			return cli, nil
		}
		lastErr = err
		logger.WithField("attempt", i+1).Warnf("milvus: connect failed: %v", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}
