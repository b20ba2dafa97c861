package storekit

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jessedraper/partydeck/internal/domain"
)

// maxStreamLineBytes caps a single stream payload. Real signed
// transactions are a few KB; anything near this limit is garbage that
// verification rejects anyway.
const maxStreamLineBytes = 1 << 20

// TransactionUpdates subscribes to the store's long-lived transaction
// stream: newline-delimited signed transactions, one per update. Each
// payload is verified before it is delivered; unverifiable ones are logged
// and dropped so a poisoned update can never stall the stream.
//
// The returned channel closes when ctx ends or the stream drops; the caller
// resubscribes.
func (c *Client) TransactionUpdates(ctx context.Context) (<-chan domain.Entitlement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transactions/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("store: create request: %w", err)
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: stream request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("store: unexpected status %d", resp.StatusCode)
	}

	updates := make(chan domain.Entitlement)
	go c.consumeStream(ctx, resp, updates)
	return updates, nil
}

func (c *Client) consumeStream(ctx context.Context, resp *http.Response, updates chan<- domain.Entitlement) {
	defer close(updates)
	defer resp.Body.Close()

	// Cancelling ctx aborts the request, which unblocks the scanner.
	// Signed payloads can exceed bufio's 64 KiB default line limit; an
	// oversized one should be dropped like any other bad payload, not
	// kill the stream.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue // keep-alive
		}

		ent, err := c.verifyTransaction(line)
		if err != nil {
			c.log.WarnContext(ctx, "dropping unverifiable stream transaction",
				slog.String("error", err.Error()),
			)
			continue
		}

		select {
		case updates <- *ent:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.log.WarnContext(ctx, "transaction stream read failed",
			slog.String("error", err.Error()),
		)
	}
}
