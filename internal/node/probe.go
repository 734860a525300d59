package node

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
)

// probeTimeout bounds a liveness probe. A healthy local node accepts a
// WebSocket handshake well within this.
const probeTimeout = 5 * time.Second

// Probe dials the node's WebSocket endpoint and closes the connection
// immediately. A nil return means the node is accepting connections.
func Probe(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("node: probe %s: %w", url, err)
	}
	_ = conn.Close(websocket.StatusNormalClosure, "probe complete")
	return nil
}
