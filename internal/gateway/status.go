package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime time.Duration `json:"uptime_seconds"`
	Tools  []string      `json:"tools"`
	Nodes  []NodeStatus  `json:"nodes"`
}

// NodeStatus is one tracked launch in the status view.
type NodeStatus struct {
	Kind       string    `json:"kind"`
	WSURL      string    `json:"ws_url,omitempty"`
	RelayWS    string    `json:"relay_ws,omitempty"`
	PID        int       `json:"pid,omitempty"`
	LaunchedAt time.Time `json:"launched_at"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime: time.Since(g.startedAt).Truncate(time.Second),
		}
		if g.registry != nil {
			resp.Tools = g.registry.Names()
		}
		if g.tracker != nil {
			for _, n := range g.tracker.All() {
				resp.Nodes = append(resp.Nodes, NodeStatus{
					Kind:       string(n.Kind),
					WSURL:      n.WSURL,
					RelayWS:    n.RelayWS,
					PID:        n.PID,
					LaunchedAt: n.LaunchedAt,
				})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// handleMetrics returns an http.HandlerFunc for GET /metrics.
func (g *Gateway) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.metrics.Snapshot())
	}
}
