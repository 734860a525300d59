package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/flemzord/popmcp/internal/config"
	"github.com/flemzord/popmcp/internal/node"
	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

func testGateway(t *testing.T) (*Gateway, *Metrics, *node.Tracker) {
	t.Helper()

	reg := tool.NewRegistry()
	reg.MustRegister(tool.Descriptor{
		Name:        "demo_tool",
		Description: "demo",
		Schema:      schema.New(),
		Handler: func(ctx context.Context, p schema.Params, deps tool.Deps) outcome.Outcome {
			return outcome.Success("ok")
		},
	})

	metrics := NewMetrics()
	tracker := node.NewTracker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New(config.GatewayConfig{Bind: "127.0.0.1:0"}, logger, metrics, reg, tracker)
	g.startedAt = time.Now()
	return g, metrics, tracker
}

func get(t *testing.T, handler http.Handler, path string) (*http.Response, []byte) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	g, _, _ := testGateway(t)
	resp, body := get(t, g.buildRouter(), "/health")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var hr HealthResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hr.Status != "ok" || hr.Tools != 1 {
		t.Errorf("health = %+v", hr)
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	g, _, tracker := testGateway(t)
	tracker.Set(node.Node{Kind: node.KindInkNode, WSURL: "ws://localhost:9944", PID: 1234})

	resp, body := get(t, g.buildRouter(), "/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var sr StatusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sr.Tools) != 1 || sr.Tools[0] != "demo_tool" {
		t.Errorf("tools = %v", sr.Tools)
	}
	if len(sr.Nodes) != 1 || sr.Nodes[0].WSURL != "ws://localhost:9944" {
		t.Errorf("nodes = %+v", sr.Nodes)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	g, metrics, _ := testGateway(t)
	metrics.RecordCall("build_contract", outcome.KindOK, 100*time.Millisecond)
	metrics.RecordCall("build_contract", outcome.KindExecutionFailed, 200*time.Millisecond)
	metrics.RecordCall("pop_help", outcome.KindOK, 10*time.Millisecond)

	_, body := get(t, g.buildRouter(), "/metrics")

	var snap MetricsSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalCalls != 3 || snap.TotalFailures != 1 {
		t.Errorf("totals = %d calls, %d failures", snap.TotalCalls, snap.TotalFailures)
	}
	bc := snap.Tools["build_contract"]
	if bc.Calls != 2 || bc.Failures != 1 {
		t.Errorf("build_contract = %+v", bc)
	}
	if bc.AvgLatency != 150*time.Millisecond {
		t.Errorf("avg latency = %v", bc.AvgLatency)
	}
}

func TestMetricsConcurrentRecording(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordCall("build_contract", outcome.KindOK, time.Millisecond)
		}()
	}
	wg.Wait()

	if got := m.Snapshot().TotalCalls; got != 32 {
		t.Errorf("total calls = %d, want 32", got)
	}
}
