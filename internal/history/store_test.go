package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flemzord/popmcp/internal/node"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "popmcp.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListInvocations(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	for _, inv := range []Invocation{
		{Tool: "build_contract", Kind: "ok", Duration: 1500 * time.Millisecond, Summary: "Build successful!"},
		{Tool: "deploy_contract", Kind: "execution_failed", Duration: 200 * time.Millisecond, Summary: "Error: out of gas"},
	} {
		if err := s.RecordInvocation(ctx, inv); err != nil {
			t.Fatalf("RecordInvocation: %v", err)
		}
	}

	got, err := s.RecentInvocations(ctx, 10)
	if err != nil {
		t.Fatalf("RecentInvocations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d invocations, want 2", len(got))
	}
	// Newest first.
	if got[0].Tool != "deploy_contract" || got[1].Tool != "build_contract" {
		t.Errorf("order = %s, %s; want newest first", got[0].Tool, got[1].Tool)
	}
	if got[0].Kind != "execution_failed" {
		t.Errorf("kind = %q", got[0].Kind)
	}
	if got[1].Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v", got[1].Duration)
	}
}

func TestInvocationSummaryIsBounded(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	long := strings.Repeat("あ", 4096) // multibyte, forces a rune-boundary cut
	if err := s.RecordInvocation(ctx, Invocation{Tool: "build_contract", Kind: "ok", Summary: long}); err != nil {
		t.Fatalf("RecordInvocation: %v", err)
	}

	got, err := s.RecentInvocations(ctx, 1)
	if err != nil {
		t.Fatalf("RecentInvocations: %v", err)
	}
	if len(got[0].Summary) > maxSummaryLen+len("...(truncated)") {
		t.Errorf("summary length %d exceeds bound", len(got[0].Summary))
	}
	if !strings.HasSuffix(got[0].Summary, "...(truncated)") {
		t.Error("truncated summary not annotated")
	}
}

func TestSaveNodeUpserts(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveNode(ctx, node.Node{Kind: node.KindNetwork, WSURL: "ws://a", PID: 100}); err != nil {
		t.Fatalf("SaveNode: %v", err)
	}
	if err := s.SaveNode(ctx, node.Node{Kind: node.KindNetwork, WSURL: "ws://b", PID: 200, RelayWS: "ws://r"}); err != nil {
		t.Fatalf("SaveNode (upsert): %v", err)
	}

	nodes, err := s.ListNodes(ctx)
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d node rows, want 1 per kind", len(nodes))
	}
	if nodes[0].WSURL != "ws://b" || nodes[0].PID != 200 || nodes[0].RelayWS != "ws://r" {
		t.Errorf("node = %+v, want the replacement row", nodes[0])
	}
}

func TestDeleteNodes(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	_ = s.SaveNode(ctx, node.Node{Kind: node.KindInkNode, WSURL: "ws://a"})
	_ = s.SaveNode(ctx, node.Node{Kind: node.KindNetwork, WSURL: "ws://b"})

	if err := s.DeleteNode(ctx, node.KindInkNode); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	nodes, _ := s.ListNodes(ctx)
	if len(nodes) != 1 || nodes[0].Kind != node.KindNetwork {
		t.Errorf("nodes = %+v, want only the network row", nodes)
	}

	if err := s.DeleteNodes(ctx); err != nil {
		t.Fatalf("DeleteNodes: %v", err)
	}
	nodes, _ = s.ListNodes(ctx)
	if len(nodes) != 0 {
		t.Errorf("nodes = %+v, want empty", nodes)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "popmcp.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	if err := s2.RecordInvocation(context.Background(), Invocation{Tool: "pop_help", Kind: "ok"}); err != nil {
		t.Errorf("write after reopen: %v", err)
	}
}
