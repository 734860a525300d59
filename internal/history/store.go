package history

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/flemzord/popmcp/internal/node"
)

// maxSummaryLen bounds stored output summaries. Longer values are truncated
// to prevent the database growing with multi-megabyte build logs.
const maxSummaryLen = 4096

// Invocation is one recorded tool call.
type Invocation struct {
	Tool      string
	Kind      string
	Duration  time.Duration
	Summary   string
	CreatedAt time.Time
}

// RecordInvocation appends one invocation row.
func (s *Store) RecordInvocation(ctx context.Context, inv Invocation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (tool, kind, duration_ms, summary) VALUES (?, ?, ?, ?)`,
		inv.Tool, inv.Kind, inv.Duration.Milliseconds(), truncateSummary(inv.Summary),
	)
	if err != nil {
		return fmt.Errorf("history: record invocation: %w", err)
	}
	return nil
}

// RecentInvocations returns up to limit invocations, newest first.
func (s *Store) RecentInvocations(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT tool, kind, duration_ms, summary, created_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&inv.Tool, &inv.Kind, &durationMS, &inv.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan invocation: %w", err)
		}
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		inv.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, inv)
	}
	return out, rows.Err()
}

// SaveNode upserts the launched-node row for its kind.
func (s *Store) SaveNode(ctx context.Context, n node.Node) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nodes (kind, ws_url, relay_ws, pid, zombie_json, base_dir)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET
			ws_url=excluded.ws_url,
			relay_ws=excluded.relay_ws,
			pid=excluded.pid,
			zombie_json=excluded.zombie_json,
			base_dir=excluded.base_dir,
			launched_at=strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		string(n.Kind), n.WSURL, n.RelayWS, n.PID, n.ZombieJSON, n.BaseDir,
	)
	if err != nil {
		return fmt.Errorf("history: save node: %w", err)
	}
	return nil
}

// ListNodes returns all persisted node records.
func (s *Store) ListNodes(ctx context.Context) ([]node.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, ws_url, relay_ws, pid, zombie_json, base_dir, launched_at FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("history: list nodes: %w", err)
	}
	defer rows.Close()

	var out []node.Node
	for rows.Next() {
		var n node.Node
		var kind, launchedAt string
		if err := rows.Scan(&kind, &n.WSURL, &n.RelayWS, &n.PID, &n.ZombieJSON, &n.BaseDir, &launchedAt); err != nil {
			return nil, fmt.Errorf("history: scan node: %w", err)
		}
		n.Kind = node.Kind(kind)
		n.LaunchedAt, _ = time.Parse(time.RFC3339Nano, launchedAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteNode removes the persisted row for one kind.
func (s *Store) DeleteNode(ctx context.Context, kind node.Kind) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE kind = ?`, string(kind)); err != nil {
		return fmt.Errorf("history: delete node: %w", err)
	}
	return nil
}

// DeleteNodes removes all persisted node rows.
func (s *Store) DeleteNodes(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("history: delete nodes: %w", err)
	}
	return nil
}

// truncateSummary shortens s to maxSummaryLen at a rune boundary.
func truncateSummary(s string) string {
	if len(s) <= maxSummaryLen {
		return s
	}
	i := maxSummaryLen
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i] + "...(truncated)"
}
