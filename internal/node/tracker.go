// Package node tracks chain nodes launched through this server: the local
// ink! development node and zombienet networks. Tools that talk to a node
// fall back to the tracked WebSocket URL when the caller supplies none, and
// cleanup tools use the tracked PIDs to reclaim processes.
package node

import (
	"sync"
	"time"
)

// Kind distinguishes tracked launches.
type Kind string

// Tracked launch kinds.
const (
	KindInkNode Kind = "ink_node"
	KindNetwork Kind = "network"
)

// Node is one tracked launch.
type Node struct {
	Kind       Kind
	WSURL      string
	RelayWS    string
	PID        int
	ZombieJSON string
	BaseDir    string
	LaunchedAt time.Time
}

// Tracker is the process-wide registry of launched nodes. At most one entry
// per kind; a new launch of the same kind replaces the previous entry.
// Safe for concurrent use.
type Tracker struct {
	mu    sync.RWMutex
	nodes map[Kind]Node
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{nodes: make(map[Kind]Node)}
}

// Set records a launch, replacing any previous entry of the same kind.
func (t *Tracker) Set(n Node) {
	if n.LaunchedAt.IsZero() {
		n.LaunchedAt = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[n.Kind] = n
}

// Get returns the tracked entry of the given kind.
func (t *Tracker) Get(kind Kind) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[kind]
	return n, ok
}

// URL returns the WebSocket URL tools should default to: the local ink!
// node if one is tracked, else the tracked network's parachain endpoint.
func (t *Tracker) URL() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n, ok := t.nodes[KindInkNode]; ok && n.WSURL != "" {
		return n.WSURL, true
	}
	if n, ok := t.nodes[KindNetwork]; ok && n.WSURL != "" {
		return n.WSURL, true
	}
	return "", false
}

// All returns every tracked entry.
func (t *Tracker) All() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	return out
}

// Remove drops the entry of the given kind.
func (t *Tracker) Remove(kind Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.nodes, kind)
}

// Clear drops all tracked entries.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = make(map[Kind]Node)
}
