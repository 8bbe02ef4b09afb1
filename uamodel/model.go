package uamodel

import (
	"sync"

	"github.com/rob-gra/go-opcua/ua"
)

// Model is the InformationModel of spec.md §4.6: a NodeId → *Node map
// exclusively owning its nodes. It is owned by the node-set builder
// (uabrowse), not shared with a Session's decode path (spec.md §5).
type Model struct {
	mu    sync.RWMutex
	nodes map[ua.NodeId]*Node
}

// New returns an empty Model.
func New() *Model {
	return &Model{nodes: make(map[ua.NodeId]*Node)}
}

// Insert adds node, keyed by node.NodeId. It fails with
// ua.ErrDuplicateNodeID if the key is already present — the node-set
// builder treats that failure as a benign cycle terminator, not an
// error to surface.
func (m *Model) Insert(node *Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.nodes[node.NodeId]; exists {
		return ua.Wrap(ua.KindState, ua.ErrDuplicateNodeID)
	}
	m.nodes[node.NodeId] = node
	return nil
}

// Find returns the node keyed by id, and whether it was present.
// References may dangle across partial browses, so a miss is not an
// error (spec.md §3).
func (m *Model) Find(id ua.NodeId) (*Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	return n, ok
}

// Remove deletes the node keyed by id, if present.
func (m *Model) Remove(id ua.NodeId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes, id)
}

// Len reports the current node count.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// ForEach visits every node in an unspecified order. visitor must not
// call back into Insert/Remove on the same Model — ForEach holds the
// read lock for its duration.
func (m *Model) ForEach(visitor func(*Node)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.nodes {
		visitor(n)
	}
}
