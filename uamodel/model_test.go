package uamodel

import (
	"testing"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/stretchr/testify/require"
)

func TestModelInsertFindRemove(t *testing.T) {
	m := New()
	root := &Node{NodeId: ua.NewNumericNodeId(0, 84), Class: ua.NodeClassObject, BrowseName: ua.QualifiedName{Name: "Root"}}
	require.NoError(t, m.Insert(root))

	got, ok := m.Find(root.NodeId)
	require.True(t, ok)
	require.Same(t, root, got)

	_, ok = m.Find(ua.NewNumericNodeId(0, 999))
	require.False(t, ok)

	m.Remove(root.NodeId)
	_, ok = m.Find(root.NodeId)
	require.False(t, ok)
}

func TestModelInsertDuplicateFails(t *testing.T) {
	m := New()
	id := ua.NewNumericNodeId(0, 85)
	require.NoError(t, m.Insert(&Node{NodeId: id}))
	err := m.Insert(&Node{NodeId: id})
	require.ErrorIs(t, err, ua.ErrDuplicateNodeID)
	require.Equal(t, 1, m.Len())
}

func TestNodeReferencesPreserveOrder(t *testing.T) {
	n := &Node{NodeId: ua.NewNumericNodeId(0, 84)}
	n.AddReference(Reference{TargetId: ua.ExpandedNodeId{NodeId: ua.NewNumericNodeId(0, 85)}})
	n.AddReference(Reference{TargetId: ua.ExpandedNodeId{NodeId: ua.NewNumericNodeId(0, 86)}})
	n.AddReference(Reference{TargetId: ua.ExpandedNodeId{NodeId: ua.NewNumericNodeId(0, 87)}})

	require.Len(t, n.References, 3)
	require.Equal(t, uint32(85), n.References[0].TargetId.NodeId.Num)
	require.Equal(t, uint32(87), n.References[2].TargetId.NodeId.Num)
}

func TestModelForEachVisitsAllNodes(t *testing.T) {
	m := New()
	require.NoError(t, m.Insert(&Node{NodeId: ua.NewNumericNodeId(0, 1)}))
	require.NoError(t, m.Insert(&Node{NodeId: ua.NewNumericNodeId(0, 2)}))

	seen := map[uint32]bool{}
	m.ForEach(func(n *Node) { seen[n.NodeId.Num] = true })
	require.Len(t, seen, 2)
	require.True(t, seen[1])
	require.True(t, seen[2])
}
