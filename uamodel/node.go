// Package uamodel implements the in-memory address-space graph
// (spec.md §4.6): a NodeId-keyed map of typed nodes, each carrying an
// order-preserving sequence of references appended as browse results
// arrive.
package uamodel

import "github.com/rob-gra/go-opcua/ua"

// Reference is one outgoing or incoming edge of a Node, installed by
// the node-set builder as it walks BrowseResults.
type Reference struct {
	ReferenceTypeId ua.NodeId
	IsForward       bool
	TargetId        ua.ExpandedNodeId
}

// Node is one vertex of the address space. Class fixes which attribute
// fields are meaningful; Variable-only fields (Value, DataType, …) are
// zero for every other class.
type Node struct {
	NodeId      ua.NodeId
	Class       ua.NodeClass
	BrowseName  ua.QualifiedName
	DisplayName ua.LocalizedText
	Description ua.LocalizedText
	WriteMask   uint32
	UserWriteMask uint32

	// Object-only.
	EventNotifier byte

	// Variable/VariableType-only.
	Value                   ua.DataValue
	DataType                ua.NodeId
	ValueRank               int32
	ArrayDimensions         []uint32
	AccessLevel             byte
	UserAccessLevel         byte
	MinimumSamplingInterval float64
	Historizing             bool

	// ReferenceType-only.
	IsAbstract   bool
	Symmetric    bool
	InverseName  ua.LocalizedText

	References []Reference
}

// AddReference appends ref, preserving insertion order (spec.md §4.6).
func (n *Node) AddReference(ref Reference) {
	n.References = append(n.References, ref)
}
