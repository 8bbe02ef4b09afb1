package uaservices

import (
	"time"

	"github.com/rob-gra/go-opcua/ua"
)

// BrowseDirection selects which end of a reference a Browse follows
// (companion spec part 4, subclass 7.8).
type BrowseDirection int32

const (
	BrowseForward BrowseDirection = iota
	BrowseInverse
	BrowseBoth
)

// ViewDescription restricts a Browse to one view, or the full address
// space when ViewId is null (companion spec part 4, subclass 5.8.2.2).
type ViewDescription struct {
	ViewId      ua.NodeId
	Timestamp   time.Time
	ViewVersion uint32
}

func (v *ViewDescription) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(v.ViewId)
	e.EncodeInt64(ua.DateTimeToTicks(v.Timestamp))
	e.EncodeUint32(v.ViewVersion)
}

func (v *ViewDescription) Decode(d *ua.Decoder) error {
	var err error
	if v.ViewId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	ticks, err := d.DecodeInt64()
	if err != nil {
		return err
	}
	v.Timestamp = ua.TicksToDateTime(ticks)
	if v.ViewVersion, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// BrowseDescription names one node to browse and how to filter its
// references (companion spec part 4, subclass 5.8.2.2).
type BrowseDescription struct {
	NodeId          ua.NodeId
	Direction       BrowseDirection
	ReferenceTypeId ua.NodeId
	IncludeSubtypes bool
	NodeClassMask   uint32
	ResultMask      uint32
}

func (b *BrowseDescription) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(b.NodeId)
	e.EncodeInt32(int32(b.Direction))
	_ = e.EncodeNodeId(b.ReferenceTypeId)
	e.EncodeBoolean(b.IncludeSubtypes)
	e.EncodeUint32(b.NodeClassMask)
	e.EncodeUint32(b.ResultMask)
}

func (b *BrowseDescription) Decode(d *ua.Decoder) error {
	var err error
	if b.NodeId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	dir, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	b.Direction = BrowseDirection(dir)
	if b.ReferenceTypeId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	if b.IncludeSubtypes, err = d.DecodeBoolean(); err != nil {
		return err
	}
	if b.NodeClassMask, err = d.DecodeUint32(); err != nil {
		return err
	}
	if b.ResultMask, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// ReferenceDescription is one outgoing or incoming reference reported
// by Browse (companion spec part 4, subclass 5.8.2.2).
type ReferenceDescription struct {
	ReferenceTypeId ua.NodeId
	IsForward       bool
	NodeId          ua.ExpandedNodeId
	BrowseName      ua.QualifiedName
	DisplayName     ua.LocalizedText
	NodeClass       ua.NodeClass
	TypeDefinition  ua.ExpandedNodeId
}

func (r *ReferenceDescription) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(r.ReferenceTypeId)
	e.EncodeBoolean(r.IsForward)
	_ = e.EncodeExpandedNodeId(r.NodeId)
	e.EncodeQualifiedName(r.BrowseName)
	e.EncodeLocalizedText(r.DisplayName)
	e.EncodeInt32(int32(r.NodeClass))
	_ = e.EncodeExpandedNodeId(r.TypeDefinition)
}

func (r *ReferenceDescription) Decode(d *ua.Decoder) error {
	var err error
	if r.ReferenceTypeId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	if r.IsForward, err = d.DecodeBoolean(); err != nil {
		return err
	}
	if r.NodeId, err = d.DecodeExpandedNodeId(); err != nil {
		return err
	}
	if r.BrowseName, err = d.DecodeQualifiedName(); err != nil {
		return err
	}
	if r.DisplayName, err = d.DecodeLocalizedText(); err != nil {
		return err
	}
	nc, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	r.NodeClass = ua.NodeClass(nc)
	if r.TypeDefinition, err = d.DecodeExpandedNodeId(); err != nil {
		return err
	}
	return d.Err()
}

// BrowseResult answers one BrowseDescription. A non-empty
// ContinuationPoint means more references remain, fetched with
// BrowseNext (spec.md §4.7's frontier expansion).
type BrowseResult struct {
	StatusCode        ua.StatusCode
	ContinuationPoint []byte
	References        []ReferenceDescription
}

func (b *BrowseResult) Encode(e *ua.Encoder) {
	e.EncodeUint32(uint32(b.StatusCode))
	e.EncodeByteString(b.ContinuationPoint)
	e.EncodeInt32(int32(len(b.References)))
	for i := range b.References {
		b.References[i].Encode(e)
	}
}

func (b *BrowseResult) Decode(d *ua.Decoder) error {
	sc, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	b.StatusCode = ua.StatusCode(sc)
	if b.ContinuationPoint, err = d.DecodeByteString(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		b.References = make([]ReferenceDescription, n)
		for i := range b.References {
			if err := b.References[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// BrowseRequest asks the server to enumerate the references of one or
// more nodes (spec.md §4.7's frontier expansion).
type BrowseRequest struct {
	View                          ViewDescription
	RequestedMaxReferencesPerNode uint32
	NodesToBrowse                 []BrowseDescription
}

func (b *BrowseRequest) Encode(e *ua.Encoder) {
	b.View.Encode(e)
	e.EncodeUint32(b.RequestedMaxReferencesPerNode)
	e.EncodeInt32(int32(len(b.NodesToBrowse)))
	for i := range b.NodesToBrowse {
		b.NodesToBrowse[i].Encode(e)
	}
}

func (b *BrowseRequest) Decode(d *ua.Decoder) error {
	if err := b.View.Decode(d); err != nil {
		return err
	}
	var err error
	if b.RequestedMaxReferencesPerNode, err = d.DecodeUint32(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		b.NodesToBrowse = make([]BrowseDescription, n)
		for i := range b.NodesToBrowse {
			if err := b.NodesToBrowse[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// BrowseResponse answers BrowseRequest with one BrowseResult per
// NodesToBrowse entry, in the same order.
type BrowseResponse struct {
	Results []BrowseResult
}

func (b *BrowseResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(b.Results)))
	for i := range b.Results {
		b.Results[i].Encode(e)
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested
}

func (b *BrowseResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		b.Results = make([]BrowseResult, n)
		for i := range b.Results {
			if err := b.Results[i].Decode(d); err != nil {
				return err
			}
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// BrowseNextRequest resumes Browse calls whose result carried a
// ContinuationPoint.
type BrowseNextRequest struct {
	ReleaseContinuationPoints bool
	ContinuationPoints        [][]byte
}

func (b *BrowseNextRequest) Encode(e *ua.Encoder) {
	e.EncodeBoolean(b.ReleaseContinuationPoints)
	e.EncodeInt32(int32(len(b.ContinuationPoints)))
	for _, cp := range b.ContinuationPoints {
		e.EncodeByteString(cp)
	}
}

func (b *BrowseNextRequest) Decode(d *ua.Decoder) error {
	var err error
	if b.ReleaseContinuationPoints, err = d.DecodeBoolean(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		b.ContinuationPoints = make([][]byte, n)
		for i := range b.ContinuationPoints {
			if b.ContinuationPoints[i], err = d.DecodeByteString(); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// BrowseNextResponse has the same per-entry shape as BrowseResponse.
type BrowseNextResponse struct {
	Results []BrowseResult
}

func (b *BrowseNextResponse) Encode(e *ua.Encoder) {
	(*BrowseResponse)(b).Encode(e)
}

func (b *BrowseNextResponse) Decode(d *ua.Decoder) error {
	return (*BrowseResponse)(b).Decode(d)
}

// RelativePathElement names one hop of a BrowsePath by reference type
// and target BrowseName (companion spec part 4, subclass 5.8.4; the
// inverse/subtype modifiers the full spec carries are not needed by any
// scenario here and are left at their zero value).
type RelativePathElement struct {
	ReferenceTypeId ua.NodeId
	IsInverse       bool
	IncludeSubtypes bool
	TargetName      ua.QualifiedName
}

func (r *RelativePathElement) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(r.ReferenceTypeId)
	e.EncodeBoolean(r.IsInverse)
	e.EncodeBoolean(r.IncludeSubtypes)
	e.EncodeQualifiedName(r.TargetName)
}

func (r *RelativePathElement) Decode(d *ua.Decoder) error {
	var err error
	if r.ReferenceTypeId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	if r.IsInverse, err = d.DecodeBoolean(); err != nil {
		return err
	}
	if r.IncludeSubtypes, err = d.DecodeBoolean(); err != nil {
		return err
	}
	if r.TargetName, err = d.DecodeQualifiedName(); err != nil {
		return err
	}
	return d.Err()
}

// BrowsePath resolves a chain of RelativePathElements starting from
// StartingNode to the NodeIds it names.
type BrowsePath struct {
	StartingNode ua.NodeId
	RelativePath []RelativePathElement
}

func (b *BrowsePath) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(b.StartingNode)
	e.EncodeInt32(int32(len(b.RelativePath)))
	for i := range b.RelativePath {
		b.RelativePath[i].Encode(e)
	}
}

func (b *BrowsePath) Decode(d *ua.Decoder) error {
	var err error
	if b.StartingNode, err = d.DecodeNodeId(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		b.RelativePath = make([]RelativePathElement, n)
		for i := range b.RelativePath {
			if err := b.RelativePath[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// TranslateBrowsePathsToNodeIdsRequest resolves one or more BrowsePaths.
type TranslateBrowsePathsToNodeIdsRequest struct {
	BrowsePaths []BrowsePath
}

func (t *TranslateBrowsePathsToNodeIdsRequest) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(t.BrowsePaths)))
	for i := range t.BrowsePaths {
		t.BrowsePaths[i].Encode(e)
	}
}

func (t *TranslateBrowsePathsToNodeIdsRequest) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		t.BrowsePaths = make([]BrowsePath, n)
		for i := range t.BrowsePaths {
			if err := t.BrowsePaths[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// BrowsePathTarget is one resolved endpoint of a BrowsePath.
type BrowsePathTarget struct {
	TargetId        ua.ExpandedNodeId
	RemainingPathIndex uint32
}

func (b *BrowsePathTarget) Encode(e *ua.Encoder) {
	_ = e.EncodeExpandedNodeId(b.TargetId)
	e.EncodeUint32(b.RemainingPathIndex)
}

func (b *BrowsePathTarget) Decode(d *ua.Decoder) error {
	var err error
	if b.TargetId, err = d.DecodeExpandedNodeId(); err != nil {
		return err
	}
	if b.RemainingPathIndex, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// BrowsePathResult answers one BrowsePath entry.
type BrowsePathResult struct {
	StatusCode ua.StatusCode
	Targets    []BrowsePathTarget
}

func (b *BrowsePathResult) Encode(e *ua.Encoder) {
	e.EncodeUint32(uint32(b.StatusCode))
	e.EncodeInt32(int32(len(b.Targets)))
	for i := range b.Targets {
		b.Targets[i].Encode(e)
	}
}

func (b *BrowsePathResult) Decode(d *ua.Decoder) error {
	sc, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	b.StatusCode = ua.StatusCode(sc)
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		b.Targets = make([]BrowsePathTarget, n)
		for i := range b.Targets {
			if err := b.Targets[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// TranslateBrowsePathsToNodeIdsResponse answers
// TranslateBrowsePathsToNodeIdsRequest.
type TranslateBrowsePathsToNodeIdsResponse struct {
	Results []BrowsePathResult
}

func (t *TranslateBrowsePathsToNodeIdsResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(t.Results)))
	for i := range t.Results {
		t.Results[i].Encode(e)
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested
}

func (t *TranslateBrowsePathsToNodeIdsResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		t.Results = make([]BrowsePathResult, n)
		for i := range t.Results {
			if err := t.Results[i].Decode(d); err != nil {
				return err
			}
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}
