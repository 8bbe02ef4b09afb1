// Package uabrowse implements the recursive Browse+Read node-set
// builder (spec.md §4.7): starting from a synthetic Root node, it
// walks the server's address space breadth-first, installing every
// newly-discovered node into a uamodel.Model and appending references
// to their parents regardless of whether the target was readable.
package uabrowse

import (
	"context"
	"sync"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uamodel"
	"github.com/rob-gra/go-opcua/uaservices"
	"github.com/rob-gra/go-opcua/ulog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Config tunes the builder's frontier fan-out.
type Config struct {
	// MaxConcurrentBrowses bounds how many frontier NodeIds are browsed
	// at once (errgroup.SetLimit). Zero means unlimited.
	MaxConcurrentBrowses int
}

// Builder recursively populates a uamodel.Model by driving a
// uaservices.ViewService (Browse) and uaservices.AttributeService
// (Read) pair.
type Builder struct {
	cfg    Config
	view   uaservices.ViewService
	attr   uaservices.AttributeService
	logger ulog.Logger
}

// New returns a Builder driving view/attr against a shared session.
func New(cfg Config, view uaservices.ViewService, attr uaservices.AttributeService, logger ulog.Logger) *Builder {
	return &Builder{cfg: cfg, view: view, attr: attr, logger: logger}
}

// rootNodeId is the standard Root object (spec.md §4.7, step 1).
var rootNodeId = ua.NewNumericNodeId(0, 84)

// nodeClassAttributes lists the attribute set a Read should request for
// a given NodeClass (spec.md §4.7, step 3). Every class reads the five
// attributes common to all nodes; Variable/VariableType add the
// value-bearing attributes.
func nodeClassAttributes(class ua.NodeClass) []ua.AttributeId {
	common := []ua.AttributeId{
		ua.AttributeNodeId,
		ua.AttributeNodeClass,
		ua.AttributeBrowseName,
		ua.AttributeDisplayName,
		ua.AttributeDescription,
	}
	switch class {
	case ua.NodeClassVariable, ua.NodeClassVariableType:
		return append(common,
			ua.AttributeWriteMask,
			ua.AttributeUserWriteMask,
			ua.AttributeValue,
			ua.AttributeDataType,
			ua.AttributeValueRank,
			ua.AttributeArrayDimensions,
			ua.AttributeAccessLevel,
			ua.AttributeUserAccessLevel,
			ua.AttributeMinimumSamplingInterval,
			ua.AttributeHistorizing,
		)
	case ua.NodeClassObject:
		return append(common, ua.AttributeWriteMask, ua.AttributeUserWriteMask, ua.AttributeEventNotifier)
	case ua.NodeClassReferenceType:
		return append(common, ua.AttributeIsAbstract, ua.AttributeSymmetric, ua.AttributeInverseName)
	default:
		return append(common, ua.AttributeWriteMask, ua.AttributeUserWriteMask)
	}
}

// Result reports the outcome of a Build: Build fails only if the root
// insert itself fails; every per-branch failure (including a Browse or
// Read cut short by a canceled ctx) is non-fatal and accumulated here so
// a caller can inspect what was skipped
// (spec.md §4.7's "Browse failure for a frontier NodeId is logged;
// traversal continues" policy, rendered as collected errors rather than
// silently discarded ones).
type Result struct {
	Model  *uamodel.Model
	Errors error // multierr-joined non-fatal browse/read failures, nil if none
}

// Build walks the address space starting at Root and returns the
// populated model. Every call starts from a new Model, so calling Build
// again against the same server yields the same node count (scenario
// S4); within one walk, DuplicateNodeId on insert is swallowed as a
// benign cycle terminator.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	model := uamodel.New()
	root := &uamodel.Node{
		NodeId:      rootNodeId,
		Class:       ua.NodeClassObject,
		BrowseName:  ua.QualifiedName{Name: "Root"},
		DisplayName: ua.LocalizedText{Locale: "en", Text: "Root"},
	}
	if err := model.Insert(root); err != nil && err != nil {
		// A fresh model never has Root already present; this only
		// guards against a caller reusing a non-empty Model.
		if !isDuplicate(err) {
			return nil, err
		}
	}

	var errsMu sync.Mutex
	var errs error
	addErr := func(err error) {
		if err == nil {
			return
		}
		errsMu.Lock()
		errs = multierr.Append(errs, err)
		errsMu.Unlock()
	}

	if err := b.expand(ctx, model, []ua.NodeId{rootNodeId}, addErr); err != nil {
		return nil, err
	}

	return &Result{Model: model, Errors: errs}, nil
}

func isDuplicate(err error) bool {
	return err != nil && errorsIs(err, ua.ErrDuplicateNodeID)
}

// errorsIs walks err's single-error Unwrap chain comparing each link to
// target by ==. Unlike errors.Is it does not consult Is methods or
// follow Unwrap() []error.
func errorsIs(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// expand drives one breadth-first layer of Browse+Read over frontier,
// recursing into newly-discovered nodes (spec.md §4.7, steps 2-4). Each
// frontier NodeId's browse runs concurrently, bounded by
// cfg.MaxConcurrentBrowses.
func (b *Builder) expand(ctx context.Context, model *uamodel.Model, frontier []ua.NodeId, addErr func(error)) error {
	if len(frontier) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if b.cfg.MaxConcurrentBrowses > 0 {
		g.SetLimit(b.cfg.MaxConcurrentBrowses)
	}

	var nextMu sync.Mutex
	var next []ua.NodeId

	for _, parentId := range frontier {
		parentId := parentId
		g.Go(func() error {
			discovered, err := b.expandOne(ctx, model, parentId, addErr)
			if err != nil {
				// A frontier browse failure is non-fatal: log and
				// continue with the rest of the frontier.
				b.logger.Error("browse failed for %s: %v", parentId, err)
				addErr(err)
				return nil
			}
			if len(discovered) > 0 {
				nextMu.Lock()
				next = append(next, discovered...)
				nextMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return b.expand(ctx, model, next, addErr)
}

// expandOne browses one parent NodeId, installs any newly-discovered
// targets, and returns the NodeIds to recurse into next.
func (b *Builder) expandOne(ctx context.Context, model *uamodel.Model, parentId ua.NodeId, addErr func(error)) ([]ua.NodeId, error) {
	resp, err := b.view.Browse(ctx, &uaservices.BrowseRequest{
		NodesToBrowse: []uaservices.BrowseDescription{{
			NodeId:        parentId,
			Direction:     uaservices.BrowseForward,
			ResultMask:    0x3f,
			NodeClassMask: 0,
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	result := resp.Results[0]
	if result.StatusCode.IsBad() {
		return nil, ua.Wrap(ua.KindService, errStatus{result.StatusCode})
	}

	parent, ok := model.Find(parentId)
	var discovered []ua.NodeId
	for _, ref := range result.References {
		if ok {
			parent.AddReference(uamodel.Reference{
				ReferenceTypeId: ref.ReferenceTypeId,
				IsForward:       ref.IsForward,
				TargetId:        ref.NodeId,
			})
		}

		targetId := ref.NodeId.NodeId
		if _, present := model.Find(targetId); present {
			continue
		}

		node, err := b.readNode(ctx, targetId, ref.NodeClass, ref.BrowseName, ref.DisplayName)
		if err != nil {
			b.logger.Error("read failed for %s: %v", targetId, err)
			addErr(err)
			continue
		}
		if err := model.Insert(node); err != nil {
			if isDuplicate(err) {
				continue // benign cycle terminator (scenario S4)
			}
			return nil, err
		}
		discovered = append(discovered, targetId)
	}
	return discovered, nil
}

// readNode issues the attribute Read for class's attribute set and
// assembles the resulting Node (spec.md §4.7, step 3).
func (b *Builder) readNode(ctx context.Context, id ua.NodeId, class ua.NodeClass, browseName ua.QualifiedName, displayName ua.LocalizedText) (*uamodel.Node, error) {
	attrs := nodeClassAttributes(class)
	toRead := make([]uaservices.ReadValueId, len(attrs))
	for i, a := range attrs {
		toRead[i] = uaservices.ReadValueId{NodeId: id, AttributeId: a}
	}

	resp, err := b.attr.Read(ctx, &uaservices.ReadRequest{
		TimestampsToReturn: uaservices.TimestampsNeither,
		NodesToRead:        toRead,
	})
	if err != nil {
		return nil, err
	}

	node := &uamodel.Node{NodeId: id, Class: class, BrowseName: browseName, DisplayName: displayName}
	for i, a := range attrs {
		if i >= len(resp.Results) || !resp.Results[i].HasValue {
			continue
		}
		installAttribute(node, a, resp.Results[i].Value)
	}
	return node, nil
}

// installAttribute copies one decoded attribute Value onto node. Any
// scalar whose Go type doesn't match the attribute is left at its zero
// value rather than causing the whole Read to fail.
func installAttribute(node *uamodel.Node, attr ua.AttributeId, v ua.Variant) {
	switch attr {
	case ua.AttributeWriteMask:
		if n, ok := asUint32(v); ok {
			node.WriteMask = n
		}
	case ua.AttributeUserWriteMask:
		if n, ok := asUint32(v); ok {
			node.UserWriteMask = n
		}
	case ua.AttributeEventNotifier:
		if n, ok := asByte(v); ok {
			node.EventNotifier = n
		}
	case ua.AttributeDataType:
		if id, ok := v.Scalar.(ua.NodeId); ok {
			node.DataType = id
		}
	case ua.AttributeValueRank:
		if n, ok := v.Scalar.(int32); ok {
			node.ValueRank = n
		}
	case ua.AttributeAccessLevel:
		if n, ok := asByte(v); ok {
			node.AccessLevel = n
		}
	case ua.AttributeUserAccessLevel:
		if n, ok := asByte(v); ok {
			node.UserAccessLevel = n
		}
	case ua.AttributeMinimumSamplingInterval:
		if n, ok := v.Scalar.(float64); ok {
			node.MinimumSamplingInterval = n
		}
	case ua.AttributeHistorizing:
		if n, ok := v.Scalar.(bool); ok {
			node.Historizing = n
		}
	case ua.AttributeIsAbstract:
		if n, ok := v.Scalar.(bool); ok {
			node.IsAbstract = n
		}
	case ua.AttributeSymmetric:
		if n, ok := v.Scalar.(bool); ok {
			node.Symmetric = n
		}
	case ua.AttributeInverseName:
		if n, ok := v.Scalar.(ua.LocalizedText); ok {
			node.InverseName = n
		}
	}
}

func asUint32(v ua.Variant) (uint32, bool) {
	n, ok := v.Scalar.(uint32)
	return n, ok
}

func asByte(v ua.Variant) (byte, bool) {
	n, ok := v.Scalar.(byte)
	return n, ok
}

// errStatus adapts a bad StatusCode into an error for ua.Wrap.
type errStatus struct{ code ua.StatusCode }

func (e errStatus) Error() string { return "bad status: " + e.code.String() }
