package uabrowse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uaservices"
	"github.com/rob-gra/go-opcua/uasession"
	"github.com/rob-gra/go-opcua/ulog"
	"github.com/stretchr/testify/require"
)

type silentProvider struct{}

func (silentProvider) Critical(string, ...interface{}) {}
func (silentProvider) Error(string, ...interface{})    {}
func (silentProvider) Warn(string, ...interface{})     {}
func (silentProvider) Debug(string, ...interface{})    {}

func testLogger() ulog.Logger { return ulog.New(silentProvider{}) }

// scriptedChannel is a uasession.SecureChannel test double that answers
// every request synchronously against a tiny in-memory address space:
// Root(84) organizes Objects(85), Types(86), Views(87), each a leaf.
type scriptedChannel struct {
	mu      sync.Mutex
	session *uasession.Session
}

func (c *scriptedChannel) Connect() error { return nil }
func (c *scriptedChannel) Close() error   { return nil }

func (c *scriptedChannel) Send(requestId uint32, body []byte) error {
	d := ua.NewDecoder(body)
	typeId, err := d.DecodeNodeId()
	if err != nil {
		return err
	}
	hdr, err := d.DecodeRequestHeader()
	if err != nil {
		return err
	}

	switch typeId {
	case ua.CreateSessionService.Request:
		c.reply(hdr.RequestHandle, ua.CreateSessionService.Response, &uasession.CreateSessionResponse{AuthenticationToken: ua.NewNumericNodeId(1, 7)})
	case ua.ActivateSessionService.Request:
		c.reply(hdr.RequestHandle, ua.ActivateSessionService.Response, &uasession.ActivateSessionResponse{})
	case ua.BrowseService.Request:
		var req uaservices.BrowseRequest
		if err := req.Decode(d); err != nil {
			return err
		}
		c.reply(hdr.RequestHandle, ua.BrowseService.Response, c.browse(&req))
	case ua.ReadService.Request:
		var req uaservices.ReadRequest
		if err := req.Decode(d); err != nil {
			return err
		}
		c.reply(hdr.RequestHandle, ua.ReadService.Response, c.read(&req))
	}
	return nil
}

func (c *scriptedChannel) reply(handle uint32, typeId ua.NodeId, resp ua.Payload) {
	e := ua.NewEncoder()
	_ = e.EncodeNodeId(typeId)
	e.EncodeResponseHeader(ua.ResponseHeader{RequestHandle: handle})
	resp.Encode(e)
	c.session.OnMessage(handle, e.Bytes())
}

var (
	objectsId = ua.NewNumericNodeId(0, 85)
	typesId   = ua.NewNumericNodeId(0, 86)
	viewsId   = ua.NewNumericNodeId(0, 87)
)

func (c *scriptedChannel) browse(req *uaservices.BrowseRequest) *uaservices.BrowseResponse {
	results := make([]uaservices.BrowseResult, len(req.NodesToBrowse))
	for i, n := range req.NodesToBrowse {
		if n.NodeId != rootNodeId {
			results[i] = uaservices.BrowseResult{StatusCode: ua.Good}
			continue
		}
		mk := func(id ua.NodeId, name string) uaservices.ReferenceDescription {
			return uaservices.ReferenceDescription{
				ReferenceTypeId: ua.NewNumericNodeId(0, 35),
				IsForward:       true,
				NodeId:          ua.ExpandedNodeId{NodeId: id},
				BrowseName:      ua.QualifiedName{Name: name},
				DisplayName:     ua.LocalizedText{Locale: "en", Text: name},
				NodeClass:       ua.NodeClassObject,
			}
		}
		results[i] = uaservices.BrowseResult{
			StatusCode: ua.Good,
			References: []uaservices.ReferenceDescription{
				mk(objectsId, "Objects"),
				mk(typesId, "Types"),
				mk(viewsId, "Views"),
			},
		}
	}
	return &uaservices.BrowseResponse{Results: results}
}

func (c *scriptedChannel) read(req *uaservices.ReadRequest) *uaservices.ReadResponse {
	results := make([]ua.DataValue, len(req.NodesToRead))
	for i := range req.NodesToRead {
		results[i] = ua.DataValue{HasValue: true, Value: ua.NewScalarVariant(ua.VariantUInt32, uint32(0))}
	}
	return &uaservices.ReadResponse{Results: results}
}

func newTestBuilder(t *testing.T) (*Builder, *scriptedChannel) {
	t.Helper()
	ch := &scriptedChannel{}
	cfg := uasession.Config{EndpointURL: "opc.tcp://localhost:4840", SessionName: "builder-test"}
	session := uasession.NewSession(cfg, ch, clockwork.NewFakeClock(), testLogger(), nil)
	ch.session = session

	require.NoError(t, session.CreateSession())
	require.Eventually(t, func() bool { return session.State() == uasession.StateReceiveCreateSession }, time.Second, time.Millisecond)
	require.NoError(t, session.ActivateSession())
	require.Eventually(t, func() bool { return session.State() == uasession.StateReceiveActivateSession }, time.Second, time.Millisecond)

	view := uaservices.NewViewService(session)
	attr := uaservices.NewAttributeService(session)
	return New(Config{MaxConcurrentBrowses: 4}, view, attr, testLogger()), ch
}

func TestBuilderBrowseToModel(t *testing.T) {
	b, _ := newTestBuilder(t)
	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.Errors)

	_, ok := result.Model.Find(objectsId)
	require.True(t, ok)
	_, ok = result.Model.Find(typesId)
	require.True(t, ok)
	_, ok = result.Model.Find(viewsId)
	require.True(t, ok)
}

func TestBuilderDuplicateRunIsIdempotent(t *testing.T) {
	b, _ := newTestBuilder(t)
	first, err := b.Build(context.Background())
	require.NoError(t, err)
	firstCount := first.Model.Len()

	second, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, firstCount, second.Model.Len())
}
