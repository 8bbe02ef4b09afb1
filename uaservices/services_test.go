package uaservices

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rob-gra/go-opcua/ua"
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

// fakeChannel is a uasession.SecureChannel test double: every request
// it records can be answered by decoding its RequestHandle and feeding
// a canned response back through Session.OnMessage.
type fakeChannel struct {
	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (f *fakeChannel) Connect() error { return nil }

func (f *fakeChannel) Send(requestId uint32, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, append([]byte(nil), body...))
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) lastSent() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeChannel) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func encodeMessage(typeId ua.NodeId, hdr ua.ResponseHeader, body ua.Payload) []byte {
	e := ua.NewEncoder()
	_ = e.EncodeNodeId(typeId)
	e.EncodeResponseHeader(hdr)
	if body != nil {
		body.Encode(e)
	}
	return e.Bytes()
}

func decodeRequestHandle(t *testing.T, raw []byte) uint32 {
	t.Helper()
	d := ua.NewDecoder(raw)
	_, err := d.DecodeNodeId()
	require.NoError(t, err)
	hdr, err := d.DecodeRequestHeader()
	require.NoError(t, err)
	return hdr.RequestHandle
}

// newActiveSession drives a fresh Session through CreateSession and
// ActivateSession so tests can exercise the service façades directly
// against StateReceiveActivateSession.
func newActiveSession(t *testing.T, ch *fakeChannel) *uasession.Session {
	t.Helper()
	cfg := uasession.Config{
		EndpointURL: "opc.tcp://localhost:4840",
		SessionName: "facade-test",
	}
	s := uasession.NewSession(cfg, ch, clockwork.NewFakeClock(), testLogger(), nil)

	require.NoError(t, s.CreateSession())
	require.Eventually(t, func() bool { return ch.sentCount() >= 1 }, time.Second, time.Millisecond)
	handle := decodeRequestHandle(t, ch.lastSent())
	s.OnMessage(handle, encodeMessage(ua.CreateSessionService.Response, ua.ResponseHeader{RequestHandle: handle},
		&uasession.CreateSessionResponse{AuthenticationToken: ua.NewNumericNodeId(1, 7)}))
	require.Eventually(t, func() bool { return s.State() == uasession.StateReceiveCreateSession }, time.Second, time.Millisecond)

	require.NoError(t, s.ActivateSession())
	require.Eventually(t, func() bool { return ch.sentCount() >= 2 }, time.Second, time.Millisecond)
	handle = decodeRequestHandle(t, ch.lastSent())
	s.OnMessage(handle, encodeMessage(ua.ActivateSessionService.Response, ua.ResponseHeader{RequestHandle: handle}, &uasession.ActivateSessionResponse{}))
	require.Eventually(t, func() bool { return s.State() == uasession.StateReceiveActivateSession }, time.Second, time.Millisecond)

	return s
}

// answerLast replies to the most recent request on ch with respTypeId
// and resp, and returns the RequestHandle it answered.
func answerLast(t *testing.T, s *uasession.Session, ch *fakeChannel, respTypeId ua.NodeId, resp ua.Payload) {
	t.Helper()
	handle := decodeRequestHandle(t, ch.lastSent())
	s.OnMessage(handle, encodeMessage(respTypeId, ua.ResponseHeader{RequestHandle: handle}, resp))
}

func TestAttributeServiceReadWrite(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	defer s.Close()
	attr := NewAttributeService(s)

	sent := ch.sentCount()
	readDone := make(chan struct{})
	var readResp *ReadResponse
	var readErr error
	go func() {
		readResp, readErr = attr.Read(context.Background(), &ReadRequest{
			NodesToRead: []ReadValueId{{NodeId: ua.NewNumericNodeId(1, 100), AttributeId: ua.AttributeValue}},
		})
		close(readDone)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.ReadService.Response, &ReadResponse{
		Results: []ua.DataValue{{Value: ua.NewScalarVariant(ua.VariantInt32, int32(42)), HasValue: true}},
	})
	<-readDone
	require.NoError(t, readErr)
	require.Len(t, readResp.Results, 1)

	sent = ch.sentCount()
	writeDone := make(chan struct{})
	var writeErr error
	go func() {
		_, writeErr = attr.Write(context.Background(), &WriteRequest{
			NodesToWrite: []WriteValue{{NodeId: ua.NewNumericNodeId(1, 100), AttributeId: ua.AttributeValue}},
		})
		close(writeDone)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.WriteService.Response, &WriteResponse{Results: []ua.StatusCode{ua.Good}})
	<-writeDone
	require.NoError(t, writeErr)
}

func TestAttributeServiceReadAsyncDispatchesToCallback(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	defer s.Close()
	attr := NewAttributeService(s)

	callback := make(chan struct{})
	var gotResp *ReadResponse
	var gotErr error
	attr.OnReadResponse(func(resp *ReadResponse, err error) {
		gotResp, gotErr = resp, err
		close(callback)
	})

	sent := ch.sentCount()
	_, err := attr.ReadAsync(&ReadRequest{
		NodesToRead: []ReadValueId{{NodeId: ua.NewNumericNodeId(1, 100), AttributeId: ua.AttributeValue}},
	}, &ReadResponse{})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)

	answerLast(t, s, ch, ua.ReadService.Response, &ReadResponse{
		Results: []ua.DataValue{{Value: ua.NewScalarVariant(ua.VariantInt32, int32(99)), HasValue: true}},
	})

	select {
	case <-callback:
	case <-time.After(time.Second):
		t.Fatal("OnReadResponse callback never fired")
	}
	require.NoError(t, gotErr)
	require.Len(t, gotResp.Results, 1)
}

func TestViewServiceBrowseAsyncDispatchesToCallback(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	defer s.Close()
	view := NewViewService(s)

	callback := make(chan struct{})
	var gotResp *BrowseResponse
	var gotErr error
	view.OnBrowseResponse(func(resp *BrowseResponse, err error) {
		gotResp, gotErr = resp, err
		close(callback)
	})

	sent := ch.sentCount()
	_, err := view.BrowseAsync(&BrowseRequest{
		NodesToBrowse: []BrowseDescription{{NodeId: ua.ObjectsNodeId}},
	}, &BrowseResponse{})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)

	answerLast(t, s, ch, ua.BrowseService.Response, &BrowseResponse{
		Results: []BrowseResult{{StatusCode: ua.Good}},
	})

	select {
	case <-callback:
	case <-time.After(time.Second):
		t.Fatal("OnBrowseResponse callback never fired")
	}
	require.NoError(t, gotErr)
	require.Len(t, gotResp.Results, 1)
}

func TestViewServiceBrowse(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	defer s.Close()
	view := NewViewService(s)

	sent := ch.sentCount()
	var resp *BrowseResponse
	var err error
	done := make(chan struct{})
	go func() {
		resp, err = view.Browse(context.Background(), &BrowseRequest{
			NodesToBrowse: []BrowseDescription{{NodeId: ua.ObjectsNodeId}},
		})
		close(done)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.BrowseService.Response, &BrowseResponse{
		Results: []BrowseResult{{StatusCode: ua.Good, References: []ReferenceDescription{
			{NodeId: ua.ExpandedNodeId{NodeId: ua.NewNumericNodeId(0, 85)}, BrowseName: ua.QualifiedName{Name: "Server"}},
		}}},
	})
	<-done
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Results[0].References, 1)
}

func TestSubscriptionAndMonitoredItemServices(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	defer s.Close()
	sub := NewSubscriptionService(s)
	mi := NewMonitoredItemService(s)

	sent := ch.sentCount()
	var subResp *CreateSubscriptionResponse
	var err error
	done := make(chan struct{})
	go func() {
		subResp, err = sub.Create(context.Background(), &CreateSubscriptionRequest{RequestedPublishingInterval: 1000})
		close(done)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.CreateSubscriptionService.Response, &CreateSubscriptionResponse{SubscriptionId: 9, RevisedPublishingInterval: 1000})
	<-done
	require.NoError(t, err)
	require.Equal(t, uint32(9), subResp.SubscriptionId)

	sent = ch.sentCount()
	var miResp *CreateMonitoredItemsResponse
	done = make(chan struct{})
	go func() {
		miResp, err = mi.Create(context.Background(), &CreateMonitoredItemsRequest{
			SubscriptionId: subResp.SubscriptionId,
			ItemsToCreate: []MonitoredItemCreateRequest{{
				ItemToMonitor:  ReadValueId{NodeId: ua.NewNumericNodeId(1, 100), AttributeId: ua.AttributeValue},
				MonitoringMode: MonitoringReporting,
			}},
		})
		close(done)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.CreateMonitoredItemsService.Response, &CreateMonitoredItemsResponse{
		Results: []MonitoredItemCreateResult{{StatusCode: ua.Good, MonitoredItemId: 1}},
	})
	<-done
	require.NoError(t, err)
	require.Len(t, miResp.Results, 1)
	require.Equal(t, uint32(1), miResp.Results[0].MonitoredItemId)
}

func TestPublishServiceDeliversNotification(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	defer s.Close()
	pub := NewPublishService(s)

	sent := ch.sentCount()
	var resp *PublishResponse
	var err error
	done := make(chan struct{})
	go func() {
		resp, err = pub.Publish(context.Background(), &PublishRequest{})
		close(done)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.PublishService.Response, &PublishResponse{
		SubscriptionId: 9,
		NotificationMessage: NotificationMessage{
			SequenceNumber: 1,
			DataChanges:    []MonitoredItemNotification{{ClientHandle: 1, Value: ua.DataValue{Value: ua.NewScalarVariant(ua.VariantInt32, int32(7)), HasValue: true}}},
		},
	})
	<-done
	require.NoError(t, err)
	require.Equal(t, uint32(9), resp.SubscriptionId)
	require.Len(t, resp.NotificationMessage.DataChanges, 1)
}

func TestSessionServiceCloseTearsDownChannel(t *testing.T) {
	ch := &fakeChannel{}
	s := newActiveSession(t, ch)
	svc := NewSessionService(s)

	sent := ch.sentCount()
	var err error
	done := make(chan struct{})
	go func() {
		err = svc.Close(context.Background(), true)
		close(done)
	}()
	require.Eventually(t, func() bool { return ch.sentCount() > sent }, time.Second, time.Millisecond)
	answerLast(t, s, ch, ua.CloseSessionService.Response, &CloseSessionResponse{})
	<-done
	require.NoError(t, err)
	ch.mu.Lock()
	closed := ch.closed
	ch.mu.Unlock()
	require.True(t, closed)
}
