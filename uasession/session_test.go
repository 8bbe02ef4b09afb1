package uasession

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/ulog"
	"github.com/stretchr/testify/require"
)

type silentProvider struct{}

func (silentProvider) Critical(string, ...interface{}) {}
func (silentProvider) Error(string, ...interface{})    {}
func (silentProvider) Warn(string, ...interface{})     {}
func (silentProvider) Debug(string, ...interface{})    {}

func testLogger() ulog.Logger { return ulog.New(silentProvider{}) }

// fakeChannel is a SecureChannel test double recording every Send so
// tests can decode and answer requests without a real transport.
type fakeChannel struct {
	mu         sync.Mutex
	connectErr error
	sendErr    error
	sent       [][]byte
	closed     bool
}

func (f *fakeChannel) Connect() error { return f.connectErr }

func (f *fakeChannel) Send(requestId uint32, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, append([]byte(nil), body...))
	return f.sendErr
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

func newTestSession(t *testing.T, ch SecureChannel, clock clockwork.Clock) *Session {
	t.Helper()
	cfg := Config{
		EndpointURL: "opc.tcp://localhost:4840",
		SessionName: "test-session",
	}
	return NewSession(cfg, ch, clock, testLogger(), nil)
}

func driveToActive(t *testing.T, s *Session, ch *fakeChannel) {
	t.Helper()
	require.NoError(t, s.CreateSession())
	require.Eventually(t, func() bool { return ch.sentCount() >= 1 }, time.Second, time.Millisecond)

	handle := decodeRequestHandle(t, ch.lastSent())
	resp := &CreateSessionResponse{AuthenticationToken: ua.NewNumericNodeId(1, 42)}
	s.OnMessage(handle, encodeMessage(ua.CreateSessionService.Response, ua.ResponseHeader{RequestHandle: handle}, resp))
	require.Eventually(t, func() bool { return s.State() == StateReceiveCreateSession }, time.Second, time.Millisecond)

	require.NoError(t, s.ActivateSession())
	require.Eventually(t, func() bool { return ch.sentCount() >= 2 }, time.Second, time.Millisecond)

	handle = decodeRequestHandle(t, ch.lastSent())
	s.OnMessage(handle, encodeMessage(ua.ActivateSessionService.Response, ua.ResponseHeader{RequestHandle: handle}, &ActivateSessionResponse{}))
	require.Eventually(t, func() bool { return s.State() == StateReceiveActivateSession }, time.Second, time.Millisecond)
}

func TestSessionLifecycleReachesActive(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch, clockwork.NewFakeClock())
	defer s.Close()

	driveToActive(t, s, ch)
	require.Equal(t, StateReceiveActivateSession, s.State())
}

func TestSessionInvalidStateLeavesStateUnchanged(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch, clockwork.NewFakeClock())
	defer s.Close()

	err := s.ActivateSession()
	require.ErrorIs(t, err, ErrInvalidState)
	require.Equal(t, StateClosed, s.State())

	tx := NewServiceTransaction(ua.ReadService.Request, ua.ReadService.Response, nil, nil)
	err = s.Send(tx)
	require.ErrorIs(t, err, ErrInvalidState)
	require.Equal(t, StateClosed, s.State())
}

func TestSessionSendRoutesResponseToOriginator(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch, clockwork.NewFakeClock())
	defer s.Close()
	driveToActive(t, s, ch)

	received := make(chan *ServiceTransaction, 1)
	recv := receiverFunc(func(t *ServiceTransaction) { received <- t })

	tx := NewServiceTransaction(ua.ReadService.Request, ua.ReadService.Response, nil, nil)
	tx.Originator = recv
	require.NoError(t, s.Send(tx))

	require.Eventually(t, func() bool { return ch.sentCount() >= 3 }, time.Second, time.Millisecond)
	handle := decodeRequestHandle(t, ch.lastSent())
	s.OnMessage(handle, encodeMessage(ua.ReadService.Response, ua.ResponseHeader{RequestHandle: handle}, nil))

	select {
	case got := <-received:
		require.Same(t, tx, got)
		require.NoError(t, got.Err())
	case <-time.After(time.Second):
		t.Fatal("transaction was never routed back")
	}
}

// TestSessionTransactionTimeout exercises scenario S5 (spec.md §8): a
// transaction whose deadline elapses before any response arrives
// completes with Timeout, using a FakeClock so no wall-clock sleep is
// needed to cross the deadline.
func TestSessionTransactionTimeout(t *testing.T) {
	ch := &fakeChannel{}
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, ch, clock)
	defer s.Close()
	driveToActive(t, s, ch)

	tx := NewServiceTransaction(ua.ReadService.Request, ua.ReadService.Response, nil, nil)
	require.NoError(t, s.Send(tx))
	require.Eventually(t, func() bool { return ch.sentCount() >= 3 }, time.Second, time.Millisecond)

	clock.BlockUntil(1)
	clock.Advance(s.cfg.TransactionTimeout + time.Millisecond)

	select {
	case <-tx.Done():
		require.ErrorIs(t, tx.Err(), ErrTimeout)
	case <-time.After(time.Second):
		t.Fatal("transaction never timed out")
	}
}

// TestSessionChannelDisconnectDrainsPending covers the "exactly one of
// {response routed, timeout, channel-closed} fires" mass-conservation
// property (spec.md §8, property 4) for the channel-closed branch.
func TestSessionChannelDisconnectDrainsPending(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch, clockwork.NewFakeClock())
	defer s.Close()
	driveToActive(t, s, ch)

	tx := NewServiceTransaction(ua.ReadService.Request, ua.ReadService.Response, nil, nil)
	require.NoError(t, s.Send(tx))
	require.Eventually(t, func() bool { return ch.sentCount() >= 3 }, time.Second, time.Millisecond)

	s.OnChannelDisconnected(ErrChannelClosed)

	select {
	case <-tx.Done():
		require.ErrorIs(t, tx.Err(), ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("transaction never completed on channel disconnect")
	}
	require.Equal(t, StateClosed, s.State())
}

type receiverFunc func(t *ServiceTransaction)

func (f receiverFunc) Receive(t *ServiceTransaction) { f(t) }
