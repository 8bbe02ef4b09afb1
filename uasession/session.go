package uasession

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/ulog"
)

// SecureChannel is the capability set a Session needs from its transport
// collaborator (spec.md §9: "capability sets... never deep inheritance").
// uacp.Channel (adapted via ChannelAdapter) is the production
// implementation; tests substitute a fake.
type SecureChannel interface {
	// Connect blocks until the channel is usable (Hello/Acknowledge plus
	// OpenSecureChannel) or returns a fatal error.
	Connect() error
	// Send writes one logical message tagged by requestId.
	Send(requestId uint32, body []byte) error
	// Close tears down the channel.
	Close() error
}

// Config configures a Session (spec.md §4.4, §6's endpoint/session
// configuration).
type Config struct {
	EndpointURL             string
	SessionName             string
	ApplicationDescription  ua.ApplicationDescription
	RequestedSessionTimeout time.Duration
	MaxResponseMessageSize  uint32
	Locale                  string
	PolicyId                string
	TransactionTimeout      time.Duration
}

func (c *Config) setDefaults() {
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.PolicyId == "" {
		c.PolicyId = "Anonymous"
	}
	if c.RequestedSessionTimeout == 0 {
		c.RequestedSessionTimeout = 120 * time.Second
	}
	if c.TransactionTimeout == 0 {
		c.TransactionTimeout = 3000 * time.Millisecond
	}
}

// Session implements the state machine and pending-transaction queue of
// spec.md §4.4. Every field below the constructor is touched only from
// the single reactor goroutine started by NewSession (spec.md §5);
// exported methods cross that boundary exclusively through the actions
// channel, matching the "thread-safe send queues and completion signals"
// concurrency model.
type Session struct {
	cfg     Config
	channel SecureChannel
	clock   clockwork.Clock
	logger  ulog.Logger
	metrics *Metrics

	actions  chan func()
	quit     chan struct{}
	quitOnce sync.Once

	// reactor-owned
	state         State
	requestHandle uint32
	authToken     ua.NodeId
	pending       *pendingTable
	services      map[ua.NodeId]Receiver
	createResult  CreateSessionResponse
}

// NewSession constructs a Session bound to channel. The reactor goroutine
// starts immediately; callers drive the lifecycle with CreateSession,
// ActivateSession, and Send.
func NewSession(cfg Config, channel SecureChannel, clock clockwork.Clock, logger ulog.Logger, metrics *Metrics) *Session {
	cfg.setDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Session{
		cfg:      cfg,
		channel:  channel,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		actions:  make(chan func(), 64),
		quit:     make(chan struct{}),
		pending:  newPendingTable(clock),
		services: make(map[ua.NodeId]Receiver),
	}
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case fn := <-s.actions:
			fn()
		case <-s.pending.timerChan():
			s.handleTimeout()
		case <-s.quit:
			return
		}
	}
}

// do enqueues fn to run on the reactor goroutine and returns immediately.
func (s *Session) do(fn func()) {
	select {
	case s.actions <- fn:
	case <-s.quit:
	}
}

// doSync enqueues fn and blocks until it runs (or the session is closed),
// returning its error. Used by every State-validated public operation so
// invalid-state responses are synchronous (spec.md §4.4's invariant).
func (s *Session) doSync(fn func() error) error {
	errc := make(chan error, 1)
	s.do(func() { errc <- fn() })
	select {
	case err := <-errc:
		return err
	case <-s.quit:
		return ua.Wrap(ua.KindLifecycle, ErrSessionClosed)
	}
}

func (s *Session) invalidState(op string) error {
	s.logger.Error("uasession: %s invalid in state %s", op, s.state)
	return ua.Wrap(ua.KindState, ErrInvalidState)
}

// CreateSession starts the session lifecycle (spec.md §4.4). Valid only
// in StateClosed.
func (s *Session) CreateSession() error {
	return s.doSync(func() error {
		if s.state != StateClosed {
			return s.invalidState("CreateSession")
		}
		s.transition(StateConnectingToSecureChannel)
		go s.connectChannel()
		return nil
	})
}

func (s *Session) connectChannel() {
	err := s.channel.Connect()
	s.do(func() {
		if err != nil {
			s.logger.Error("uasession: channel connect failed: %v", err)
			s.transition(StateClosed)
			return
		}
		s.onChannelConnected()
	})
}

// onChannelConnected is the SecureChannel -> Session event of spec.md
// §4.4.
func (s *Session) onChannelConnected() {
	if s.state != StateConnectingToSecureChannel {
		s.invalidState("onChannelConnected")
		return
	}
	s.transition(StateConnectedToSecureChannel)

	s.requestHandle++
	req := &CreateSessionRequest{
		ClientDescription:       s.cfg.ApplicationDescription,
		EndpointURL:             s.cfg.EndpointURL,
		SessionName:             s.cfg.SessionName,
		ClientNonce:             []byte{0x00},
		RequestedSessionTimeout: float64(s.cfg.RequestedSessionTimeout / time.Millisecond),
		MaxResponseMessageSize:  s.cfg.MaxResponseMessageSize,
	}
	hdr := ua.RequestHeader{Timestamp: s.clock.Now(), RequestHandle: s.requestHandle}

	e := ua.NewEncoder()
	_ = e.EncodeNodeId(ua.CreateSessionService.Request)
	e.EncodeRequestHeader(hdr)
	req.Encode(e)
	if err := e.Err(); err != nil {
		s.logger.Error("uasession: encoding CreateSessionRequest: %v", err)
		return
	}
	if err := s.channel.Send(s.requestHandle, e.Bytes()); err != nil {
		s.logger.Error("uasession: sending CreateSessionRequest: %v", err)
		return
	}
	s.transition(StateSendCreateSession)
}

// ActivateSession builds and sends ActivateSessionRequest (spec.md
// §4.4). Valid only in StateReceiveCreateSession.
func (s *Session) ActivateSession() error {
	return s.doSync(func() error {
		if s.state != StateReceiveCreateSession {
			return s.invalidState("ActivateSession")
		}
		policyId := s.cfg.PolicyId
	endpoints:
		for _, ep := range s.createResult.ServerEndpoints {
			for _, p := range ep.UserIdentityTokens {
				if p.TokenType == ua.UserTokenTypeAnonymous && p.PolicyId != "" {
					policyId = p.PolicyId
					break endpoints
				}
			}
		}
		token := &ua.AnonymousIdentityToken{PolicyId: policyId}
		tokenEnc := ua.NewEncoder()
		token.Encode(tokenEnc)
		req := &ActivateSessionRequest{
			LocaleIds: []string{s.cfg.Locale},
			UserIdentityToken: ua.ExtensionObject{
				TypeId:   anonymousIdentityTokenTypeId,
				Encoding: ua.ExtensionEncodingBinary,
				Raw:      tokenEnc.Bytes(),
			},
		}
		s.requestHandle++
		hdr := ua.RequestHeader{
			AuthenticationToken: s.authToken,
			Timestamp:           s.clock.Now(),
			RequestHandle:       s.requestHandle,
		}
		e := ua.NewEncoder()
		_ = e.EncodeNodeId(ua.ActivateSessionService.Request)
		e.EncodeRequestHeader(hdr)
		req.Encode(e)
		if err := e.Err(); err != nil {
			return ua.Wrap(ua.KindCodec, err)
		}
		if err := s.channel.Send(s.requestHandle, e.Bytes()); err != nil {
			return err
		}
		s.transition(StateSendActivateSession)
		return nil
	})
}

// anonymousIdentityTokenTypeId is a placeholder binary-encoding type id
// for AnonymousIdentityToken (companion spec part 4, the real numeric id
// is outside this core's tabulated ServiceID set — see DESIGN.md).
var anonymousIdentityTokenTypeId = ua.NewNumericNodeId(0, 319)

// Send assigns a request handle, stamps the authentication token, encodes
// and writes t (spec.md §4.4). Valid only in StateReceiveActivateSession.
// Send is asynchronous: it returns once the bytes are queued with the
// channel, not once a response arrives — callers await t.Done() for that.
func (s *Session) Send(t *ServiceTransaction) error {
	return s.doSync(func() error {
		if s.state != StateReceiveActivateSession {
			return s.invalidState("Send")
		}
		s.requestHandle++
		t.RequestHandle = s.requestHandle
		t.TransactionId = s.requestHandle
		if t.Deadline.IsZero() {
			t.Deadline = s.clock.Now().Add(s.cfg.TransactionTimeout)
		}

		hdr := ua.RequestHeader{
			AuthenticationToken: s.authToken,
			Timestamp:           s.clock.Now(),
			RequestHandle:       t.RequestHandle,
		}
		e := ua.NewEncoder()
		_ = e.EncodeNodeId(t.RequestTypeId)
		e.EncodeRequestHeader(hdr)
		if t.Request != nil {
			t.Request.Encode(e)
		}
		if err := e.Err(); err != nil {
			return ua.Wrap(ua.KindCodec, err)
		}
		s.pending.insert(t)
		s.metrics.setPending(s.pending.len())
		if err := s.channel.Send(t.RequestHandle, e.Bytes()); err != nil {
			s.pending.remove(t.RequestHandle)
			s.metrics.setPending(s.pending.len())
			return err
		}
		return nil
	})
}

// RegisterService routes future responses of typeId to component
// (spec.md §4.4). Fails with ErrDuplicateService if typeId is already
// registered.
func (s *Session) RegisterService(typeId ua.NodeId, component Receiver) error {
	return s.doSync(func() error {
		if _, exists := s.services[typeId]; exists {
			return ua.Wrap(ua.KindConfiguration, ErrDuplicateService)
		}
		s.services[typeId] = component
		return nil
	})
}

// DeregisterService removes a prior RegisterService route.
func (s *Session) DeregisterService(typeId ua.NodeId) {
	s.do(func() { delete(s.services, typeId) })
}

// State returns the session's current state (safe from any goroutine).
func (s *Session) State() State {
	resc := make(chan State, 1)
	s.do(func() { resc <- s.state })
	select {
	case st := <-resc:
		return st
	case <-s.quit:
		return StateClosed
	}
}

func (s *Session) transition(to State) {
	s.logger.Debug("uasession: %s -> %s", s.state, to)
	s.state = to
}

// OnMessage is the SecureChannel -> Session event for a decoded logical
// message (spec.md §4.4's onMessage(typeId, bytes)). Wire callers invoke
// this from the Channel's read loop; it re-enters the reactor via the
// actions queue so all state mutation stays single-threaded.
func (s *Session) OnMessage(requestId uint32, body []byte) {
	s.do(func() { s.handleMessage(body) })
}

func (s *Session) handleMessage(body []byte) {
	d := ua.NewDecoder(body)
	typeId, err := d.DecodeNodeId()
	if err != nil {
		s.logger.Error("uasession: decoding message type id: %v", err)
		return
	}
	switch typeId {
	case ua.CreateSessionService.Response:
		s.handleCreateSessionResponse(d)
	case ua.ActivateSessionService.Response:
		s.handleActivateSessionResponse(d)
	default:
		s.handleServiceResponse(typeId, d)
	}
}

func (s *Session) handleCreateSessionResponse(d *ua.Decoder) {
	if s.state != StateSendCreateSession {
		s.invalidState("CreateSessionResponse")
		return
	}
	if _, err := d.DecodeResponseHeader(); err != nil {
		s.logger.Error("uasession: decoding CreateSessionResponse header: %v", err)
		return
	}
	var resp CreateSessionResponse
	if err := resp.Decode(d); err != nil {
		s.logger.Error("uasession: decoding CreateSessionResponse: %v", err)
		return
	}
	s.createResult = resp
	s.authToken = resp.AuthenticationToken
	s.transition(StateReceiveCreateSession)
}

func (s *Session) handleActivateSessionResponse(d *ua.Decoder) {
	if s.state != StateSendActivateSession {
		s.invalidState("ActivateSessionResponse")
		return
	}
	if _, err := d.DecodeResponseHeader(); err != nil {
		s.logger.Error("uasession: decoding ActivateSessionResponse header: %v", err)
		return
	}
	var resp ActivateSessionResponse
	if err := resp.Decode(d); err != nil {
		s.logger.Error("uasession: decoding ActivateSessionResponse: %v", err)
		return
	}
	s.transition(StateReceiveActivateSession)
}

// handleServiceResponse implements spec.md §4.4's "any other typeId is
// treated as a service response" path: decode the ResponseHeader, pop the
// pending table by requestHandle, decode the response body into the
// transaction, and route it. A miss (stale/duplicate response) is logged
// and the remaining bytes discarded — not fatal.
func (s *Session) handleServiceResponse(typeId ua.NodeId, d *ua.Decoder) {
	hdr, err := d.DecodeResponseHeader()
	if err != nil {
		s.logger.Error("uasession: decoding ResponseHeader for %s: %v", typeId, err)
		return
	}
	t := s.pending.remove(hdr.RequestHandle)
	s.metrics.setPending(s.pending.len())
	if t == nil {
		s.logger.Warn("uasession: no pending transaction for request handle %d (type %s)", hdr.RequestHandle, typeId)
		return
	}
	t.Result = hdr.ServiceResult
	if t.Response != nil {
		if err := t.Response.Decode(d); err != nil {
			s.logger.Error("uasession: decoding response body for %s: %v", typeId, err)
			t.complete(ua.Wrap(ua.KindCodec, err))
			s.route(t)
			s.metrics.observe(outcomeRouted)
			return
		}
	}
	var completionErr error
	if hdr.ServiceResult.IsBad() {
		completionErr = ua.Wrap(ua.KindService, fmt.Errorf("service result %s", hdr.ServiceResult))
	}
	t.complete(completionErr)
	s.metrics.observe(outcomeRouted)
	s.route(t)
}

func (s *Session) route(t *ServiceTransaction) {
	if t.Originator != nil {
		t.Originator.Receive(t)
		return
	}
	if recv, ok := s.services[t.ResponseTypeId]; ok {
		recv.Receive(t)
		return
	}
	s.logger.Warn("uasession: no route for response type %s, dropping", t.ResponseTypeId)
}

func (s *Session) handleTimeout() {
	for _, t := range s.pending.expired() {
		s.logger.Debug("uasession: transaction %d timed out", t.RequestHandle)
		t.complete(ua.Wrap(ua.KindTimeout, ErrTimeout))
		s.metrics.observe(outcomeTimeout)
		s.route(t)
	}
	s.metrics.setPending(s.pending.len())
}

// OnChannelDisconnected is the SecureChannel -> Session disconnect event
// (spec.md §4.4): the session transitions to Closed and every pending
// transaction fails with ChannelClosed.
func (s *Session) OnChannelDisconnected(cause error) {
	s.do(func() {
		s.transition(StateClosed)
		for _, t := range s.pending.drain() {
			t.complete(ua.Wrap(ua.KindLifecycle, ErrChannelClosed))
			s.metrics.observe(outcomeChannelClosed)
			s.route(t)
		}
		s.metrics.setPending(0)
	})
}

// Close stops the reactor goroutine and closes the underlying channel.
// Idempotent.
func (s *Session) Close() error {
	var err error
	s.quitOnce.Do(func() {
		err = s.channel.Close()
		close(s.quit)
	})
	return err
}
