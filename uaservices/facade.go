// Package uaservices implements the per-service-family façades of
// spec.md §4.5: each family exposes an async send alongside a
// context-bound sendSync that blocks on the transaction's completion
// signal. Every façade is a thin wrapper over uasession.Session.Send —
// none of them touch Session state directly.
package uaservices

import (
	"context"
	"sync"

	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/uasession"
	"github.com/rob-gra/go-opcua/ulog"
)

// facadeState is the mutable part of a Facade, held behind a pointer so
// every copy of the value-typed Facade embedded in a service family
// shares one handler table.
type facadeState struct {
	mu       sync.Mutex
	handlers map[ua.NodeId]func(*uasession.ServiceTransaction)
}

// Facade is embedded by every service family to share send/sendSync and
// the receive() dispatch of spec.md §4.5.
type Facade struct {
	session *uasession.Session
	logger  ulog.Logger
	state   *facadeState
}

// New wraps session for a service family façade.
func New(session *uasession.Session) Facade {
	return Facade{
		session: session,
		logger:  ulog.New(nil),
		state:   &facadeState{handlers: make(map[ua.NodeId]func(*uasession.ServiceTransaction))},
	}
}

// send builds a ServiceTransaction for (req, resp), names the façade as
// its Originator, and hands it to the Session asynchronously (spec.md
// §4.5). Naming Originator here and in sendSync is what lets Receive
// dispatch the async branch without a registry lookup in Session.
func (f Facade) send(reqType, respType ua.NodeId, req, resp ua.Payload) (*uasession.ServiceTransaction, error) {
	t := uasession.NewServiceTransaction(reqType, respType, req, resp)
	t.Originator = f
	if err := f.session.Send(t); err != nil {
		return nil, err
	}
	return t, nil
}

// sendSync sends and blocks until the transaction completes or ctx is
// done, whichever comes first (spec.md §4.5's sync/async duality). A
// caller invoking this from the Session's own reactor goroutine would
// deadlock the transaction it is waiting on — that is the "reentrancy
// sanity check" invariant of spec.md §4.5: sendSync is for application
// goroutines only, never for a Receive callback.
func (f Facade) sendSync(ctx context.Context, reqType, respType ua.NodeId, req, resp ua.Payload) error {
	t := uasession.NewServiceTransaction(reqType, respType, req, resp)
	t.Originator = f
	t.Sync = true
	if err := f.session.Send(t); err != nil {
		return err
	}
	select {
	case <-t.Done():
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// onResponse registers handler as the callback fired when an async
// transaction whose ResponseTypeId is responseType completes. Only the
// last registration for a given type wins, matching the one-callback-
// per-response-family shape of the OPC UA stack this is ported from
// (spec.md §4.5).
func (f Facade) onResponse(responseType ua.NodeId, handler func(*uasession.ServiceTransaction)) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.handlers[responseType] = handler
}

// Receive implements uasession.Receiver, fulfilling spec.md §4.5's
// receive(message) operation. The Session has already closed the
// transaction's Done() channel before routing here, so a sync caller
// blocked in sendSync has already woken up — the sync branch has
// nothing left to do. The async branch dispatches by ResponseTypeId to
// a callback registered through onResponse; an unregistered type is
// logged and dropped, mirroring the default: branch of
// OpcUaStackClient's ServiceSet receive() switch.
func (f Facade) Receive(t *uasession.ServiceTransaction) {
	if t.IsSync() {
		return
	}
	f.state.mu.Lock()
	handler, ok := f.state.handlers[t.ResponseTypeId]
	f.state.mu.Unlock()
	if !ok {
		f.logger.Warn("uaservices: no async handler for response type %s, dropping", t.ResponseTypeId)
		return
	}
	handler(t)
}
