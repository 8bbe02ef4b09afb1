package uasession

import (
	"sync"
	"time"

	"github.com/rob-gra/go-opcua/ua"
)

// Receiver is the routing target for a completed ServiceTransaction
// (spec.md §4.5): a ServiceSet façade that stamped itself as the
// OriginatingComponent when it handed the transaction to the Session.
type Receiver interface {
	Receive(t *ServiceTransaction)
}

// ServiceTransaction pairs a request/response with the bookkeeping the
// Session needs to correlate, time out, and route it (spec.md §3). The
// completion signal is a close-once channel — the Go rendering of the
// source's ConditionBool latch (spec.md §9) — so both a blocking
// sendSync caller and an async Receive callback observe exactly one
// completion.
type ServiceTransaction struct {
	RequestTypeId  ua.NodeId
	ResponseTypeId ua.NodeId
	Request        ua.Payload
	Response       ua.Payload

	TransactionId uint32
	RequestHandle uint32
	Deadline      time.Time
	Sync          bool

	// Originator receives this transaction once the Session has routed
	// it (spec.md §4.5's receive()); nil means the Session falls back to
	// its type-registered ServiceSet map.
	Originator Receiver

	// Result is the ServiceResult of the response header, set when a
	// response arrives. The Session decodes Response from the body
	// whatever Result is; a Bad Result completes the transaction with a
	// KindService error. On timeout or channel close it stays zero.
	Result ua.StatusCode

	done chan struct{}
	once sync.Once
	err  error
}

// NewServiceTransaction builds a transaction ready to hand to Session.Send.
func NewServiceTransaction(requestTypeId, responseTypeId ua.NodeId, request, response ua.Payload) *ServiceTransaction {
	return &ServiceTransaction{
		RequestTypeId:  requestTypeId,
		ResponseTypeId: responseTypeId,
		Request:        request,
		Response:       response,
		done:           make(chan struct{}),
	}
}

// IsSync reports whether the caller is blocked on Done() from a non-
// reactor thread (spec.md §4.5).
func (t *ServiceTransaction) IsSync() bool { return t.Sync }

// Done returns the channel that closes exactly once, when the
// transaction matures, times out, or the channel closes (spec.md §8,
// property 4).
func (t *ServiceTransaction) Done() <-chan struct{} { return t.done }

// Err returns the terminal error, if any. Valid only after Done() has
// fired.
func (t *ServiceTransaction) Err() error { return t.err }

// complete signals completion exactly once; subsequent calls are no-ops,
// so a racing timeout-vs-response pair can never double-fire (spec.md
// §8, property 4: "exactly one of {response routed, timeout,
// channel-closed} fires exactly once").
func (t *ServiceTransaction) complete(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}
