package uasession

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// pendingTable is the ordered map of spec.md §3 ("Pending table"), keyed
// by requestHandle. It is exclusive to the reactor goroutine (spec.md
// §5) — nothing here takes a lock, because nothing outside the Session's
// run loop ever touches it. Deadlines are driven by an injected
// clockwork.Clock rather than time.AfterFunc so scenario S5 (spec.md §8)
// and the mass-conservation property can run against a clockwork.FakeClock
// with no wall-clock sleeps.
type pendingTable struct {
	clock clockwork.Clock
	items map[uint32]*ServiceTransaction
	timer clockwork.Timer
}

func newPendingTable(clock clockwork.Clock) *pendingTable {
	return &pendingTable{clock: clock, items: make(map[uint32]*ServiceTransaction)}
}

// insert adds t under its RequestHandle and reschedules the deadline
// timer if needed.
func (p *pendingTable) insert(t *ServiceTransaction) {
	p.items[t.RequestHandle] = t
	p.rescheduleEarliest()
}

// remove pops and returns the transaction for handle, or nil if absent (a
// stale/duplicate response, spec.md §4.4).
func (p *pendingTable) remove(handle uint32) *ServiceTransaction {
	t, ok := p.items[handle]
	if !ok {
		return nil
	}
	delete(p.items, handle)
	p.rescheduleEarliest()
	return t
}

func (p *pendingTable) len() int { return len(p.items) }

// timerChan exposes the deadline timer's fire channel. It is nil until the
// first insert; once the table empties the timer is stopped, so its
// channel does not fire.
func (p *pendingTable) timerChan() <-chan time.Time {
	if p.timer == nil {
		return nil
	}
	return p.timer.Chan()
}

// expired pops every transaction whose deadline is at or before the
// clock's current time and reschedules for the next-earliest remaining
// deadline.
func (p *pendingTable) expired() []*ServiceTransaction {
	now := p.clock.Now()
	var out []*ServiceTransaction
	for handle, t := range p.items {
		if !t.Deadline.After(now) {
			out = append(out, t)
			delete(p.items, handle)
		}
	}
	p.rescheduleEarliest()
	return out
}

// drain removes and returns every pending transaction (spec.md §4.4's
// onChannelDisconnected: "all pending transactions are failed").
func (p *pendingTable) drain() []*ServiceTransaction {
	out := make([]*ServiceTransaction, 0, len(p.items))
	for handle, t := range p.items {
		out = append(out, t)
		delete(p.items, handle)
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	return out
}

func (p *pendingTable) rescheduleEarliest() {
	if len(p.items) == 0 {
		if p.timer != nil {
			p.timer.Stop()
		}
		return
	}
	first := true
	var earliest time.Time
	for _, t := range p.items {
		if first || t.Deadline.Before(earliest) {
			earliest = t.Deadline
			first = false
		}
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	d := earliest.Sub(p.clock.Now())
	if d < 0 {
		d = 0
	}
	p.timer = p.clock.NewTimer(d)
}
