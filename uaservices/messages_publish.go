package uaservices

import "github.com/rob-gra/go-opcua/ua"

// SubscriptionAcknowledgement tells the server a sequence number has
// been delivered and its notification can be freed (companion spec
// part 4, subclass 5.13.5.2).
type SubscriptionAcknowledgement struct {
	SubscriptionId uint32
	SequenceNumber uint32
}

func (s *SubscriptionAcknowledgement) Encode(e *ua.Encoder) {
	e.EncodeUint32(s.SubscriptionId)
	e.EncodeUint32(s.SequenceNumber)
}

func (s *SubscriptionAcknowledgement) Decode(d *ua.Decoder) error {
	var err error
	if s.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	if s.SequenceNumber, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// MonitoredItemNotification carries one reported DataValue, keyed by
// the ClientHandle the caller supplied at CreateMonitoredItems time
// (companion spec part 4, subclass 7.21.2).
type MonitoredItemNotification struct {
	ClientHandle uint32
	Value        ua.DataValue
}

func (m *MonitoredItemNotification) Encode(e *ua.Encoder) {
	e.EncodeUint32(m.ClientHandle)
	e.EncodeDataValue(m.Value)
}

func (m *MonitoredItemNotification) Decode(d *ua.Decoder) error {
	var err error
	if m.ClientHandle, err = d.DecodeUint32(); err != nil {
		return err
	}
	if m.Value, err = d.DecodeDataValue(); err != nil {
		return err
	}
	return d.Err()
}

// NotificationMessage batches the DataChange notifications of one
// publishing cycle (companion spec part 4, subclass 7.20.2; EventList
// and StatusChange notification kinds are out of scope, matching
// spec.md's Non-goal on event subscriptions).
type NotificationMessage struct {
	SequenceNumber uint32
	PublishTime    ua.DataValue // only its ServerTimestamp is encoded; Value/Status are always unset
	DataChanges    []MonitoredItemNotification
}

func (n *NotificationMessage) Encode(e *ua.Encoder) {
	e.EncodeUint32(n.SequenceNumber)
	e.EncodeInt64(ua.DateTimeToTicks(n.PublishTime.ServerTimestamp))
	e.EncodeInt32(int32(len(n.DataChanges)))
	for i := range n.DataChanges {
		n.DataChanges[i].Encode(e)
	}
}

func (n *NotificationMessage) Decode(d *ua.Decoder) error {
	var err error
	if n.SequenceNumber, err = d.DecodeUint32(); err != nil {
		return err
	}
	ticks, err := d.DecodeInt64()
	if err != nil {
		return err
	}
	n.PublishTime.ServerTimestamp = ua.TicksToDateTime(ticks)
	count, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if count > 0 {
		n.DataChanges = make([]MonitoredItemNotification, count)
		for i := range n.DataChanges {
			if err := n.DataChanges[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// PublishRequest acknowledges prior notifications and opens a new
// publish slot the server may hold until it has data to report
// (companion spec part 4, subclass 5.13.5.2).
type PublishRequest struct {
	SubscriptionAcknowledgements []SubscriptionAcknowledgement
}

func (p *PublishRequest) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(p.SubscriptionAcknowledgements)))
	for i := range p.SubscriptionAcknowledgements {
		p.SubscriptionAcknowledgements[i].Encode(e)
	}
}

func (p *PublishRequest) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		p.SubscriptionAcknowledgements = make([]SubscriptionAcknowledgement, n)
		for i := range p.SubscriptionAcknowledgements {
			if err := p.SubscriptionAcknowledgements[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// PublishResponse carries one subscription's notifications along with
// any sequence numbers the server is dropping as stale.
type PublishResponse struct {
	SubscriptionId           uint32
	AvailableSequenceNumbers []uint32
	MoreNotifications        bool
	NotificationMessage      NotificationMessage
	Results                  []ua.StatusCode
}

func (p *PublishResponse) Encode(e *ua.Encoder) {
	e.EncodeUint32(p.SubscriptionId)
	e.EncodeInt32(int32(len(p.AvailableSequenceNumbers)))
	for _, n := range p.AvailableSequenceNumbers {
		e.EncodeUint32(n)
	}
	e.EncodeBoolean(p.MoreNotifications)
	p.NotificationMessage.Encode(e)
	e.EncodeInt32(int32(len(p.Results)))
	for _, s := range p.Results {
		e.EncodeUint32(uint32(s))
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested
}

func (p *PublishResponse) Decode(d *ua.Decoder) error {
	var err error
	if p.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		p.AvailableSequenceNumbers = make([]uint32, n)
		for i := range p.AvailableSequenceNumbers {
			if p.AvailableSequenceNumbers[i], err = d.DecodeUint32(); err != nil {
				return err
			}
		}
	}
	if p.MoreNotifications, err = d.DecodeBoolean(); err != nil {
		return err
	}
	if err := p.NotificationMessage.Decode(d); err != nil {
		return err
	}
	m, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if m > 0 {
		p.Results = make([]ua.StatusCode, m)
		for i := range p.Results {
			v, err := d.DecodeUint32()
			if err != nil {
				return err
			}
			p.Results[i] = ua.StatusCode(v)
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// RepublishRequest asks the server to resend one notification message
// still held in its retransmission queue.
type RepublishRequest struct {
	SubscriptionId uint32
	RetransmitSequenceNumber uint32
}

func (r *RepublishRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(r.SubscriptionId)
	e.EncodeUint32(r.RetransmitSequenceNumber)
}

func (r *RepublishRequest) Decode(d *ua.Decoder) error {
	var err error
	if r.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	if r.RetransmitSequenceNumber, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// RepublishResponse answers RepublishRequest with the retained message.
type RepublishResponse struct {
	NotificationMessage NotificationMessage
}

func (r *RepublishResponse) Encode(e *ua.Encoder) {
	r.NotificationMessage.Encode(e)
}

func (r *RepublishResponse) Decode(d *ua.Decoder) error {
	if err := r.NotificationMessage.Decode(d); err != nil {
		return err
	}
	return d.Err()
}
