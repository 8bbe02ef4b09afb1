package uaservices

import "github.com/rob-gra/go-opcua/ua"

// MonitoringMode controls whether sampled changes are queued for
// reporting (companion spec part 4, subclass 7.20).
type MonitoringMode int32

const (
	MonitoringDisabled MonitoringMode = iota
	MonitoringSampling
	MonitoringReporting
)

// MonitoringParameters tunes one monitored item's sampling and queueing
// behavior (companion spec part 4, subclass 5.12.2.2).
type MonitoringParameters struct {
	ClientHandle     uint32
	SamplingInterval float64
	QueueSize        uint32
	DiscardOldest    bool
}

func (m *MonitoringParameters) Encode(e *ua.Encoder) {
	e.EncodeUint32(m.ClientHandle)
	e.EncodeDouble(m.SamplingInterval)
	e.EncodeInt32(0) // Filter: ExtensionObject, none used by any scenario here
	e.EncodeUint32(m.QueueSize)
	e.EncodeBoolean(m.DiscardOldest)
}

func (m *MonitoringParameters) Decode(d *ua.Decoder) error {
	var err error
	if m.ClientHandle, err = d.DecodeUint32(); err != nil {
		return err
	}
	if m.SamplingInterval, err = d.DecodeDouble(); err != nil {
		return err
	}
	if _, err = d.DecodeInt32(); err != nil { // Filter encoding length, discarded
		return err
	}
	if m.QueueSize, err = d.DecodeUint32(); err != nil {
		return err
	}
	if m.DiscardOldest, err = d.DecodeBoolean(); err != nil {
		return err
	}
	return d.Err()
}

// MonitoredItemCreateRequest names the node/attribute to monitor and
// the parameters governing its reports.
type MonitoredItemCreateRequest struct {
	ItemToMonitor     ReadValueId
	MonitoringMode    MonitoringMode
	RequestedParameters MonitoringParameters
}

func (m *MonitoredItemCreateRequest) Encode(e *ua.Encoder) {
	m.ItemToMonitor.Encode(e)
	e.EncodeInt32(int32(m.MonitoringMode))
	m.RequestedParameters.Encode(e)
}

func (m *MonitoredItemCreateRequest) Decode(d *ua.Decoder) error {
	if err := m.ItemToMonitor.Decode(d); err != nil {
		return err
	}
	mode, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	m.MonitoringMode = MonitoringMode(mode)
	if err := m.RequestedParameters.Decode(d); err != nil {
		return err
	}
	return d.Err()
}

// MonitoredItemCreateResult answers one MonitoredItemCreateRequest.
type MonitoredItemCreateResult struct {
	StatusCode               ua.StatusCode
	MonitoredItemId          uint32
	RevisedSamplingInterval  float64
	RevisedQueueSize         uint32
}

func (m *MonitoredItemCreateResult) Encode(e *ua.Encoder) {
	e.EncodeUint32(uint32(m.StatusCode))
	e.EncodeUint32(m.MonitoredItemId)
	e.EncodeDouble(m.RevisedSamplingInterval)
	e.EncodeUint32(m.RevisedQueueSize)
	e.EncodeInt32(0) // Filter result: none requested
}

func (m *MonitoredItemCreateResult) Decode(d *ua.Decoder) error {
	sc, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	m.StatusCode = ua.StatusCode(sc)
	if m.MonitoredItemId, err = d.DecodeUint32(); err != nil {
		return err
	}
	if m.RevisedSamplingInterval, err = d.DecodeDouble(); err != nil {
		return err
	}
	if m.RevisedQueueSize, err = d.DecodeUint32(); err != nil {
		return err
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// CreateMonitoredItemsRequest attaches one or more monitored items to
// an existing subscription.
type CreateMonitoredItemsRequest struct {
	SubscriptionId     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToCreate      []MonitoredItemCreateRequest
}

func (c *CreateMonitoredItemsRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(c.SubscriptionId)
	e.EncodeInt32(int32(c.TimestampsToReturn))
	e.EncodeInt32(int32(len(c.ItemsToCreate)))
	for i := range c.ItemsToCreate {
		c.ItemsToCreate[i].Encode(e)
	}
}

func (c *CreateMonitoredItemsRequest) Decode(d *ua.Decoder) error {
	var err error
	if c.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	tr, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	c.TimestampsToReturn = TimestampsToReturn(tr)
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		c.ItemsToCreate = make([]MonitoredItemCreateRequest, n)
		for i := range c.ItemsToCreate {
			if err := c.ItemsToCreate[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// CreateMonitoredItemsResponse answers CreateMonitoredItemsRequest with
// one result per ItemsToCreate entry, in the same order.
type CreateMonitoredItemsResponse struct {
	Results []MonitoredItemCreateResult
}

func (c *CreateMonitoredItemsResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(c.Results)))
	for i := range c.Results {
		c.Results[i].Encode(e)
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested
}

func (c *CreateMonitoredItemsResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		c.Results = make([]MonitoredItemCreateResult, n)
		for i := range c.Results {
			if err := c.Results[i].Decode(d); err != nil {
				return err
			}
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// MonitoredItemModifyRequest changes the parameters of one existing
// monitored item.
type MonitoredItemModifyRequest struct {
	MonitoredItemId     uint32
	RequestedParameters MonitoringParameters
}

func (m *MonitoredItemModifyRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(m.MonitoredItemId)
	m.RequestedParameters.Encode(e)
}

func (m *MonitoredItemModifyRequest) Decode(d *ua.Decoder) error {
	var err error
	if m.MonitoredItemId, err = d.DecodeUint32(); err != nil {
		return err
	}
	if err := m.RequestedParameters.Decode(d); err != nil {
		return err
	}
	return d.Err()
}

// ModifyMonitoredItemsRequest changes one or more monitored items
// belonging to SubscriptionId.
type ModifyMonitoredItemsRequest struct {
	SubscriptionId     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToModify      []MonitoredItemModifyRequest
}

func (m *ModifyMonitoredItemsRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(m.SubscriptionId)
	e.EncodeInt32(int32(m.TimestampsToReturn))
	e.EncodeInt32(int32(len(m.ItemsToModify)))
	for i := range m.ItemsToModify {
		m.ItemsToModify[i].Encode(e)
	}
}

func (m *ModifyMonitoredItemsRequest) Decode(d *ua.Decoder) error {
	var err error
	if m.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	tr, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	m.TimestampsToReturn = TimestampsToReturn(tr)
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		m.ItemsToModify = make([]MonitoredItemModifyRequest, n)
		for i := range m.ItemsToModify {
			if err := m.ItemsToModify[i].Decode(d); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// MonitoredItemModifyResult answers one MonitoredItemModifyRequest.
type MonitoredItemModifyResult struct {
	StatusCode              ua.StatusCode
	RevisedSamplingInterval float64
	RevisedQueueSize        uint32
}

func (m *MonitoredItemModifyResult) Encode(e *ua.Encoder) {
	e.EncodeUint32(uint32(m.StatusCode))
	e.EncodeDouble(m.RevisedSamplingInterval)
	e.EncodeUint32(m.RevisedQueueSize)
	e.EncodeInt32(0)
}

func (m *MonitoredItemModifyResult) Decode(d *ua.Decoder) error {
	sc, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	m.StatusCode = ua.StatusCode(sc)
	if m.RevisedSamplingInterval, err = d.DecodeDouble(); err != nil {
		return err
	}
	if m.RevisedQueueSize, err = d.DecodeUint32(); err != nil {
		return err
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// ModifyMonitoredItemsResponse answers ModifyMonitoredItemsRequest.
type ModifyMonitoredItemsResponse struct {
	Results []MonitoredItemModifyResult
}

func (m *ModifyMonitoredItemsResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(m.Results)))
	for i := range m.Results {
		m.Results[i].Encode(e)
	}
	e.EncodeInt32(0)
}

func (m *ModifyMonitoredItemsResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		m.Results = make([]MonitoredItemModifyResult, n)
		for i := range m.Results {
			if err := m.Results[i].Decode(d); err != nil {
				return err
			}
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// DeleteMonitoredItemsRequest removes one or more monitored items from
// a subscription.
type DeleteMonitoredItemsRequest struct {
	SubscriptionId   uint32
	MonitoredItemIds []uint32
}

func (d *DeleteMonitoredItemsRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(d.SubscriptionId)
	e.EncodeInt32(int32(len(d.MonitoredItemIds)))
	for _, id := range d.MonitoredItemIds {
		e.EncodeUint32(id)
	}
}

func (r *DeleteMonitoredItemsRequest) Decode(d *ua.Decoder) error {
	var err error
	if r.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.MonitoredItemIds = make([]uint32, n)
		for i := range r.MonitoredItemIds {
			if r.MonitoredItemIds[i], err = d.DecodeUint32(); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// DeleteMonitoredItemsResponse answers DeleteMonitoredItemsRequest with
// one StatusCode per MonitoredItemIds entry, in the same order.
type DeleteMonitoredItemsResponse struct {
	Results []ua.StatusCode
}

func (r *DeleteMonitoredItemsResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(r.Results)))
	for _, s := range r.Results {
		e.EncodeUint32(uint32(s))
	}
	e.EncodeInt32(0)
}

func (r *DeleteMonitoredItemsResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.Results = make([]ua.StatusCode, n)
		for i := range r.Results {
			v, err := d.DecodeUint32()
			if err != nil {
				return err
			}
			r.Results[i] = ua.StatusCode(v)
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}

// SetMonitoringModeRequest changes the MonitoringMode of one or more
// monitored items belonging to SubscriptionId (companion spec part 4,
// subclass 5.12.5.2).
type SetMonitoringModeRequest struct {
	SubscriptionId   uint32
	MonitoringMode   MonitoringMode
	MonitoredItemIds []uint32
}

func (s *SetMonitoringModeRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(s.SubscriptionId)
	e.EncodeInt32(int32(s.MonitoringMode))
	e.EncodeInt32(int32(len(s.MonitoredItemIds)))
	for _, id := range s.MonitoredItemIds {
		e.EncodeUint32(id)
	}
}

func (s *SetMonitoringModeRequest) Decode(d *ua.Decoder) error {
	var err error
	if s.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	mode, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	s.MonitoringMode = MonitoringMode(mode)
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		s.MonitoredItemIds = make([]uint32, n)
		for i := range s.MonitoredItemIds {
			if s.MonitoredItemIds[i], err = d.DecodeUint32(); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// SetMonitoringModeResponse answers SetMonitoringModeRequest.
type SetMonitoringModeResponse struct {
	Results []ua.StatusCode
}

func (s *SetMonitoringModeResponse) Encode(e *ua.Encoder) {
	(*DeleteMonitoredItemsResponse)(s).Encode(e)
}

func (s *SetMonitoringModeResponse) Decode(d *ua.Decoder) error {
	return (*DeleteMonitoredItemsResponse)(s).Decode(d)
}

// LinksToAdd/LinksToRemove select which triggered items change;
// TriggeringItemId names the triggering item they attach to
// (companion spec part 4, subclass 5.12.6.2).
type SetTriggeringRequest struct {
	SubscriptionId    uint32
	TriggeringItemId  uint32
	LinksToAdd        []uint32
	LinksToRemove     []uint32
}

func (s *SetTriggeringRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(s.SubscriptionId)
	e.EncodeUint32(s.TriggeringItemId)
	e.EncodeInt32(int32(len(s.LinksToAdd)))
	for _, id := range s.LinksToAdd {
		e.EncodeUint32(id)
	}
	e.EncodeInt32(int32(len(s.LinksToRemove)))
	for _, id := range s.LinksToRemove {
		e.EncodeUint32(id)
	}
}

func (s *SetTriggeringRequest) Decode(d *ua.Decoder) error {
	var err error
	if s.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	if s.TriggeringItemId, err = d.DecodeUint32(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		s.LinksToAdd = make([]uint32, n)
		for i := range s.LinksToAdd {
			if s.LinksToAdd[i], err = d.DecodeUint32(); err != nil {
				return err
			}
		}
	}
	m, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if m > 0 {
		s.LinksToRemove = make([]uint32, m)
		for i := range s.LinksToRemove {
			if s.LinksToRemove[i], err = d.DecodeUint32(); err != nil {
				return err
			}
		}
	}
	return d.Err()
}

// SetTriggeringResponse reports which links were accepted.
type SetTriggeringResponse struct {
	AddResults    []ua.StatusCode
	RemoveResults []ua.StatusCode
}

func (s *SetTriggeringResponse) Encode(e *ua.Encoder) {
	e.EncodeInt32(int32(len(s.AddResults)))
	for _, c := range s.AddResults {
		e.EncodeUint32(uint32(c))
	}
	e.EncodeInt32(0) // add DiagnosticInfos: never requested
	e.EncodeInt32(int32(len(s.RemoveResults)))
	for _, c := range s.RemoveResults {
		e.EncodeUint32(uint32(c))
	}
	e.EncodeInt32(0) // remove DiagnosticInfos: never requested
}

func (s *SetTriggeringResponse) Decode(d *ua.Decoder) error {
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		s.AddResults = make([]ua.StatusCode, n)
		for i := range s.AddResults {
			v, err := d.DecodeUint32()
			if err != nil {
				return err
			}
			s.AddResults[i] = ua.StatusCode(v)
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	m, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if m > 0 {
		s.RemoveResults = make([]ua.StatusCode, m)
		for i := range s.RemoveResults {
			v, err := d.DecodeUint32()
			if err != nil {
				return err
			}
			s.RemoveResults[i] = ua.StatusCode(v)
		}
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	return d.Err()
}
