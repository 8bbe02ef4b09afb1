package uaservices

import "github.com/rob-gra/go-opcua/ua"

// CreateSubscriptionRequest opens a publishing cycle on the server
// (companion spec part 4, subclass 5.13.2.2). The server may revise
// RequestedPublishingInterval/RequestedMaxKeepAliveCount/RequestedLifetimeCount
// down to its own limits; the revised values come back in the response.
type CreateSubscriptionRequest struct {
	RequestedPublishingInterval float64
	RequestedLifetimeCount      uint32
	RequestedMaxKeepAliveCount  uint32
	MaxNotificationsPerPublish  uint32
	PublishingEnabled           bool
	Priority                    byte
}

func (c *CreateSubscriptionRequest) Encode(e *ua.Encoder) {
	e.EncodeDouble(c.RequestedPublishingInterval)
	e.EncodeUint32(c.RequestedLifetimeCount)
	e.EncodeUint32(c.RequestedMaxKeepAliveCount)
	e.EncodeUint32(c.MaxNotificationsPerPublish)
	e.EncodeBoolean(c.PublishingEnabled)
	e.EncodeByte(c.Priority)
}

func (c *CreateSubscriptionRequest) Decode(d *ua.Decoder) error {
	var err error
	if c.RequestedPublishingInterval, err = d.DecodeDouble(); err != nil {
		return err
	}
	if c.RequestedLifetimeCount, err = d.DecodeUint32(); err != nil {
		return err
	}
	if c.RequestedMaxKeepAliveCount, err = d.DecodeUint32(); err != nil {
		return err
	}
	if c.MaxNotificationsPerPublish, err = d.DecodeUint32(); err != nil {
		return err
	}
	if c.PublishingEnabled, err = d.DecodeBoolean(); err != nil {
		return err
	}
	if c.Priority, err = d.DecodeByte(); err != nil {
		return err
	}
	return d.Err()
}

// CreateSubscriptionResponse carries the server-assigned
// SubscriptionId and the revised publishing parameters.
type CreateSubscriptionResponse struct {
	SubscriptionId         uint32
	RevisedPublishingInterval float64
	RevisedLifetimeCount   uint32
	RevisedMaxKeepAliveCount uint32
}

func (c *CreateSubscriptionResponse) Encode(e *ua.Encoder) {
	e.EncodeUint32(c.SubscriptionId)
	e.EncodeDouble(c.RevisedPublishingInterval)
	e.EncodeUint32(c.RevisedLifetimeCount)
	e.EncodeUint32(c.RevisedMaxKeepAliveCount)
}

func (c *CreateSubscriptionResponse) Decode(d *ua.Decoder) error {
	var err error
	if c.SubscriptionId, err = d.DecodeUint32(); err != nil {
		return err
	}
	if c.RevisedPublishingInterval, err = d.DecodeDouble(); err != nil {
		return err
	}
	if c.RevisedLifetimeCount, err = d.DecodeUint32(); err != nil {
		return err
	}
	if c.RevisedMaxKeepAliveCount, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}
