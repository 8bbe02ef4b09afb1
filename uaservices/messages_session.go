package uaservices

import "github.com/rob-gra/go-opcua/ua"

// CloseSessionRequest ends the session and, when DeleteSubscriptions
// is set, any subscriptions it owns (companion spec part 4, subclass
// 5.6.4.2).
type CloseSessionRequest struct {
	DeleteSubscriptions bool
}

func (c *CloseSessionRequest) Encode(e *ua.Encoder) {
	e.EncodeBoolean(c.DeleteSubscriptions)
}

func (c *CloseSessionRequest) Decode(d *ua.Decoder) error {
	var err error
	if c.DeleteSubscriptions, err = d.DecodeBoolean(); err != nil {
		return err
	}
	return d.Err()
}

// CloseSessionResponse carries nothing beyond the common ResponseHeader.
type CloseSessionResponse struct{}

func (c *CloseSessionResponse) Encode(e *ua.Encoder) {}

func (c *CloseSessionResponse) Decode(d *ua.Decoder) error { return d.Err() }
