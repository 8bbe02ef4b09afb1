package uacp

import "github.com/rob-gra/go-opcua/ua"

// OpenSecureChannelRequest is the minimal body carried inside the first OPN
// frame's payload (spec.md §4.3). SecurityMode is always
// MessageSecurityModeNone for the baseline this stack implements.
type OpenSecureChannelRequest struct {
	ClientProtocolVersion uint32
	SecurityMode          ua.MessageSecurityMode
	ClientNonce           []byte
	RequestedLifetime     uint32
}

func (r *OpenSecureChannelRequest) Encode(e *ua.Encoder) {
	e.EncodeUint32(r.ClientProtocolVersion)
	e.EncodeInt32(int32(r.SecurityMode))
	e.EncodeByteString(r.ClientNonce)
	e.EncodeUint32(r.RequestedLifetime)
}

func (r *OpenSecureChannelRequest) Decode(d *ua.Decoder) error {
	var err error
	if r.ClientProtocolVersion, err = d.DecodeUint32(); err != nil {
		return err
	}
	mode, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	r.SecurityMode = ua.MessageSecurityMode(mode)
	if r.ClientNonce, err = d.DecodeByteString(); err != nil {
		return err
	}
	if r.RequestedLifetime, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// OpenSecureChannelResponse answers an OpenSecureChannelRequest. ChannelId
// and TokenId are not part of this body — they travel in the frame's
// secure-channel header (spec.md §4.3) — but ServerNonce and
// RevisedLifetime are application-level fields the Session needs.
type OpenSecureChannelResponse struct {
	ServerProtocolVersion uint32
	RevisedLifetime       uint32
	ServerNonce           []byte
}

func (r *OpenSecureChannelResponse) Encode(e *ua.Encoder) {
	e.EncodeUint32(r.ServerProtocolVersion)
	e.EncodeUint32(r.RevisedLifetime)
	e.EncodeByteString(r.ServerNonce)
}

func (r *OpenSecureChannelResponse) Decode(d *ua.Decoder) error {
	var err error
	if r.ServerProtocolVersion, err = d.DecodeUint32(); err != nil {
		return err
	}
	if r.RevisedLifetime, err = d.DecodeUint32(); err != nil {
		return err
	}
	if r.ServerNonce, err = d.DecodeByteString(); err != nil {
		return err
	}
	return d.Err()
}

// OpenResult is what Channel.Open hands back to the caller once the
// OpenSecureChannel exchange completes.
type OpenResult struct {
	ChannelId       uint32
	TokenId         uint32
	RevisedLifetime uint32
	ServerNonce     []byte
}
