package uasession

import "github.com/rob-gra/go-opcua/ua"

// SignatureData is the (algorithm, signature) pair attached to
// CreateSessionRequest/ActivateSessionRequest. At MessageSecurityMode_None
// (spec.md §4.3's baseline) both fields stay empty; the shape is kept so
// a signed mode can populate them without changing the request layout.
type SignatureData struct {
	Algorithm string
	Signature []byte
}

func (s *SignatureData) Encode(e *ua.Encoder) {
	e.EncodeString(s.Algorithm == "", s.Algorithm)
	e.EncodeByteString(s.Signature)
}

func (s *SignatureData) Decode(d *ua.Decoder) error {
	var err error
	if s.Algorithm, _, err = d.DecodeString(); err != nil {
		return err
	}
	if s.Signature, err = d.DecodeByteString(); err != nil {
		return err
	}
	return d.Err()
}

// CreateSessionRequest is the body sent while transitioning
// ConnectedToSecureChannel -> SendCreateSession (spec.md §4.4).
type CreateSessionRequest struct {
	ClientDescription       ua.ApplicationDescription
	ServerURI               string
	EndpointURL             string
	SessionName             string
	ClientNonce             []byte
	ClientCertificate       []byte
	RequestedSessionTimeout float64
	MaxResponseMessageSize  uint32
}

func (r *CreateSessionRequest) Encode(e *ua.Encoder) {
	e.EncodeApplicationDescription(r.ClientDescription)
	e.EncodeString(r.ServerURI == "", r.ServerURI)
	e.EncodeString(r.EndpointURL == "", r.EndpointURL)
	e.EncodeString(r.SessionName == "", r.SessionName)
	e.EncodeByteString(r.ClientNonce)
	e.EncodeByteString(r.ClientCertificate)
	e.EncodeDouble(r.RequestedSessionTimeout)
	e.EncodeUint32(r.MaxResponseMessageSize)
}

func (r *CreateSessionRequest) Decode(d *ua.Decoder) error {
	var err error
	if r.ClientDescription, err = d.DecodeApplicationDescription(); err != nil {
		return err
	}
	if r.ServerURI, _, err = d.DecodeString(); err != nil {
		return err
	}
	if r.EndpointURL, _, err = d.DecodeString(); err != nil {
		return err
	}
	if r.SessionName, _, err = d.DecodeString(); err != nil {
		return err
	}
	if r.ClientNonce, err = d.DecodeByteString(); err != nil {
		return err
	}
	if r.ClientCertificate, err = d.DecodeByteString(); err != nil {
		return err
	}
	if r.RequestedSessionTimeout, err = d.DecodeDouble(); err != nil {
		return err
	}
	if r.MaxResponseMessageSize, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// CreateSessionResponse answers CreateSessionRequest. AuthenticationToken
// is the value the Session stamps onto every later RequestHeader
// (spec.md §4.4).
type CreateSessionResponse struct {
	SessionId             ua.NodeId
	AuthenticationToken   ua.NodeId
	RevisedSessionTimeout float64
	ServerNonce           []byte
	ServerCertificate     []byte
	ServerEndpoints       []ua.EndpointDescription
	ServerSignature       SignatureData
	MaxRequestMessageSize uint32
}

func (r *CreateSessionResponse) Encode(e *ua.Encoder) {
	_ = e.EncodeNodeId(r.SessionId)
	_ = e.EncodeNodeId(r.AuthenticationToken)
	e.EncodeDouble(r.RevisedSessionTimeout)
	e.EncodeByteString(r.ServerNonce)
	e.EncodeByteString(r.ServerCertificate)
	e.EncodeInt32(int32(len(r.ServerEndpoints)))
	for _, ep := range r.ServerEndpoints {
		e.EncodeEndpointDescription(ep)
	}
	r.ServerSignature.Encode(e)
	e.EncodeUint32(r.MaxRequestMessageSize)
}

func (r *CreateSessionResponse) Decode(d *ua.Decoder) error {
	var err error
	if r.SessionId, err = d.DecodeNodeId(); err != nil {
		return err
	}
	if r.AuthenticationToken, err = d.DecodeNodeId(); err != nil {
		return err
	}
	if r.RevisedSessionTimeout, err = d.DecodeDouble(); err != nil {
		return err
	}
	if r.ServerNonce, err = d.DecodeByteString(); err != nil {
		return err
	}
	if r.ServerCertificate, err = d.DecodeByteString(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.ServerEndpoints = make([]ua.EndpointDescription, 0, n)
		for i := int32(0); i < n; i++ {
			ep, err := d.DecodeEndpointDescription()
			if err != nil {
				return err
			}
			r.ServerEndpoints = append(r.ServerEndpoints, ep)
		}
	}
	if err := r.ServerSignature.Decode(d); err != nil {
		return err
	}
	if r.MaxRequestMessageSize, err = d.DecodeUint32(); err != nil {
		return err
	}
	return d.Err()
}

// ActivateSessionRequest is the body sent while transitioning
// ReceiveCreateSession -> SendActivateSession (spec.md §4.4). The
// baseline identity is AnonymousIdentityToken carrying the policyId
// advertised by the server.
type ActivateSessionRequest struct {
	ClientSignature   SignatureData
	LocaleIds         []string
	UserIdentityToken ua.ExtensionObject
	UserTokenSignature SignatureData
}

func (r *ActivateSessionRequest) Encode(e *ua.Encoder) {
	r.ClientSignature.Encode(e)
	e.EncodeInt32(0) // ClientSoftwareCertificates: always empty, spec.md §1 excludes cert-signed modes
	e.EncodeInt32(int32(len(r.LocaleIds)))
	for _, l := range r.LocaleIds {
		e.EncodeString(l == "", l)
	}
	e.EncodeExtensionObject(r.UserIdentityToken)
	r.UserTokenSignature.Encode(e)
}

func (r *ActivateSessionRequest) Decode(d *ua.Decoder) error {
	if err := r.ClientSignature.Decode(d); err != nil {
		return err
	}
	if _, err := d.DecodeInt32(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.LocaleIds = make([]string, 0, n)
		for i := int32(0); i < n; i++ {
			s, _, err := d.DecodeString()
			if err != nil {
				return err
			}
			r.LocaleIds = append(r.LocaleIds, s)
		}
	}
	var err2 error
	if r.UserIdentityToken, err2 = d.DecodeExtensionObject(nil); err2 != nil {
		return err2
	}
	if err := r.UserTokenSignature.Decode(d); err != nil {
		return err
	}
	return d.Err()
}

// ActivateSessionResponse answers ActivateSessionRequest (spec.md §4.4).
type ActivateSessionResponse struct {
	ServerNonce []byte
	Results     []ua.StatusCode
}

func (r *ActivateSessionResponse) Encode(e *ua.Encoder) {
	e.EncodeByteString(r.ServerNonce)
	e.EncodeInt32(int32(len(r.Results)))
	for _, s := range r.Results {
		e.EncodeUint32(uint32(s))
	}
	e.EncodeInt32(0) // DiagnosticInfos: never requested (ReturnDiagnostics stays 0)
}

func (r *ActivateSessionResponse) Decode(d *ua.Decoder) error {
	var err error
	if r.ServerNonce, err = d.DecodeByteString(); err != nil {
		return err
	}
	n, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if n > 0 {
		r.Results = make([]ua.StatusCode, 0, n)
		for i := int32(0); i < n; i++ {
			v, err := d.DecodeUint32()
			if err != nil {
				return err
			}
			r.Results = append(r.Results, ua.StatusCode(v))
		}
	}
	if _, err := d.DecodeInt32(); err != nil { // DiagnosticInfos count, always skipped
		return err
	}
	return d.Err()
}
