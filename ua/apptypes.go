package ua

// ApplicationType enumerates the role an ApplicationDescription describes
// (companion spec part 4, subclass 7.1).
type ApplicationType int32

const (
	ApplicationTypeServer ApplicationType = iota
	ApplicationTypeClient
	ApplicationTypeClientAndServer
	ApplicationTypeDiscoveryServer
)

// ApplicationDescription identifies a client or server application
// (spec.md §6's "Endpoint/session configuration", SPEC_FULL.md §3). It
// was present in the original source (Session.cpp's
// applicatinDescriptionSPtr_) but dropped from the distilled spec.
type ApplicationDescription struct {
	ApplicationURI      string
	ProductURI          string
	ApplicationName     LocalizedText
	ApplicationType     ApplicationType
	GatewayServerURI    string
	DiscoveryProfileURI string
	DiscoveryUrls       []string
}

func (e *Encoder) EncodeApplicationDescription(a ApplicationDescription) {
	e.EncodeString(a.ApplicationURI == "", a.ApplicationURI)
	e.EncodeString(a.ProductURI == "", a.ProductURI)
	e.EncodeLocalizedText(a.ApplicationName)
	e.EncodeInt32(int32(a.ApplicationType))
	e.EncodeString(a.GatewayServerURI == "", a.GatewayServerURI)
	e.EncodeString(a.DiscoveryProfileURI == "", a.DiscoveryProfileURI)
	e.writeUint32(uint32(int32(len(a.DiscoveryUrls))))
	for _, u := range a.DiscoveryUrls {
		e.writeString(u)
	}
}

func (d *Decoder) DecodeApplicationDescription() (ApplicationDescription, error) {
	var a ApplicationDescription
	var err error
	if a.ApplicationURI, _, err = d.DecodeString(); err != nil {
		return ApplicationDescription{}, err
	}
	if a.ProductURI, _, err = d.DecodeString(); err != nil {
		return ApplicationDescription{}, err
	}
	if a.ApplicationName, err = d.DecodeLocalizedText(); err != nil {
		return ApplicationDescription{}, err
	}
	t, err := d.DecodeInt32()
	if err != nil {
		return ApplicationDescription{}, err
	}
	a.ApplicationType = ApplicationType(t)
	if a.GatewayServerURI, _, err = d.DecodeString(); err != nil {
		return ApplicationDescription{}, err
	}
	if a.DiscoveryProfileURI, _, err = d.DecodeString(); err != nil {
		return ApplicationDescription{}, err
	}
	n, err := d.readUint32()
	if err != nil {
		return ApplicationDescription{}, err
	}
	if int32(n) > 0 {
		a.DiscoveryUrls = make([]string, 0, n)
		for i := uint32(0); i < n; i++ {
			s, err := d.readString()
			if err != nil {
				return ApplicationDescription{}, err
			}
			a.DiscoveryUrls = append(a.DiscoveryUrls, s)
		}
	}
	return a, nil
}

// MessageSecurityMode as named by SecureChannel negotiation (spec.md §4.3,
// §6).
type MessageSecurityMode int32

const (
	MessageSecurityModeInvalid MessageSecurityMode = iota
	MessageSecurityModeNone
	MessageSecurityModeSign
	MessageSecurityModeSignAndEncrypt
)

// UserTokenType enumerates the identity token kinds advertised by a
// UserTokenPolicy.
type UserTokenType int32

const (
	UserTokenTypeAnonymous UserTokenType = iota
	UserTokenTypeUserName
	UserTokenTypeCertificate
	UserTokenTypeIssuedToken
)

// UserTokenPolicy is one entry of an EndpointDescription's
// UserIdentityTokens (spec.md §6).
type UserTokenPolicy struct {
	PolicyId          string
	TokenType         UserTokenType
	IssuedTokenType   string
	IssuerEndpointURL string
	SecurityPolicyURI string
}

func (e *Encoder) EncodeUserTokenPolicy(p UserTokenPolicy) {
	e.EncodeString(p.PolicyId == "", p.PolicyId)
	e.EncodeInt32(int32(p.TokenType))
	e.EncodeString(p.IssuedTokenType == "", p.IssuedTokenType)
	e.EncodeString(p.IssuerEndpointURL == "", p.IssuerEndpointURL)
	e.EncodeString(p.SecurityPolicyURI == "", p.SecurityPolicyURI)
}

func (d *Decoder) DecodeUserTokenPolicy() (UserTokenPolicy, error) {
	var p UserTokenPolicy
	var err error
	if p.PolicyId, _, err = d.DecodeString(); err != nil {
		return UserTokenPolicy{}, err
	}
	t, err := d.DecodeInt32()
	if err != nil {
		return UserTokenPolicy{}, err
	}
	p.TokenType = UserTokenType(t)
	if p.IssuedTokenType, _, err = d.DecodeString(); err != nil {
		return UserTokenPolicy{}, err
	}
	if p.IssuerEndpointURL, _, err = d.DecodeString(); err != nil {
		return UserTokenPolicy{}, err
	}
	if p.SecurityPolicyURI, _, err = d.DecodeString(); err != nil {
		return UserTokenPolicy{}, err
	}
	return p, nil
}

// EndpointDescription advertises one way to reach a server (spec.md §6).
// Servers reject sessions whose requested SecurityPolicyUri is
// unadvertised; the baseline policy is "...#None" with a single
// Anonymous UserTokenPolicy.
type EndpointDescription struct {
	EndpointURL         string
	Server              ApplicationDescription
	ServerCertificate   []byte
	SecurityMode        MessageSecurityMode
	SecurityPolicyURI   string
	UserIdentityTokens  []UserTokenPolicy
	TransportProfileURI string
	SecurityLevel       uint8
}

// SecurityPolicyNone is the baseline security policy URI (spec.md §6).
const SecurityPolicyNone = "http://opcfoundation.org/UA/SecurityPolicy#None"

func (e *Encoder) EncodeEndpointDescription(ep EndpointDescription) {
	e.EncodeString(ep.EndpointURL == "", ep.EndpointURL)
	e.EncodeApplicationDescription(ep.Server)
	e.EncodeByteString(ep.ServerCertificate)
	e.EncodeInt32(int32(ep.SecurityMode))
	e.EncodeString(ep.SecurityPolicyURI == "", ep.SecurityPolicyURI)
	e.writeUint32(uint32(int32(len(ep.UserIdentityTokens))))
	for _, t := range ep.UserIdentityTokens {
		e.EncodeUserTokenPolicy(t)
	}
	e.EncodeString(ep.TransportProfileURI == "", ep.TransportProfileURI)
	e.EncodeByte(ep.SecurityLevel)
}

func (d *Decoder) DecodeEndpointDescription() (EndpointDescription, error) {
	var ep EndpointDescription
	var err error
	if ep.EndpointURL, _, err = d.DecodeString(); err != nil {
		return EndpointDescription{}, err
	}
	if ep.Server, err = d.DecodeApplicationDescription(); err != nil {
		return EndpointDescription{}, err
	}
	if ep.ServerCertificate, err = d.DecodeByteString(); err != nil {
		return EndpointDescription{}, err
	}
	m, err := d.DecodeInt32()
	if err != nil {
		return EndpointDescription{}, err
	}
	ep.SecurityMode = MessageSecurityMode(m)
	if ep.SecurityPolicyURI, _, err = d.DecodeString(); err != nil {
		return EndpointDescription{}, err
	}
	n, err := d.readUint32()
	if err != nil {
		return EndpointDescription{}, err
	}
	if int32(n) > 0 {
		ep.UserIdentityTokens = make([]UserTokenPolicy, 0, n)
		for i := uint32(0); i < n; i++ {
			t, err := d.DecodeUserTokenPolicy()
			if err != nil {
				return EndpointDescription{}, err
			}
			ep.UserIdentityTokens = append(ep.UserIdentityTokens, t)
		}
	}
	if ep.TransportProfileURI, _, err = d.DecodeString(); err != nil {
		return EndpointDescription{}, err
	}
	if ep.SecurityLevel, err = d.DecodeByte(); err != nil {
		return EndpointDescription{}, err
	}
	return ep, nil
}

// AnonymousIdentityToken is the baseline UserIdentityToken variant
// (spec.md §4.4, grounded directly in Session.cpp's activateSession()).
// It implements Payload so it can travel inside an ExtensionObject.
type AnonymousIdentityToken struct {
	PolicyId string
}

func (t *AnonymousIdentityToken) Encode(e *Encoder) {
	e.EncodeString(t.PolicyId == "", t.PolicyId)
}

func (t *AnonymousIdentityToken) Decode(d *Decoder) error {
	s, _, err := d.DecodeString()
	if err != nil {
		return err
	}
	t.PolicyId = s
	return nil
}
