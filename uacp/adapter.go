package uacp

// SessionSink receives the two channel-level events a Session reacts to
// (spec.md §4.4's onMessage/onChannelDisconnected). uasession.Session
// satisfies this by method shape alone — uacp never imports uasession, so
// the dependency runs one way, channel up to session.
type SessionSink interface {
	OnMessage(requestId uint32, body []byte)
	OnChannelDisconnected(cause error)
}

// ChannelAdapter turns a Channel plus its Hello/OpenSecureChannel
// parameters into the zero-argument Connect()/Send()/Close() shape a
// Session's SecureChannel collaborator expects (spec.md §4.4). It owns
// the Run() reactor goroutine the Channel needs to read replies.
type ChannelAdapter struct {
	ch                  *Channel
	endpointURL         string
	securityPolicyURI   string
	requestedLifetimeMs uint32
	sink                SessionSink
}

// NewChannelAdapter binds ch to endpointURL/securityPolicyURI and the
// session-side sink that Run() will forward frames and disconnects to.
func NewChannelAdapter(ch *Channel, endpointURL, securityPolicyURI string, requestedLifetimeMs uint32, sink SessionSink) *ChannelAdapter {
	return &ChannelAdapter{
		ch:                  ch,
		endpointURL:         endpointURL,
		securityPolicyURI:   securityPolicyURI,
		requestedLifetimeMs: requestedLifetimeMs,
		sink:                sink,
	}
}

// Connect drives Hello/Acknowledge then OpenSecureChannel, and once both
// succeed starts the Channel's read loop in its own goroutine.
func (a *ChannelAdapter) Connect() error {
	if err := a.ch.Connect(a.endpointURL); err != nil {
		return err
	}
	if _, err := a.ch.Open(a.securityPolicyURI, a.requestedLifetimeMs); err != nil {
		return err
	}
	go a.ch.Run(a.sink.OnMessage, a.sink.OnChannelDisconnected)
	return nil
}

func (a *ChannelAdapter) Send(requestId uint32, body []byte) error { return a.ch.Send(requestId, body) }

func (a *ChannelAdapter) Close() error { return a.ch.Close() }
