package uacp

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/cenkalti/backoff/v4"
	"github.com/rob-gra/go-opcua/ua"
	"github.com/rob-gra/go-opcua/ulog"
)

// Transport is the byte-stream collaborator a Channel frames messages
// over. Raw TCP socket primitives are out of scope (spec.md §1); any
// io.ReadWriteCloser works, including an in-memory pipe for tests.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// assembly accumulates the chunks of one in-flight logical message, keyed
// by RequestId (spec.md §4.3's C/F/A chunk types).
type assembly struct {
	body []byte
}

// Channel is the SecureChannel of spec.md §4.3: framing, chunk assembly,
// ascending sequence numbers, and the Hello/Acknowledge +
// OpenSecureChannel/CloseSecureChannel lifecycle. All state here belongs
// to a single reactor goroutine (spec.md §5); Send is the only method
// safe to call from other goroutines, and it only ever queues bytes
// through writeMu — it never touches reassembly state.
type Channel struct {
	cfg       ChannelConfig
	transport Transport
	logger    ulog.Logger

	writeMu   sync.Mutex
	sendSeq   uint32
	channelId uint32
	tokenId   uint32

	recvSeq    uint32
	haveRecv   bool
	assembling map[uint32]*assembly

	closed atomic.Bool
}

// NewChannel returns a Channel framing messages over transport. cfg is
// validated in place (zero fields take their default).
func NewChannel(cfg ChannelConfig, transport Transport, logger ulog.Logger) (*Channel, error) {
	if err := cfg.Valid(); err != nil {
		return nil, ua.Wrap(ua.KindConfiguration, err)
	}
	return &Channel{
		cfg:        cfg,
		transport:  transport,
		logger:     logger,
		assembling: make(map[uint32]*assembly),
	}, nil
}

func (c *Channel) nextSeq() uint32 { return atomic.AddUint32(&c.sendSeq, 1) }

// writeFrame serializes and writes one physical frame. Safe for concurrent
// callers; frames themselves are written atomically under writeMu so two
// concurrent logical messages never interleave their bytes.
func (c *Channel) writeFrame(f Frame) error {
	if c.closed.Load() {
		return ua.Wrap(ua.KindLifecycle, ErrChannelClosed)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.transport.Write(EncodeFrame(f))
	if err != nil {
		return ua.Wrap(ua.KindProtocol, err)
	}
	return nil
}

// readFrame blocks on the transport for exactly one physical frame.
func (c *Channel) readFrame() (Frame, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(c.transport, hdr); err != nil {
		return Frame{}, ua.Wrap(ua.KindLifecycle, err)
	}
	size := leUint32(hdr[4:8])
	if c.cfg.MaxMessageSize != 0 && size > c.cfg.MaxMessageSize {
		return Frame{}, ua.Wrap(ua.KindProtocol, ErrMessageTooLarge)
	}
	if size < headerSize {
		return Frame{}, ua.Wrap(ua.KindProtocol, ErrUnknownMessageType)
	}
	rest := make([]byte, size-headerSize)
	if len(rest) > 0 {
		if _, err := io.ReadFull(c.transport, rest); err != nil {
			return Frame{}, ua.Wrap(ua.KindCodec, err)
		}
	}
	full := append(hdr, rest...)
	return DecodeFrame(full, c.cfg.MaxMessageSize)
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Connect performs the Hello/Acknowledge handshake (spec.md §4.3).
func (c *Channel) Connect(endpointURL string) error {
	hello := ua.NewEncoder()
	hello.EncodeUint32(0) // ProtocolVersion
	hello.EncodeUint32(c.cfg.MaxMessageSize)
	hello.EncodeUint32(c.cfg.MaxMessageSize)
	hello.EncodeUint32(c.cfg.MaxMessageSize)
	hello.EncodeUint32(c.cfg.MaxChunkCount)
	hello.EncodeString(endpointURL == "", endpointURL)
	if err := hello.Err(); err != nil {
		return ua.Wrap(ua.KindCodec, err)
	}
	if err := c.writeFrame(Frame{Type: MessageHello, Chunk: ChunkFinal, Body: hello.Bytes()}); err != nil {
		return err
	}
	f, err := c.readFrame()
	if err != nil {
		return err
	}
	if f.Type == MessageError {
		return ua.Wrap(ua.KindProtocol, fmt.Errorf("uacp: server returned ERR during handshake"))
	}
	if f.Type != MessageAcknowledge {
		return ua.Wrap(ua.KindProtocol, ErrUnknownMessageType)
	}
	return nil
}

// Open negotiates a SecureChannel at MessageSecurityMode_None (spec.md
// §4.3's baseline) and returns the server-assigned channel/token ids.
func (c *Channel) Open(policyURI string, requestedLifetimeMs uint32) (OpenResult, error) {
	req := &OpenSecureChannelRequest{
		ClientProtocolVersion: 0,
		SecurityMode:          ua.MessageSecurityModeNone,
		ClientNonce:           []byte{0x00},
		RequestedLifetime:     requestedLifetimeMs,
	}
	enc := ua.NewEncoder()
	req.Encode(enc)
	if err := enc.Err(); err != nil {
		return OpenResult{}, ua.Wrap(ua.KindCodec, err)
	}
	reqId := c.nextSeq()
	if err := c.writeFrame(Frame{
		Type:           MessageOpenChannel,
		Chunk:          ChunkFinal,
		SequenceNumber: reqId,
		RequestId:      reqId,
		Body:           enc.Bytes(),
	}); err != nil {
		return OpenResult{}, err
	}
	f, err := c.readFrame()
	if err != nil {
		return OpenResult{}, err
	}
	if f.Type == MessageError {
		return OpenResult{}, ua.Wrap(ua.KindProtocol, fmt.Errorf("uacp: server rejected OpenSecureChannel"))
	}
	if f.Type != MessageOpenChannel {
		return OpenResult{}, ua.Wrap(ua.KindProtocol, ErrUnknownMessageType)
	}
	var resp OpenSecureChannelResponse
	if err := resp.Decode(ua.NewDecoder(f.Body)); err != nil {
		return OpenResult{}, ua.Wrap(ua.KindCodec, err)
	}
	c.channelId = f.ChannelId
	c.tokenId = f.TokenId
	return OpenResult{
		ChannelId:       f.ChannelId,
		TokenId:         f.TokenId,
		RevisedLifetime: resp.RevisedLifetime,
		ServerNonce:     resp.ServerNonce,
	}, nil
}

// Send frames body as one or more MSG chunks under requestId, chunking at
// MaxMessageSize when the body does not fit a single frame.
func (c *Channel) Send(requestId uint32, body []byte) error {
	return c.sendTyped(MessageSecureMessage, requestId, body)
}

func (c *Channel) sendTyped(t MessageType, requestId uint32, body []byte) error {
	budget := int(c.cfg.MaxMessageSize) - headerSize - secureHeaderSize
	if budget <= 0 {
		return ua.Wrap(ua.KindConfiguration, ErrMessageTooLarge)
	}
	if len(body) == 0 {
		return c.writeFrame(Frame{Type: t, Chunk: ChunkFinal, ChannelId: c.channelId, TokenId: c.tokenId,
			SequenceNumber: c.nextSeq(), RequestId: requestId})
	}
	chunks := 0
	for off := 0; off < len(body); off += budget {
		chunks++
		if c.cfg.MaxChunkCount != 0 && uint32(chunks) > c.cfg.MaxChunkCount {
			return ua.Wrap(ua.KindProtocol, ErrMessageTooLarge)
		}
		end := off + budget
		final := end >= len(body)
		if end > len(body) {
			end = len(body)
		}
		chunk := ChunkContinuation
		if final {
			chunk = ChunkFinal
		}
		if err := c.writeFrame(Frame{
			Type: t, Chunk: chunk, ChannelId: c.channelId, TokenId: c.tokenId,
			SequenceNumber: c.nextSeq(), RequestId: requestId, Body: body[off:end],
		}); err != nil {
			return err
		}
	}
	return nil
}

// Close sends CloseSecureChannel and closes the underlying transport.
// Idempotent: a second call is a no-op.
func (c *Channel) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = c.sendTyped(MessageCloseChannel, c.nextSeq(), nil)
	return c.transport.Close()
}

// Run reads frames until a fatal error or Close, reassembling chunked
// messages and invoking onMessage once per logical message (the Final
// chunk of a C*F sequence) and onClosed exactly once on exit. This is
// the reactor's read loop (spec.md §5): it must never block on anything
// but the transport itself.
func (c *Channel) Run(onMessage func(requestId uint32, body []byte), onClosed func(error)) {
	for {
		f, err := c.readFrame()
		if err != nil {
			c.closed.Store(true)
			onClosed(err)
			return
		}
		if c.haveRecv && f.SequenceNumber != 0 && f.SequenceNumber <= c.recvSeq {
			c.logger.Error("uacp: sequence number mismatch, closing channel")
			c.closed.Store(true)
			onClosed(ua.Wrap(ua.KindProtocol, ErrSequenceNumberMismatch))
			return
		}
		if f.SequenceNumber != 0 {
			c.recvSeq = f.SequenceNumber
			c.haveRecv = true
		}
		switch f.Type {
		case MessageHello, MessageAcknowledge, MessageOpenChannel:
			// Consumed synchronously by Connect/Open; a frame of this type
			// reaching Run after the handshake is a protocol error from a
			// misbehaving peer, logged and dropped rather than torn down.
			c.logger.Warn("uacp: unexpected %s frame after handshake", f.Type.String())
			continue
		case MessageCloseChannel:
			c.closed.Store(true)
			onClosed(ua.Wrap(ua.KindLifecycle, ErrChannelClosed))
			return
		case MessageError:
			c.closed.Store(true)
			onClosed(ua.Wrap(ua.KindProtocol, fmt.Errorf("uacp: peer sent ERR")))
			return
		case MessageSecureMessage:
			c.handleChunk(f, onMessage)
		default:
			c.logger.Error("uacp: unknown message type %q", f.Type.String())
		}
	}
}

func (c *Channel) handleChunk(f Frame, onMessage func(uint32, []byte)) {
	switch f.Chunk {
	case ChunkAbort:
		delete(c.assembling, f.RequestId)
		c.logger.Warn("uacp: chunk sequence aborted for request %d", f.RequestId)
	case ChunkContinuation:
		a, ok := c.assembling[f.RequestId]
		if !ok {
			a = &assembly{}
			c.assembling[f.RequestId] = a
		}
		a.body = append(a.body, f.Body...)
	case ChunkFinal:
		a, ok := c.assembling[f.RequestId]
		var full []byte
		if ok {
			full = append(a.body, f.Body...)
			delete(c.assembling, f.RequestId)
		} else {
			full = f.Body
		}
		onMessage(f.RequestId, full)
	default:
		c.logger.Error("uacp: unknown chunk type %q", byte(f.Chunk))
	}
}

// DialWithBackoff retries dial with bounded exponential backoff until it
// succeeds, ctx is cancelled, or the retry budget is exhausted. This
// governs only the transport-connect retry loop the spec treats as
// external (spec.md §1) — it never retries an in-flight Send.
func DialWithBackoff(ctx context.Context, dial func() (Transport, error)) (Transport, error) {
	var t Transport
	op := func() error {
		var err error
		t, err = dial()
		return err
	}
	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, ua.Wrap(ua.KindLifecycle, err)
	}
	return t, nil
}
