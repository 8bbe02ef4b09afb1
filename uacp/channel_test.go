package uacp

import (
	"net"
	"testing"
	"time"

	"github.com/rob-gra/go-opcua/ulog"
	"github.com/stretchr/testify/require"
)

// pipeTransport adapts one half of a net.Pipe to Transport.
type pipeTransport struct{ net.Conn }

func newPipe() (Transport, net.Conn) {
	a, b := net.Pipe()
	return pipeTransport{a}, b
}

func TestChannelConnectHandshake(t *testing.T) {
	client, server := newPipe()
	ch, err := NewChannel(DefaultChannelConfig(), client, ulog.New(nil))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ch.Connect("opc.tcp://127.0.0.1:4841") }()

	hdr := make([]byte, headerSize)
	_, err = server.Read(hdr)
	require.NoError(t, err)
	require.Equal(t, "HEL", string(hdr[0:3]))

	size := leUint32(hdr[4:8])
	body := make([]byte, size-headerSize)
	_, err = server.Read(body)
	require.NoError(t, err)

	ack := EncodeFrame(Frame{Type: MessageAcknowledge, Chunk: ChunkFinal, Body: []byte{0, 0, 0, 0}})
	_, err = server.Write(ack)
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Connect")
	}
}

func TestChannelHandleChunkReassembles(t *testing.T) {
	client, _ := newPipe()
	ch, err := NewChannel(DefaultChannelConfig(), client, ulog.New(nil))
	require.NoError(t, err)

	var got []byte
	onMessage := func(reqId uint32, body []byte) {
		require.Equal(t, uint32(5), reqId)
		got = body
	}

	ch.handleChunk(Frame{RequestId: 5, Chunk: ChunkContinuation, Body: []byte("hel")}, onMessage)
	ch.handleChunk(Frame{RequestId: 5, Chunk: ChunkContinuation, Body: []byte("lo ")}, onMessage)
	ch.handleChunk(Frame{RequestId: 5, Chunk: ChunkFinal, Body: []byte("world")}, onMessage)

	require.Equal(t, "hello world", string(got))
	require.Empty(t, ch.assembling)
}

func TestChannelHandleChunkAbortDiscards(t *testing.T) {
	client, _ := newPipe()
	ch, err := NewChannel(DefaultChannelConfig(), client, ulog.New(nil))
	require.NoError(t, err)

	called := false
	onMessage := func(uint32, []byte) { called = true }
	ch.handleChunk(Frame{RequestId: 1, Chunk: ChunkContinuation, Body: []byte("partial")}, onMessage)
	ch.handleChunk(Frame{RequestId: 1, Chunk: ChunkAbort}, onMessage)

	require.False(t, called)
	require.Empty(t, ch.assembling)
}

func TestChannelSendSmallBodyAsSingleFinalChunk(t *testing.T) {
	client, server := newPipe()
	ch, err := NewChannel(DefaultChannelConfig(), client, ulog.New(nil))
	require.NoError(t, err)
	ch.channelId, ch.tokenId = 7, 9

	payload := []byte("hello")

	go func() {
		_ = ch.Send(42, payload)
	}()

	f, err := func() (Frame, error) {
		hdr := make([]byte, headerSize)
		if _, err := server.Read(hdr); err != nil {
			return Frame{}, err
		}
		size := leUint32(hdr[4:8])
		rest := make([]byte, size-headerSize)
		if len(rest) > 0 {
			if _, err := server.Read(rest); err != nil {
				return Frame{}, err
			}
		}
		full := append(hdr, rest...)
		return DecodeFrame(full, 0)
	}()
	require.NoError(t, err)
	require.Equal(t, MessageSecureMessage, f.Type)
	require.Equal(t, ChunkFinal, f.Chunk)
	require.Equal(t, payload, f.Body)
}
