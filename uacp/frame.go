package uacp

import (
	"encoding/binary"

	"github.com/rob-gra/go-opcua/ua"
)

// MessageType is the 3-ASCII-byte message kind (spec.md §6).
type MessageType [3]byte

var (
	MessageHello          = MessageType{'H', 'E', 'L'}
	MessageAcknowledge    = MessageType{'A', 'C', 'K'}
	MessageError          = MessageType{'E', 'R', 'R'}
	MessageOpenChannel    = MessageType{'O', 'P', 'N'}
	MessageCloseChannel   = MessageType{'C', 'L', 'O'}
	MessageSecureMessage  = MessageType{'M', 'S', 'G'}
)

func (t MessageType) String() string { return string(t[:]) }

// ChunkType is the 1-byte chunk indicator following MessageType.
type ChunkType byte

const (
	ChunkContinuation ChunkType = 'C'
	ChunkFinal        ChunkType = 'F'
	ChunkAbort        ChunkType = 'A'
)

const headerSize = 8 // 3 (type) + 1 (chunk) + 4 (size)

// secureHeaderSize is the size of the channelId/tokenId/sequenceNumber/
// requestId quadruple that follows the generic header on every OPN/CLO/MSG
// frame (spec.md §4.3). Hello/Acknowledge/Error frames carry only the
// generic header plus body.
const secureHeaderSize = 16

// Frame is one physical chunk read off the wire (spec.md §4.3). A logical
// message may span several chunks; Channel.Run reassembles them through
// Channel.handleChunk.
type Frame struct {
	Type           MessageType
	Chunk          ChunkType
	ChannelId      uint32
	TokenId        uint32
	SequenceNumber uint32
	RequestId      uint32
	Body           []byte
}

// hasSecureHeader reports whether t carries the channelId/tokenId/
// sequenceNumber/requestId quadruple (every type but Hello/Acknowledge/
// Error).
func (t MessageType) hasSecureHeader() bool {
	return t != MessageHello && t != MessageAcknowledge && t != MessageError
}

// EncodeFrame serializes f to the wire layout of spec.md §4.3/§6: 3-byte
// ASCII type, 1-byte chunk type, u32 total size, then (for non-Hello/Ack/
// Err types) the secure-channel header, then the body.
func EncodeFrame(f Frame) []byte {
	size := headerSize + len(f.Body)
	if f.Type.hasSecureHeader() {
		size += secureHeaderSize
	}
	buf := make([]byte, headerSize, size)
	copy(buf[0:3], f.Type[:])
	buf[3] = byte(f.Chunk)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(size))
	if f.Type.hasSecureHeader() {
		var hdr [secureHeaderSize]byte
		binary.LittleEndian.PutUint32(hdr[0:4], f.ChannelId)
		binary.LittleEndian.PutUint32(hdr[4:8], f.TokenId)
		binary.LittleEndian.PutUint32(hdr[8:12], f.SequenceNumber)
		binary.LittleEndian.PutUint32(hdr[12:16], f.RequestId)
		buf = append(buf, hdr[:]...)
	}
	buf = append(buf, f.Body...)
	return buf
}

// DecodeFrame parses one physical chunk from buf. maxMessageSize bounds
// the declared size field (spec.md §4.3's MessageTooLarge failure mode); 0
// disables the check.
func DecodeFrame(buf []byte, maxMessageSize uint32) (Frame, error) {
	if len(buf) < headerSize {
		return Frame{}, ua.Wrap(ua.KindCodec, ErrUnknownMessageType)
	}
	var f Frame
	copy(f.Type[:], buf[0:3])
	f.Chunk = ChunkType(buf[3])
	size := binary.LittleEndian.Uint32(buf[4:8])
	if maxMessageSize != 0 && size > maxMessageSize {
		return Frame{}, ua.Wrap(ua.KindProtocol, ErrMessageTooLarge)
	}
	if uint32(len(buf)) < size {
		return Frame{}, ua.Wrap(ua.KindCodec, ua.ErrTruncated)
	}
	rest := buf[headerSize:size]
	if f.Type.hasSecureHeader() {
		if len(rest) < secureHeaderSize {
			return Frame{}, ua.Wrap(ua.KindCodec, ua.ErrTruncated)
		}
		f.ChannelId = binary.LittleEndian.Uint32(rest[0:4])
		f.TokenId = binary.LittleEndian.Uint32(rest[4:8])
		f.SequenceNumber = binary.LittleEndian.Uint32(rest[8:12])
		f.RequestId = binary.LittleEndian.Uint32(rest[12:16])
		rest = rest[secureHeaderSize:]
	}
	f.Body = append([]byte(nil), rest...)
	return f, nil
}
