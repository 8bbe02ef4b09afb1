// Package ua implements the OPC UA Binary built-in type system: the
// wire codec (encode/decode), the NodeId/Variant/ExtensionObject data
// model, and the ExtensionRegistry that resolves ExtensionObject bodies
// by type id (spec.md §4.1, §4.2).
package ua

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// nullLength is the i32 length-prefix value that marks a null
// String/ByteString/array (spec.md §4.1).
const nullLength int32 = -1

// Encoder accumulates an OPC UA Binary-encoded byte stream. It never
// partially mutates its output on error: once err is set, every further
// write is a no-op and the accumulated buf is only ever returned via
// Bytes() after the caller checks Err().
type Encoder struct {
	buf []byte
	err error
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the encoded stream so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// Err returns the first encoding error encountered, if any.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *Encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, b)
}

func (e *Encoder) writeBytes(b []byte) {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, b...)
}

func (e *Encoder) writeUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.writeBytes(b[:])
}

func (e *Encoder) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.writeBytes(b[:])
}

func (e *Encoder) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.writeBytes(b[:])
}

func (e *Encoder) writeGUIDBytes(g uuid.UUID) {
	e.writeUint32(binary.BigEndian.Uint32(g[0:4]))
	e.writeUint16(binary.BigEndian.Uint16(g[4:6]))
	e.writeUint16(binary.BigEndian.Uint16(g[6:8]))
	e.writeBytes(g[8:16])
}

// EncodeBoolean writes a 1-byte boolean (0 = false, non-zero = true).
func (e *Encoder) EncodeBoolean(v bool) {
	if v {
		e.writeByte(1)
	} else {
		e.writeByte(0)
	}
}

func (e *Encoder) EncodeSByte(v int8)   { e.writeByte(byte(v)) }
func (e *Encoder) EncodeByte(v uint8)   { e.writeByte(v) }
func (e *Encoder) EncodeInt16(v int16)  { e.writeUint16(uint16(v)) }
func (e *Encoder) EncodeUint16(v uint16) { e.writeUint16(v) }
func (e *Encoder) EncodeInt32(v int32)  { e.writeUint32(uint32(v)) }
func (e *Encoder) EncodeUint32(v uint32) { e.writeUint32(v) }
func (e *Encoder) EncodeInt64(v int64)  { e.writeUint64(uint64(v)) }
func (e *Encoder) EncodeUint64(v uint64) { e.writeUint64(v) }

func (e *Encoder) EncodeFloat(v float32) { e.writeUint32(math.Float32bits(v)) }
func (e *Encoder) EncodeDouble(v float64) { e.writeUint64(math.Float64bits(v)) }

// writeString appends s as an i32-length-prefixed String. It never writes
// the -1 null marker; an empty s is written with length 0 (EncodeString
// and writeByteString are the paths that can write null).
func (e *Encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	e.writeUint32(uint32(int32(len(s))))
	e.writeBytes([]byte(s))
}

func (e *Encoder) writeByteString(b []byte) {
	if e.err != nil {
		return
	}
	if b == nil {
		e.writeUint32(uint32(nullLength))
		return
	}
	e.writeUint32(uint32(int32(len(b))))
	e.writeBytes(b)
}

// EncodeString writes a nullable OPC UA String.
func (e *Encoder) EncodeString(null bool, s string) {
	if null {
		e.writeUint32(uint32(nullLength))
		return
	}
	e.writeString(s)
}

// EncodeByteString writes a nullable OPC UA ByteString.
func (e *Encoder) EncodeByteString(b []byte) { e.writeByteString(b) }

// Decoder consumes an OPC UA Binary-encoded byte stream, slicing its
// internal buffer forward as values are read — the same "consume the
// front, keep what remains" style the teacher uses for ASDU decoding.
type Decoder struct {
	buf []byte
	err error
}

// NewDecoder wraps b for decoding. b is not copied; callers must not
// mutate it concurrently with decoding.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

// Err returns the first decoding error encountered, if any.
func (d *Decoder) Err() error { return d.err }

// Remaining returns the bytes not yet consumed.
func (d *Decoder) Remaining() []byte { return d.buf }

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return d.err
}

func (d *Decoder) need(n int) error {
	if d.err != nil {
		return d.err
	}
	if len(d.buf) < n {
		return d.fail(Wrap(KindCodec, ErrTruncated))
	}
	return nil
}

func (d *Decoder) readByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.buf[0]
	d.buf = d.buf[1:]
	return b, nil
}

func (d *Decoder) readBytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[:n]
	d.buf = d.buf[n:]
	return b, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) readGUIDBytes() (uuid.UUID, error) {
	var g uuid.UUID
	v1, err := d.readUint32()
	if err != nil {
		return g, err
	}
	v2, err := d.readUint16()
	if err != nil {
		return g, err
	}
	v3, err := d.readUint16()
	if err != nil {
		return g, err
	}
	tail, err := d.readBytes(8)
	if err != nil {
		return g, err
	}
	binary.BigEndian.PutUint32(g[0:4], v1)
	binary.BigEndian.PutUint16(g[4:6], v2)
	binary.BigEndian.PutUint16(g[6:8], v3)
	copy(g[8:16], tail)
	return g, nil
}

// DecodeBoolean reads a 1-byte boolean.
func (d *Decoder) DecodeBoolean() (bool, error) {
	b, err := d.readByte()
	return b != 0, err
}

func (d *Decoder) DecodeSByte() (int8, error) { b, err := d.readByte(); return int8(b), err }
func (d *Decoder) DecodeByte() (uint8, error) { return d.readByte() }
func (d *Decoder) DecodeInt16() (int16, error) {
	v, err := d.readUint16()
	return int16(v), err
}
func (d *Decoder) DecodeUint16() (uint16, error) { return d.readUint16() }
func (d *Decoder) DecodeInt32() (int32, error) {
	v, err := d.readUint32()
	return int32(v), err
}
func (d *Decoder) DecodeUint32() (uint32, error) { return d.readUint32() }
func (d *Decoder) DecodeInt64() (int64, error) {
	v, err := d.readUint64()
	return int64(v), err
}
func (d *Decoder) DecodeUint64() (uint64, error) { return d.readUint64() }

func (d *Decoder) DecodeFloat() (float32, error) {
	v, err := d.readUint32()
	return math.Float32frombits(v), err
}

func (d *Decoder) DecodeDouble() (float64, error) {
	v, err := d.readUint64()
	return math.Float64frombits(v), err
}

// readLengthPrefixed reads an i32-length-prefixed byte slice; a -1 length
// decodes to a nil slice with ok=false. Shared by String and ByteString.
func (d *Decoder) readLengthPrefixed() ([]byte, bool, error) {
	n, err := d.readUint32()
	if err != nil {
		return nil, false, err
	}
	length := int32(n)
	if length < nullLength {
		return nil, false, d.fail(Wrap(KindCodec, ErrLengthOutOfRange))
	}
	if length == nullLength {
		return nil, false, nil
	}
	if length < 0 || int(length) > len(d.buf) {
		return nil, false, d.fail(Wrap(KindCodec, ErrLengthOutOfRange))
	}
	b, err := d.readBytes(int(length))
	return b, true, err
}

func (d *Decoder) readString() (string, error) {
	b, ok, err := d.readLengthPrefixed()
	if err != nil || !ok {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) readByteString() ([]byte, error) {
	b, ok, err := d.readLengthPrefixed()
	if err != nil || !ok {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// DecodeString reads a nullable OPC UA String. ok is false for a null
// value (length prefix -1).
func (d *Decoder) DecodeString() (s string, ok bool, err error) {
	b, ok, err := d.readLengthPrefixed()
	return string(b), ok, err
}

// DecodeByteString reads a nullable OPC UA ByteString.
func (d *Decoder) DecodeByteString() ([]byte, error) { return d.readByteString() }
