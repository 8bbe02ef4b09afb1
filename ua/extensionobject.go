package ua

import "fmt"

// ExtensionObject body encoding byte, companion spec part 6, subclass 5.2.2.15.
const (
	ExtensionEncodingNone   byte = 0
	ExtensionEncodingBinary byte = 1
	ExtensionEncodingXML    byte = 2
)

// Payload is a decodable, polymorphic ExtensionObject body. Concrete
// request/response structures and other structured types implement it;
// the ExtensionRegistry maps a type id to a Constructor that produces a
// fresh, zero-valued Payload ready for Decode.
type Payload interface {
	Encode(e *Encoder)
	Decode(d *Decoder) error
}

// ExtensionObject is a self-describing polymorphic payload (spec.md §3).
// Exactly one of Body (resolved, typed) or Raw (unresolved, opaque) is
// meaningful when Encoding is Binary; the invariant from spec.md §3 is
// that every type id seen on the wire is either registered or passed
// through as raw bytes — never dropped.
type ExtensionObject struct {
	TypeId   NodeId
	Encoding byte
	Body     Payload
	Raw      []byte
}

// EncodeExtensionObject writes typeId, the encoding byte, and — for a
// binary body — the inner payload re-encoded into a length-prefixed
// ByteString.
func (e *Encoder) EncodeExtensionObject(eo ExtensionObject) {
	if e.err != nil {
		return
	}
	if err := e.EncodeNodeId(eo.TypeId); err != nil {
		return
	}
	e.writeByte(eo.Encoding)
	switch eo.Encoding {
	case ExtensionEncodingNone:
	case ExtensionEncodingBinary:
		if eo.Body != nil {
			inner := NewEncoder()
			eo.Body.Encode(inner)
			if inner.err != nil {
				e.fail(inner.err)
				return
			}
			e.writeByteString(inner.Bytes())
		} else {
			e.writeByteString(eo.Raw)
		}
	case ExtensionEncodingXML:
		e.writeByteString(eo.Raw)
	default:
		e.fail(Wrap(KindCodec, fmt.Errorf("%w: extension encoding %d", ErrUnsupportedEncoding, eo.Encoding)))
	}
}

// DecodeExtensionObject reads an ExtensionObject. If reg resolves typeId
// to a constructor, the inner bytes are re-decoded into that Payload;
// otherwise they are retained verbatim in Raw. A nil reg always yields a
// Raw body (the registry is optional for callers that only need to
// forward bytes, e.g. an unknown-typeId pass-through component).
func (d *Decoder) DecodeExtensionObject(reg *Registry) (ExtensionObject, error) {
	typeId, err := d.DecodeNodeId()
	if err != nil {
		return ExtensionObject{}, err
	}
	encoding, err := d.readByte()
	if err != nil {
		return ExtensionObject{}, err
	}
	eo := ExtensionObject{TypeId: typeId, Encoding: encoding}
	switch encoding {
	case ExtensionEncodingNone:
		return eo, nil
	case ExtensionEncodingBinary:
		body, err := d.readByteString()
		if err != nil {
			return ExtensionObject{}, err
		}
		if reg != nil {
			if payload, ok := reg.construct(typeId); ok {
				inner := NewDecoder(body)
				if err := payload.Decode(inner); err != nil {
					return ExtensionObject{}, Wrap(KindCodec, err)
				}
				eo.Body = payload
				return eo, nil
			}
		}
		eo.Raw = body
		return eo, nil
	case ExtensionEncodingXML:
		body, err := d.readByteString()
		if err != nil {
			return ExtensionObject{}, err
		}
		eo.Raw = body
		return eo, nil
	default:
		return ExtensionObject{}, Wrap(KindCodec, fmt.Errorf("%w: extension encoding %d", ErrUnsupportedEncoding, encoding))
	}
}
