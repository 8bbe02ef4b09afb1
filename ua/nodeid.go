package ua

import (
	"fmt"

	"github.com/google/uuid"
)

// IdType discriminates the NodeId identifier variant (spec.md §3).
type IdType byte

const (
	IdTypeNumeric IdType = iota
	IdTypeString
	IdTypeGuid
	IdTypeOpaque
)

func (t IdType) String() string {
	switch t {
	case IdTypeNumeric:
		return "Numeric"
	case IdTypeString:
		return "String"
	case IdTypeGuid:
		return "Guid"
	case IdTypeOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// encoding mask byte values, companion spec part 6, subclass 5.2.2.9.
const (
	maskTwoByte    byte = 0x00
	maskFourByte   byte = 0x01
	maskNumeric    byte = 0x02
	maskString     byte = 0x03
	maskGUID       byte = 0x04
	maskByteString byte = 0x05

	expandedFlagNamespaceURI byte = 0x80
	expandedFlagServerIndex  byte = 0x40
	expandedMaskBits         byte = 0x3f
)

// NodeId is the identity of every addressable OPC UA entity. It is a plain
// comparable struct — exactly one of Num/Str/Guid/Opaque is meaningful,
// selected by Type — so it can be used directly as a Go map key, which
// InformationModel and the ExtensionRegistry both rely on.
//
// Invariant: a NodeId with Namespace 0 and Type Numeric refers to the
// standard OPC UA namespace (spec.md §3).
type NodeId struct {
	Namespace uint16
	Type      IdType
	Num       uint32
	Str       string
	Guid      uuid.UUID
	Opaque    string // ByteString content; string used so NodeId stays comparable
}

// NewNumericNodeId builds a Numeric-variant NodeId.
func NewNumericNodeId(ns uint16, id uint32) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeNumeric, Num: id}
}

// NewStringNodeId builds a String-variant NodeId.
func NewStringNodeId(ns uint16, id string) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeString, Str: id}
}

// NewGUIDNodeId builds a Guid-variant NodeId.
func NewGUIDNodeId(ns uint16, id uuid.UUID) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeGuid, Guid: id}
}

// NewOpaqueNodeId builds an Opaque (ByteString)-variant NodeId.
func NewOpaqueNodeId(ns uint16, id []byte) NodeId {
	return NodeId{Namespace: ns, Type: IdTypeOpaque, Opaque: string(id)}
}

// IsNull reports whether id is the null NodeId (ns=0, numeric 0), the
// canonical "no value" sentinel used throughout the service set.
func (id NodeId) IsNull() bool {
	return id.Namespace == 0 && id.Type == IdTypeNumeric && id.Num == 0
}

func (id NodeId) String() string {
	switch id.Type {
	case IdTypeNumeric:
		return fmt.Sprintf("ns=%d;i=%d", id.Namespace, id.Num)
	case IdTypeString:
		return fmt.Sprintf("ns=%d;s=%s", id.Namespace, id.Str)
	case IdTypeGuid:
		return fmt.Sprintf("ns=%d;g=%s", id.Namespace, id.Guid.String())
	case IdTypeOpaque:
		return fmt.Sprintf("ns=%d;b=%x", id.Namespace, []byte(id.Opaque))
	default:
		return "ns=?;?=?"
	}
}

// EncodeNodeId writes id in its canonical smallest legal form
// (spec.md §4.1, testable property 2 of spec.md §8).
func (e *Encoder) EncodeNodeId(id NodeId) error {
	switch id.Type {
	case IdTypeNumeric:
		switch {
		case id.Namespace == 0 && id.Num <= 255:
			e.writeByte(maskTwoByte)
			e.writeByte(byte(id.Num))
		case id.Namespace <= 255 && id.Num <= 65535:
			e.writeByte(maskFourByte)
			e.writeByte(byte(id.Namespace))
			e.writeUint16(uint16(id.Num))
		default:
			e.writeByte(maskNumeric)
			e.writeUint16(id.Namespace)
			e.writeUint32(id.Num)
		}
	case IdTypeString:
		e.writeByte(maskString)
		e.writeUint16(id.Namespace)
		e.writeString(id.Str)
	case IdTypeGuid:
		e.writeByte(maskGUID)
		e.writeUint16(id.Namespace)
		e.writeGUIDBytes(id.Guid)
	case IdTypeOpaque:
		e.writeByte(maskByteString)
		e.writeUint16(id.Namespace)
		e.writeByteString([]byte(id.Opaque))
	default:
		err := Wrap(KindCodec, fmt.Errorf("%w: unknown NodeId type %d", ErrUnsupportedEncoding, id.Type))
		e.fail(err)
		return err
	}
	return e.err
}

// DecodeNodeId reads a NodeId in any of its legal wire forms.
func (d *Decoder) DecodeNodeId() (NodeId, error) {
	mask, err := d.readByte()
	if err != nil {
		return NodeId{}, err
	}
	switch mask {
	case maskTwoByte:
		b, err := d.readByte()
		if err != nil {
			return NodeId{}, err
		}
		return NewNumericNodeId(0, uint32(b)), nil
	case maskFourByte:
		ns, err := d.readByte()
		if err != nil {
			return NodeId{}, err
		}
		id, err := d.readUint16()
		if err != nil {
			return NodeId{}, err
		}
		return NewNumericNodeId(uint16(ns), uint32(id)), nil
	case maskNumeric:
		ns, err := d.readUint16()
		if err != nil {
			return NodeId{}, err
		}
		id, err := d.readUint32()
		if err != nil {
			return NodeId{}, err
		}
		return NewNumericNodeId(ns, id), nil
	case maskString:
		ns, err := d.readUint16()
		if err != nil {
			return NodeId{}, err
		}
		s, err := d.readString()
		if err != nil {
			return NodeId{}, err
		}
		return NewStringNodeId(ns, s), nil
	case maskGUID:
		ns, err := d.readUint16()
		if err != nil {
			return NodeId{}, err
		}
		g, err := d.readGUIDBytes()
		if err != nil {
			return NodeId{}, err
		}
		return NewGUIDNodeId(ns, g), nil
	case maskByteString:
		ns, err := d.readUint16()
		if err != nil {
			return NodeId{}, err
		}
		b, err := d.readByteString()
		if err != nil {
			return NodeId{}, err
		}
		return NewOpaqueNodeId(ns, b), nil
	default:
		return NodeId{}, Wrap(KindCodec, fmt.Errorf("%w: encoding mask 0x%02x", ErrMalformedMask, mask))
	}
}

// ExpandedNodeId extends NodeId with an optional namespace URI and server
// index (spec.md §3, §4.1).
type ExpandedNodeId struct {
	NodeId
	NamespaceURI string
	HasNamespaceURI bool
	ServerIndex  uint32
	HasServerIndex bool
}

// EncodeExpandedNodeId writes the NodeId encoding mask with the two extra
// presence bits set as needed, followed by the optional fields.
func (e *Encoder) EncodeExpandedNodeId(id ExpandedNodeId) error {
	// Borrow EncodeNodeId's logic, then patch the mask byte it wrote with
	// the presence flags, so the form selection stays centralized in one
	// place.
	start := len(e.buf)
	if err := e.EncodeNodeId(id.NodeId); err != nil {
		return err
	}
	if len(e.buf) <= start {
		return e.err
	}
	flags := byte(0)
	if id.HasNamespaceURI {
		flags |= expandedFlagNamespaceURI
	}
	if id.HasServerIndex {
		flags |= expandedFlagServerIndex
	}
	e.buf[start] |= flags
	if id.HasNamespaceURI {
		e.writeString(id.NamespaceURI)
	}
	if id.HasServerIndex {
		e.writeUint32(id.ServerIndex)
	}
	return e.err
}

// DecodeExpandedNodeId reads an ExpandedNodeId, including its optional
// trailing fields gated by the mask's two high presence bits.
func (d *Decoder) DecodeExpandedNodeId() (ExpandedNodeId, error) {
	if d.err != nil {
		return ExpandedNodeId{}, d.err
	}
	if len(d.buf) < 1 {
		return ExpandedNodeId{}, Wrap(KindCodec, ErrTruncated)
	}
	maskByte := d.buf[0]
	hasURI := maskByte&expandedFlagNamespaceURI != 0
	hasIdx := maskByte&expandedFlagServerIndex != 0
	masked := *d
	masked.buf = append([]byte(nil), d.buf...)
	masked.buf[0] = maskByte &^ (expandedFlagNamespaceURI | expandedFlagServerIndex)
	id, err := masked.DecodeNodeId()
	if err != nil {
		return ExpandedNodeId{}, err
	}
	*d = masked
	out := ExpandedNodeId{NodeId: id, HasNamespaceURI: hasURI, HasServerIndex: hasIdx}
	if hasURI {
		uri, err := d.readString()
		if err != nil {
			return ExpandedNodeId{}, err
		}
		out.NamespaceURI = uri
	}
	if hasIdx {
		idx, err := d.readUint32()
		if err != nil {
			return ExpandedNodeId{}, err
		}
		out.ServerIndex = idx
	}
	return out, nil
}
