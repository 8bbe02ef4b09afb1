package ua

import (
	"fmt"

	"github.com/google/uuid"
)

// VariantTypeID is the built-in type discriminator carried in a Variant's
// encoding mask (companion spec part 6, subclass 5.1.2 / table 1).
type VariantTypeID byte

const (
	VariantBoolean VariantTypeID = iota + 1
	VariantSByte
	VariantByte
	VariantInt16
	VariantUInt16
	VariantInt32
	VariantUInt32
	VariantInt64
	VariantUInt64
	VariantFloat
	VariantDouble
	VariantString
	VariantDateTime
	VariantGuid
	VariantByteString
	VariantXmlElement
	VariantNodeId
	VariantExpandedNodeId
	VariantStatusCode
	VariantQualifiedName
	VariantLocalizedText
	VariantExtensionObject
	VariantDataValue
	VariantVariant
)

const (
	variantArrayFlag     byte = 0x80
	variantDimsFlag      byte = 0x40
	variantTypeMask      byte = 0x3f
)

// Variant is a discriminated union over every built-in scalar type plus
// array/matrix forms (spec.md §3). Exactly one of Scalar (IsArray=false)
// or Array (IsArray=true) is populated; ArrayDimensions is only
// meaningful when non-empty (a matrix).
type Variant struct {
	Type            VariantTypeID
	IsArray         bool
	Scalar          interface{}
	Array           []interface{}
	ArrayDimensions []int32
}

// NewScalarVariant wraps a single value of the given type.
func NewScalarVariant(t VariantTypeID, v interface{}) Variant {
	return Variant{Type: t, Scalar: v}
}

// NewArrayVariant wraps a homogeneous slice of values of the given type.
func NewArrayVariant(t VariantTypeID, v []interface{}) Variant {
	return Variant{Type: t, IsArray: true, Array: v}
}

func (e *Encoder) encodeVariantValue(t VariantTypeID, v interface{}) error {
	switch t {
	case VariantBoolean:
		e.EncodeBoolean(v.(bool))
	case VariantSByte:
		e.EncodeSByte(v.(int8))
	case VariantByte:
		e.EncodeByte(v.(uint8))
	case VariantInt16:
		e.EncodeInt16(v.(int16))
	case VariantUInt16:
		e.EncodeUint16(v.(uint16))
	case VariantInt32:
		e.EncodeInt32(v.(int32))
	case VariantUInt32:
		e.EncodeUint32(v.(uint32))
	case VariantInt64:
		e.EncodeInt64(v.(int64))
	case VariantUInt64:
		e.EncodeUint64(v.(uint64))
	case VariantFloat:
		e.EncodeFloat(v.(float32))
	case VariantDouble:
		e.EncodeDouble(v.(float64))
	case VariantString:
		e.EncodeString(false, v.(string))
	case VariantDateTime:
		e.EncodeInt64(v.(int64))
	case VariantGuid:
		e.writeGUIDBytes(v.(uuid.UUID))
	case VariantByteString, VariantXmlElement:
		e.EncodeByteString(v.([]byte))
	case VariantNodeId:
		return e.EncodeNodeId(v.(NodeId))
	case VariantExpandedNodeId:
		return e.EncodeExpandedNodeId(v.(ExpandedNodeId))
	case VariantStatusCode:
		e.EncodeUint32(uint32(v.(StatusCode)))
	case VariantQualifiedName:
		e.EncodeQualifiedName(v.(QualifiedName))
	case VariantLocalizedText:
		e.EncodeLocalizedText(v.(LocalizedText))
	case VariantExtensionObject:
		e.EncodeExtensionObject(v.(ExtensionObject))
	case VariantDataValue:
		e.EncodeDataValue(v.(DataValue))
	case VariantVariant:
		e.EncodeVariant(v.(Variant))
	default:
		err := Wrap(KindCodec, fmt.Errorf("%w: variant type %d", ErrUnsupportedEncoding, t))
		e.fail(err)
		return err
	}
	return e.err
}

// EncodeVariant writes the encoding mask followed by the scalar value or
// array contents, and — for a matrix — the trailing ArrayDimensions.
func (e *Encoder) EncodeVariant(v Variant) error {
	mask := byte(v.Type) & variantTypeMask
	if v.IsArray {
		mask |= variantArrayFlag
		if len(v.ArrayDimensions) > 0 {
			mask |= variantDimsFlag
		}
	}
	e.writeByte(mask)
	if !v.IsArray {
		return e.encodeVariantValue(v.Type, v.Scalar)
	}
	e.writeUint32(uint32(int32(len(v.Array))))
	for _, elem := range v.Array {
		if err := e.encodeVariantValue(v.Type, elem); err != nil {
			return err
		}
	}
	if len(v.ArrayDimensions) > 0 {
		e.writeUint32(uint32(int32(len(v.ArrayDimensions))))
		for _, dim := range v.ArrayDimensions {
			e.writeUint32(uint32(dim))
		}
	}
	return e.err
}

func (d *Decoder) decodeVariantValue(t VariantTypeID) (interface{}, error) {
	switch t {
	case VariantBoolean:
		return d.DecodeBoolean()
	case VariantSByte:
		return d.DecodeSByte()
	case VariantByte:
		return d.DecodeByte()
	case VariantInt16:
		return d.DecodeInt16()
	case VariantUInt16:
		return d.DecodeUint16()
	case VariantInt32:
		return d.DecodeInt32()
	case VariantUInt32:
		return d.DecodeUint32()
	case VariantInt64:
		return d.DecodeInt64()
	case VariantUInt64:
		return d.DecodeUint64()
	case VariantFloat:
		return d.DecodeFloat()
	case VariantDouble:
		return d.DecodeDouble()
	case VariantString:
		s, _, err := d.DecodeString()
		return s, err
	case VariantDateTime:
		return d.DecodeInt64()
	case VariantGuid:
		return d.readGUIDBytes()
	case VariantByteString, VariantXmlElement:
		return d.DecodeByteString()
	case VariantNodeId:
		return d.DecodeNodeId()
	case VariantExpandedNodeId:
		return d.DecodeExpandedNodeId()
	case VariantStatusCode:
		v, err := d.DecodeUint32()
		return StatusCode(v), err
	case VariantQualifiedName:
		return d.DecodeQualifiedName()
	case VariantLocalizedText:
		return d.DecodeLocalizedText()
	case VariantExtensionObject:
		return d.DecodeExtensionObject(nil)
	case VariantDataValue:
		return d.DecodeDataValue()
	case VariantVariant:
		return d.DecodeVariant()
	default:
		return nil, d.fail(Wrap(KindCodec, fmt.Errorf("%w: variant type %d", ErrUnsupportedEncoding, t)))
	}
}

// DecodeVariant reads a Variant in either scalar or array/matrix form.
func (d *Decoder) DecodeVariant() (Variant, error) {
	mask, err := d.readByte()
	if err != nil {
		return Variant{}, err
	}
	t := VariantTypeID(mask & variantTypeMask)
	isArray := mask&variantArrayFlag != 0
	hasDims := mask&variantDimsFlag != 0

	if !isArray {
		v, err := d.decodeVariantValue(t)
		if err != nil {
			return Variant{}, err
		}
		return Variant{Type: t, Scalar: v}, nil
	}

	n, err := d.readUint32()
	if err != nil {
		return Variant{}, err
	}
	length := int32(n)
	if length < nullLength {
		return Variant{}, d.fail(Wrap(KindCodec, ErrLengthOutOfRange))
	}
	out := Variant{Type: t, IsArray: true}
	if length > 0 {
		out.Array = make([]interface{}, 0, length)
		for i := int32(0); i < length; i++ {
			v, err := d.decodeVariantValue(t)
			if err != nil {
				return Variant{}, err
			}
			out.Array = append(out.Array, v)
		}
	}
	if hasDims {
		dn, err := d.readUint32()
		if err != nil {
			return Variant{}, err
		}
		dims := make([]int32, 0, int32(dn))
		for i := uint32(0); i < dn; i++ {
			dv, err := d.readUint32()
			if err != nil {
				return Variant{}, err
			}
			dims = append(dims, int32(dv))
		}
		out.ArrayDimensions = dims
	}
	return out, nil
}
