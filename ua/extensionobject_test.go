package ua

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fixturePayload struct {
	Value int32
}

func (f *fixturePayload) Encode(e *Encoder) { e.EncodeInt32(f.Value) }
func (f *fixturePayload) Decode(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	f.Value = v
	return nil
}

func TestExtensionObjectRegistryResolvesRegisteredType(t *testing.T) {
	reg := NewRegistry()
	typeId := NewNumericNodeId(1, 100)
	require.NoError(t, reg.Register(typeId, func() Payload { return &fixturePayload{} }))

	eo := ExtensionObject{TypeId: typeId, Encoding: ExtensionEncodingBinary, Body: &fixturePayload{Value: 77}}
	e := NewEncoder()
	e.EncodeExtensionObject(eo)
	require.NoError(t, e.Err())

	got, err := NewDecoder(e.Bytes()).DecodeExtensionObject(reg)
	require.NoError(t, err)
	require.Nil(t, got.Raw)
	body, ok := got.Body.(*fixturePayload)
	require.True(t, ok)
	require.EqualValues(t, 77, body.Value)
}

func TestExtensionObjectUnresolvedFallsBackToRaw(t *testing.T) {
	reg := NewRegistry()
	typeId := NewNumericNodeId(1, 200)

	eo := ExtensionObject{TypeId: typeId, Encoding: ExtensionEncodingBinary, Body: &fixturePayload{Value: 9}}
	e := NewEncoder()
	e.EncodeExtensionObject(eo)
	require.NoError(t, e.Err())

	got, err := NewDecoder(e.Bytes()).DecodeExtensionObject(reg)
	require.NoError(t, err)
	require.Nil(t, got.Body)
	require.NotEmpty(t, got.Raw)
}

func TestExtensionObjectNilRegistryYieldsRaw(t *testing.T) {
	typeId := NewNumericNodeId(1, 300)
	eo := ExtensionObject{TypeId: typeId, Encoding: ExtensionEncodingBinary, Body: &fixturePayload{Value: 5}}
	e := NewEncoder()
	e.EncodeExtensionObject(eo)

	got, err := NewDecoder(e.Bytes()).DecodeExtensionObject(nil)
	require.NoError(t, err)
	require.Nil(t, got.Body)
	require.NotEmpty(t, got.Raw)
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	typeId := NewNumericNodeId(1, 400)
	require.NoError(t, reg.Register(typeId, func() Payload { return &fixturePayload{} }))
	err := reg.Register(typeId, func() Payload { return &fixturePayload{} })
	require.ErrorIs(t, err, ErrDuplicateType)

	reg.Deregister(typeId)
	require.NoError(t, reg.Register(typeId, func() Payload { return &fixturePayload{} }))
}

func TestExtensionObjectNoneEncoding(t *testing.T) {
	eo := ExtensionObject{TypeId: NewNumericNodeId(0, 0), Encoding: ExtensionEncodingNone}
	e := NewEncoder()
	e.EncodeExtensionObject(eo)
	require.NoError(t, e.Err())

	got, err := NewDecoder(e.Bytes()).DecodeExtensionObject(nil)
	require.NoError(t, err)
	require.Equal(t, ExtensionEncodingNone, got.Encoding)
	require.Nil(t, got.Body)
	require.Nil(t, got.Raw)
}
