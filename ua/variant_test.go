package ua

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantScalarRoundTrip(t *testing.T) {
	v := NewScalarVariant(VariantInt32, int32(-42))
	e := NewEncoder()
	require.NoError(t, e.EncodeVariant(v))

	got, err := NewDecoder(e.Bytes()).DecodeVariant()
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestVariantArrayRoundTrip(t *testing.T) {
	v := NewArrayVariant(VariantString, []interface{}{"a", "b", "c"})
	e := NewEncoder()
	require.NoError(t, e.EncodeVariant(v))

	got, err := NewDecoder(e.Bytes()).DecodeVariant()
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestVariantMatrixRoundTrip(t *testing.T) {
	v := Variant{
		Type:            VariantInt32,
		IsArray:         true,
		Array:           []interface{}{int32(1), int32(2), int32(3), int32(4)},
		ArrayDimensions: []int32{2, 2},
	}
	e := NewEncoder()
	require.NoError(t, e.EncodeVariant(v))

	got, err := NewDecoder(e.Bytes()).DecodeVariant()
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestDataValueRoundTrip(t *testing.T) {
	dv := DataValue{
		Value:     NewScalarVariant(VariantDouble, 98.6),
		HasValue:  true,
		Status:    BadTimeout,
		HasStatus: true,
	}
	e := NewEncoder()
	e.EncodeDataValue(dv)
	require.NoError(t, e.Err())

	got, err := NewDecoder(e.Bytes()).DecodeDataValue()
	require.NoError(t, err)
	require.Equal(t, dv.Value, got.Value)
	require.Equal(t, dv.Status, got.Status)
	require.False(t, got.HasSourceTimestamp)
}

func TestStatusCodeSeverity(t *testing.T) {
	require.True(t, Good.IsGood())
	require.True(t, BadTimeout.IsBad())
	require.True(t, UncertainReferenceOutOfServer.IsUncertain())
	require.Equal(t, "BadTimeout", BadTimeout.String())
}
