package ua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func timeFixture() time.Time {
	return time.Date(2026, 7, 29, 12, 30, 0, 0, time.UTC)
}

// TestCodecRoundTrip exercises property 1 of spec.md §8: decode(encode(v))
// == v, for every built-in scalar type the Encoder/Decoder pair supports.
func TestCodecRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.EncodeBoolean(true)
	e.EncodeSByte(-12)
	e.EncodeByte(200)
	e.EncodeInt16(-1000)
	e.EncodeUint16(60000)
	e.EncodeInt32(-100000)
	e.EncodeUint32(4000000000)
	e.EncodeInt64(-9000000000000)
	e.EncodeUint64(18000000000000000000)
	e.EncodeFloat(3.5)
	e.EncodeDouble(-2.25)
	e.EncodeString(false, "hello")
	e.EncodeString(true, "ignored")
	e.EncodeByteString([]byte{1, 2, 3})
	e.EncodeByteString(nil)
	require.NoError(t, e.Err())

	d := NewDecoder(e.Bytes())
	b, err := d.DecodeBoolean()
	require.NoError(t, err)
	require.True(t, b)

	sb, err := d.DecodeSByte()
	require.NoError(t, err)
	require.EqualValues(t, -12, sb)

	by, err := d.DecodeByte()
	require.NoError(t, err)
	require.EqualValues(t, 200, by)

	i16, err := d.DecodeInt16()
	require.NoError(t, err)
	require.EqualValues(t, -1000, i16)

	u16, err := d.DecodeUint16()
	require.NoError(t, err)
	require.EqualValues(t, 60000, u16)

	i32, err := d.DecodeInt32()
	require.NoError(t, err)
	require.EqualValues(t, -100000, i32)

	u32, err := d.DecodeUint32()
	require.NoError(t, err)
	require.EqualValues(t, 4000000000, u32)

	i64, err := d.DecodeInt64()
	require.NoError(t, err)
	require.EqualValues(t, -9000000000000, i64)

	u64, err := d.DecodeUint64()
	require.NoError(t, err)
	require.EqualValues(t, uint64(18000000000000000000), u64)

	f, err := d.DecodeFloat()
	require.NoError(t, err)
	require.EqualValues(t, 3.5, f)

	dbl, err := d.DecodeDouble()
	require.NoError(t, err)
	require.EqualValues(t, -2.25, dbl)

	s, ok, err := d.DecodeString()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", s)

	s2, ok2, err := d.DecodeString()
	require.NoError(t, err)
	require.False(t, ok2)
	require.Equal(t, "", s2)

	bs, err := d.DecodeByteString()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, bs)

	bs2, err := d.DecodeByteString()
	require.NoError(t, err)
	require.Nil(t, bs2)

	require.NoError(t, d.Err())
	require.Empty(t, d.Remaining())
}

func TestDecodeTruncatedInputFails(t *testing.T) {
	d := NewDecoder([]byte{0x01})
	_, err := d.DecodeUint32()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestEncoderNeverPartiallyMutatesOnError(t *testing.T) {
	e := NewEncoder()
	e.EncodeUint32(7)
	bad := NodeId{Type: IdType(99)}
	err := e.EncodeNodeId(bad)
	require.Error(t, err)
	before := append([]byte(nil), e.Bytes()...)
	e.EncodeUint32(9) // further writes after an error must be no-ops
	require.Equal(t, before, e.Bytes())
}

func TestDateTimeTicksRoundTrip(t *testing.T) {
	ticks := DateTimeToTicks(TicksToDateTime(0))
	require.EqualValues(t, 0, ticks)

	now := TicksToDateTime(DateTimeToTicks(timeFixture()))
	require.Equal(t, timeFixture().UnixNano()/100, now.UnixNano()/100)
}
