package ua

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestNodeIdCanonicalForm exercises property 2 of spec.md §8 and its
// scenario S6: every numeric NodeId encodes in the smallest legal wire
// form, never a larger one that would also decode correctly.
func TestNodeIdCanonicalForm(t *testing.T) {
	cases := []struct {
		name    string
		id      NodeId
		wantLen int
		wantTag byte
	}{
		{"two-byte", NewNumericNodeId(0, 13), 2, maskTwoByte},
		{"four-byte ns boundary", NewNumericNodeId(1, 0x7F), 4, maskFourByte},
		{"four-byte large id", NewNumericNodeId(1, 60000), 4, maskFourByte},
		{"full numeric ns overflow", NewNumericNodeId(300, 1), 7, maskNumeric},
		{"full numeric id overflow", NewNumericNodeId(0, 70000), 7, maskNumeric},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := NewEncoder()
			require.NoError(t, e.EncodeNodeId(c.id))
			require.Len(t, e.Bytes(), c.wantLen)
			require.Equal(t, c.wantTag, e.Bytes()[0])

			got, err := NewDecoder(e.Bytes()).DecodeNodeId()
			require.NoError(t, err)
			require.Equal(t, c.id, got)
		})
	}
}

func TestNodeIdStringAndGuidRoundTrip(t *testing.T) {
	g := uuid.New()
	id := NewGUIDNodeId(2, g)
	e := NewEncoder()
	require.NoError(t, e.EncodeNodeId(id))
	got, err := NewDecoder(e.Bytes()).DecodeNodeId()
	require.NoError(t, err)
	require.Equal(t, id, got)
	require.Contains(t, got.String(), "ns=2;g=")
}

func TestNodeIdStringVariant(t *testing.T) {
	id := NewStringNodeId(5, "Temperature")
	e := NewEncoder()
	require.NoError(t, e.EncodeNodeId(id))
	got, err := NewDecoder(e.Bytes()).DecodeNodeId()
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestNodeIdOpaqueVariant(t *testing.T) {
	id := NewOpaqueNodeId(7, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	e := NewEncoder()
	require.NoError(t, e.EncodeNodeId(id))
	got, err := NewDecoder(e.Bytes()).DecodeNodeId()
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestNodeIdIsNull(t *testing.T) {
	require.True(t, NodeId{}.IsNull())
	require.True(t, NewNumericNodeId(0, 0).IsNull())
	require.False(t, NewNumericNodeId(1, 0).IsNull())
	require.False(t, NewNumericNodeId(0, 1).IsNull())
}

func TestExpandedNodeIdRoundTrip(t *testing.T) {
	base := NewNumericNodeId(3, 42)
	exp := ExpandedNodeId{NodeId: base, HasNamespaceURI: true, NamespaceURI: "urn:example", HasServerIndex: true, ServerIndex: 7}

	e := NewEncoder()
	require.NoError(t, e.EncodeExpandedNodeId(exp))

	got, err := NewDecoder(e.Bytes()).DecodeExpandedNodeId()
	require.NoError(t, err)
	require.Equal(t, exp, got)
}

func TestDecodeNodeIdMalformedMask(t *testing.T) {
	_, err := NewDecoder([]byte{0xFF}).DecodeNodeId()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedMask)
}
