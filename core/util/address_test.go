package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEthereumAddressNormalizesCase(t *testing.T) {
	mixed, err := NewEthereumAddressFromString("0x7D0262F9dc4F014CbbFFe8C6eFDb2DE509856Aa4")
	require.NoError(t, err)

	lower, err := NewEthereumAddressFromString("0x7d0262f9dc4f014cbbffe8c6efdb2de509856aa4")
	require.NoError(t, err)

	assert.True(t, mixed.Equal(lower))
	assert.Equal(t, lower.Address(), mixed.Address())
	assert.Equal(t, "0x7d0262f9dc4f014cbbffe8c6efdb2de509856aa4", mixed.Address())
}

func TestNewEthereumAddressRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0x123", "not-an-address", "0xzz0262f9dc4f014cbbffe8c6efdb2de509856aa4"} {
		_, err := NewEthereumAddressFromString(s)
		require.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestNewEthereumAddressFromBytes(t *testing.T) {
	orig := Unsafe_NewEthereumAddressFromString("0x7d0262f9dc4f014cbbffe8c6efdb2de509856aa4")

	fromBytes, err := NewEthereumAddressFromBytes(orig.Bytes())
	require.NoError(t, err)
	assert.True(t, orig.Equal(fromBytes))

	_, err = NewEthereumAddressFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
