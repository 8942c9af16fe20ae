package cafs

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "911bc2b07dd96c21ef3ab8b56ffeca4e0b8d1b74ea7667dd67eb2d037c1b4880"

func TestKey_FailsOnIncorrectSize(t *testing.T) {
	data1 := make([]byte, 31)
	data2 := make([]byte, 33)
	data3 := make([]byte, 32)

	_, err := rand.Read(data1)
	require.NoError(t, err)
	_, err = rand.Read(data2)
	require.NoError(t, err)
	_, err = rand.Read(data3)
	require.NoError(t, err)

	_, err = NewKey(data1)
	require.Error(t, err)
	var bad *BadKeySize
	require.ErrorAs(t, err, &bad)

	_, err = NewKey(data2)
	require.Error(t, err)

	k, err := NewKey(data3)
	require.NoError(t, err)
	assert.Len(t, k, 32)

	assert.Panics(t, func() { MustNewKey(data1) })
	assert.NotPanics(t, func() { MustNewKey(data3) })
}

func TestKey_Succeeds(t *testing.T) {
	data, err := hex.DecodeString(testKey)
	require.NoError(t, err)

	key, err := NewKey(data)
	require.NoError(t, err)
	assert.Equal(t, testKey, key.String())
	assert.Equal(t, testKey[:12], key.Short())
	assert.Equal(t, "node/"+testKey, key.StringWithPrefix("node/"))
	assert.False(t, key.IsZero())
	assert.True(t, Key{}.IsZero())

	parsed, err := KeyFromString(testKey)
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = KeyFromString(testKey[:10])
	require.Error(t, err)

	_, err = KeyFromString("zz" + testKey[2:])
	require.Error(t, err)
}

func TestKey_BinaryAndText(t *testing.T) {
	key, err := KeyFromString(testKey)
	require.NoError(t, err)

	b, err := key.MarshalBinary()
	require.NoError(t, err)
	var decoded Key
	require.NoError(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, key, decoded)
	require.Error(t, decoded.UnmarshalBinary(b[:20]))

	txt, err := key.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, testKey, string(txt))

	var fromText Key
	require.NoError(t, fromText.UnmarshalText(txt))
	assert.Equal(t, key, fromText)
}
