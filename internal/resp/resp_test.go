package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeCommand covers spec scenario S1.
func TestEncodeCommand(t *testing.T) {
	got := AppendCommand(nil, [][]byte{[]byte("GET"), []byte("key")})
	assert.Equal(t, "*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n", string(got))
}

// TestParseNullBulk covers spec scenario S2.
func TestParseNullBulk(t *testing.T) {
	v, n, err := ParseValue([]byte("$-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, v.IsNullBulk())
}

func TestParseSimpleStringAndError(t *testing.T) {
	v, n, err := ParseValue([]byte("+OK\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, KindSimpleString, v.Kind)
	assert.Equal(t, "OK", string(v.Str))

	v, n, err = ParseValue([]byte("-ERR boom\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, KindError, v.Kind)
	assert.Equal(t, "ERR boom", string(v.Str))
}

func TestParseInteger(t *testing.T) {
	v, n, err := ParseValue([]byte(":-42\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, int64(-42), v.Int)

	v, _, err = ParseValue([]byte(":0\r\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int)
}

func TestParseIntegerSaturatesOnOverflow(t *testing.T) {
	v, _, err := ParseValue([]byte(":99999999999999999999999\r\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), v.Int)

	v, _, err = ParseValue([]byte(":-99999999999999999999999\r\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), v.Int)
}

func TestParseBulk(t *testing.T) {
	v, n, err := ParseValue([]byte("$5\r\nhello\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, "hello", string(v.Bulk))

	v, n, err = ParseValue([]byte("$0\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 0, len(v.Bulk))
}

func TestParseArrayNegativeLengthIsEmpty(t *testing.T) {
	v, n, err := ParseValue([]byte("*-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, KindArray, v.Kind)
	assert.Empty(t, v.Array)
}

func TestParseArrayNested(t *testing.T) {
	raw := "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"
	v, n, err := ParseValue([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	require.Len(t, v.Array, 2)
	assert.Equal(t, "GET", string(v.Array[0].Bulk))
	assert.Equal(t, "foo", string(v.Array[1].Bulk))
}

func TestParseCommand(t *testing.T) {
	raw := "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"
	args, n, err := ParseCommand([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	require.Len(t, args, 2)
	assert.Equal(t, "GET", string(args[0]))
	assert.Equal(t, "foo", string(args[1]))
}

func TestParseCommandRejectsNonArray(t *testing.T) {
	_, _, err := ParseCommand([]byte("+OK\r\n"))
	assert.ErrorIs(t, err, ErrProtocol)
}

// TestParsePartialInputIsNeedMore covers spec invariant 4: a partial prefix
// of an encoded value yields (0, nil), never an error, and never a value.
func TestParsePartialInputIsNeedMore(t *testing.T) {
	full := AppendCommand(nil, [][]byte{[]byte("SET"), []byte("k"), []byte("v")})
	for i := 0; i < len(full); i++ {
		v, n, err := ParseValue(full[:i])
		require.NoError(t, err, "prefix length %d", i)
		assert.Equal(t, 0, n, "prefix length %d", i)
		assert.Equal(t, Value{}, v, "prefix length %d", i)
	}
}

func TestParseUnknownPrefixIsProtocolError(t *testing.T) {
	_, _, err := ParseValue([]byte("!nope\r\n"))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseMissingCRLFIsNeedMoreNotError(t *testing.T) {
	// No terminator at all yet: this is "need more bytes", not a protocol
	// error, since more could still arrive.
	v, n, err := ParseValue([]byte("+OK"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, Value{}, v)
}

func TestParseBadIntegerIsProtocolError(t *testing.T) {
	_, _, err := ParseValue([]byte(":12x4\r\n"))
	assert.ErrorIs(t, err, ErrProtocol)
}

// TestRoundTrip covers spec invariant 3: P(E(args)) == args.
func TestRoundTrip(t *testing.T) {
	cases := [][][]byte{
		{[]byte("PING")},
		{[]byte("GET"), []byte("key")},
		{[]byte("SET"), []byte("key"), []byte("value")},
		{[]byte("SET"), []byte("key"), []byte(""), []byte("EX"), []byte("5")},
		{[]byte("DEL"), []byte("a"), []byte("b"), []byte("c")},
	}
	for _, args := range cases {
		encoded := AppendCommand(nil, args)
		got, n, err := ParseCommand(encoded)
		require.NoError(t, err)
		assert.Equal(t, len(encoded), n)
		require.Len(t, got, len(args))
		for i := range args {
			assert.Equal(t, string(args[i]), string(got[i]))
		}
	}
}
