package rowjson

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortedKeys(t *testing.T) {
	b, err := Marshal(map[string]any{
		"T.b": "x",
		"T.a": int64(5),
		"S.z": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"S.z":null,"T.a":5,"T.b":"x"}`, string(b))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	b, err := Marshal(map[string]any{"html": "<a>&</a>"})
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<a>&</a>"}`, string(b))
}

func TestMarshal_NFCNormalizesKeysOnly(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9 in keys
	b, err := Marshal(map[string]any{"caf\u0065\u0301": "e\u0301"})
	require.NoError(t, err)
	assert.Equal(t, "{\"caf\u00e9\":\"e\u0301\"}", string(b))
}

func TestMarshal_KeysCollidingAfterNFC(t *testing.T) {
	_, err := Marshal(map[string]any{"\u00e9": 1, "e\u0301": 2})
	assert.Error(t, err)
}

func TestMarshal_BinaryBytesAsBase64(t *testing.T) {
	blob := []byte{0xff, 0x00, 0xfe, 'a'}
	b, err := Marshal(map[string]any{"blob": blob, "text": []byte("e\u0301")})
	require.NoError(t, err)
	assert.Equal(t, "{\"blob\":\"/wD+YQ==\",\"text\":\"e\u0301\"}", string(b))
}

func TestMarshal_ValueTypes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b, err := Marshal(map[string]any{
		"bool":  true,
		"bytes": []byte("raw"),
		"float": 1.5,
		"int":   42,
		"list":  []any{int64(1), "two"},
		"time":  ts,
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"bool":true,"bytes":"raw","float":1.5,"int":42,"list":[1,"two"],"time":"2024-03-01T12:00:00Z"}`,
		string(b))
}

func TestMarshal_RejectsNonFinite(t *testing.T) {
	_, err := Marshal(map[string]any{"x": math.NaN()})
	assert.Error(t, err)

	_, err = Marshal(map[string]any{"x": math.Inf(1)})
	assert.Error(t, err)
}

func TestMarshal_RejectsUnsupported(t *testing.T) {
	_, err := Marshal(map[string]any{"x": struct{}{}})
	assert.ErrorContains(t, err, "unsupported type")
}

func TestMarshalLines(t *testing.T) {
	b, err := MarshalLines([]map[string]any{
		{"a": int64(1)},
		{"a": int64(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", string(b))
}

func TestMarshalLines_Empty(t *testing.T) {
	b, err := MarshalLines(nil)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestCompareUTF16(t *testing.T) {
	assert.Negative(t, compareUTF16("a", "b"))
	assert.Positive(t, compareUTF16("b", "a"))
	assert.Zero(t, compareUTF16("a", "a"))
	assert.Negative(t, compareUTF16("a", "ab"))
	// U+1F600 encodes as surrogate 0xD83D, which sorts before U+FF61
	assert.Positive(t, compareUTF16("\uFF61", "\U0001F600"))
}
