package multistorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializerFor(t *testing.T) {
	for format, want := range map[string]Serializer{
		"":     JSON,
		"json": JSON,
		"JSON": JSON,
		"yaml": YAML,
		"yml":  YAML,
	} {
		got, err := SerializerFor(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, got, format)
	}

	_, err := SerializerFor("gob")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSerializers_RoundTrip(t *testing.T) {
	in := map[string]any{"name": "ada", "tags": []any{"a", "b"}, "ok": true}

	for name, ser := range map[string]Serializer{"json": JSON, "yaml": YAML} {
		t.Run(name, func(t *testing.T) {
			text, err := ser.Encode(in)
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, ser.Decode(text, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestJSON_EncodeRejectsUnsupported(t *testing.T) {
	_, err := JSON.Encode(map[string]any{"c": make(chan int)})
	assert.Error(t, err)
}

func TestYAML_DecodeRejectsScalar(t *testing.T) {
	var out map[string]any
	assert.Error(t, YAML.Decode("just text", &out))
}

func TestYAML_EncodeCycles(t *testing.T) {
	shared := []any{"a", "b"}
	text, err := YAML.Encode(map[string]any{"x": shared, "y": shared})
	require.NoError(t, err, "shared values are not cycles")
	assert.Equal(t, "x:\n    - a\n    - b\ny:\n    - a\n    - b\n", text)

	list := []any{nil}
	list[0] = list
	_, err = YAML.Encode(map[string]any{"list": list})
	assert.ErrorContains(t, err, "cycle")

	m := map[string]any{}
	m["inner"] = map[string]any{"outer": m}
	_, err = YAML.Encode(m)
	assert.ErrorContains(t, err, "cycle")
}
