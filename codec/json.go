package codec

import "encoding/json"

// JSON encodes the plain form as a JSON object.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string  { return "json" }
func (jsonCodec) textual() bool { return true }

func (jsonCodec) Marshal(m map[string]any) ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes numbers to float64; FromPlain narrows them to the
// declared field types.
func (jsonCodec) Unmarshal(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
