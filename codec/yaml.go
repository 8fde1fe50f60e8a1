package codec

import "gopkg.in/yaml.v3"

// YAML encodes the plain form as a YAML mapping.
var YAML Codec = yamlCodec{}

type yamlCodec struct{}

func (yamlCodec) Name() string  { return "yaml" }
func (yamlCodec) textual() bool { return true }

func (yamlCodec) Marshal(m map[string]any) ([]byte, error) {
	return yaml.Marshal(m)
}

func (yamlCodec) Unmarshal(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
