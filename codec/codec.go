// Package codec encodes compiled instances through their plain form.
//
//	data, err := codec.Encode(codec.JSON, inst)
//	back, err := codec.Decode(codec.JSON, class, data)
//
// The plain form is produced by Instance.ToPlain and read back by
// Class.FromPlain; codecs only move it to and from bytes.
package codec

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/gen"
)

// Codec converts a plain structure to bytes and back.
type Codec interface {
	// Name of the format, e.g. "json".
	Name() string
	Marshal(map[string]any) ([]byte, error)
	Unmarshal([]byte) (map[string]any, error)
}

// Encode converts an instance to its plain form and marshals it.
func Encode(c Codec, inst *gen.Instance, opts ...gen.PlainOption) ([]byte, error) {
	m, err := inst.ToPlain(opts...)
	if err != nil {
		return nil, err
	}
	if t, ok := c.(textual); ok && t.textual() {
		m = textMap(m)
	}
	data, err := c.Marshal(m)
	if err != nil {
		return nil, &attrs.SerializationError{Class: inst.Class().Name(), Message: fmt.Sprintf("%s encoding failed", c.Name()), Cause: err}
	}
	return data, nil
}

// Decode unmarshals data and constructs an instance of the class.
func Decode(c Codec, class *gen.Class, data []byte, opts ...gen.PlainOption) (*gen.Instance, error) {
	m, err := c.Unmarshal(data)
	if err != nil {
		return nil, &attrs.SerializationError{Class: class.Name(), Message: fmt.Sprintf("%s decoding failed", c.Name()), Cause: err}
	}
	return class.FromPlain(m, opts...)
}

// textual is implemented by codecs of text formats, which receive
// times, UUIDs and bytes in their string form.
type textual interface {
	textual() bool
}

func textMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = text(v)
	}
	return out
}

func text(v any) any {
	switch v := v.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case uuid.UUID:
		return v.String()
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	case map[string]any:
		return textMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = text(e)
		}
		return out
	default:
		return v
	}
}
