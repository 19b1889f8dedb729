package storekit

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

// wireJSON matches JSON.stringify byte for byte for the types in this
// package: struct field order is kept, '<', '>' and '&' are not escaped and
// floats use the shortest round-trip form.
var wireJSON = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            false,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal encodes v with the wire codec used for item content and envelopes.
func Marshal(v any) ([]byte, error) {
	b, err := wireJSON.Marshal(v)
	if err != nil {
		return nil, errors.Errorf("marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes data with the wire codec.
func Unmarshal(data []byte, v any) error {
	if err := wireJSON.Unmarshal(data, v); err != nil {
		return errors.Errorf("unmarshal: %w", err)
	}
	return nil
}

// SerializeItemContent returns the canonical bytes of item. The result is
// what gets hashed into the item hash and embedded in the envelope.
func SerializeItemContent(item ItemContent) ([]byte, error) {
	b, err := Marshal(item)
	if err != nil {
		return nil, errors.Errorf("serialize item content: %w", err)
	}
	return b, nil
}

// MarshalEnvelope returns the wire JSON of a signed envelope.
func MarshalEnvelope(env Envelope) ([]byte, error) {
	b, err := Marshal(env)
	if err != nil {
		return nil, errors.Errorf("marshal envelope: %w", err)
	}
	return b, nil
}
