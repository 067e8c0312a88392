package token

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

const typeKey = "type"

// MarshalJSON encodes the token as a flat object with a "type" discriminator.
func (t Token) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(t.fields)+1)
	for f, v := range t.fields {
		m[string(f)] = v
	}
	m[typeKey] = string(t.Kind)
	return json.Marshal(m)
}

// UnmarshalJSON decodes a flat token object. Numbers and booleans are accepted and kept
// as their decimal/literal string; null values are treated as absent.
func (t *Token) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return errors.Wrap(err, "failed to decode token")
	}
	kind, ok := raw[typeKey].(string)
	if !ok || kind == "" {
		return errors.New("token has no \"type\" discriminator")
	}
	out := Token{Kind: Kind(kind), fields: make(map[Field]string, len(raw))}
	for k, v := range raw {
		if k == typeKey || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			out.fields[Field(k)] = val
		case json.Number:
			out.fields[Field(k)] = val.String()
		case bool:
			out.fields[Field(k)] = strconv.FormatBool(val)
		default:
			return errors.Errorf("token field %q has unsupported value %v", k, v)
		}
	}
	*t = out
	return nil
}

// Decode parses and validates a JSON token array.
func Decode(data []byte) ([]Token, error) {
	var toks []Token
	if err := json.Unmarshal(data, &toks); err != nil {
		return nil, err
	}
	if err := ValidateAll(toks); err != nil {
		return nil, err
	}
	return toks, nil
}
