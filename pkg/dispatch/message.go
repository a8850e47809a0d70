package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the wire shape of every message: {command, data?}.
type Envelope struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Message is a decoded inbound envelope.
type Message struct {
	Command Command
	Data    json.RawMessage
}

// HasData reports whether the message carried a non-null payload.
func (m Message) HasData() bool {
	trimmed := bytes.TrimSpace(m.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if !m.HasData() {
		return fmt.Errorf("dispatch: %s: message has no data", m.Command)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("dispatch: %s: decode data: %w", m.Command, err)
	}
	return nil
}

// Payload decodes the data into a generic value, keeping numbers verbatim.
// A missing payload decodes to nil.
func (m Message) Payload() (any, error) {
	if !m.HasData() {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(m.Data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("dispatch: %s: decode data: %w", m.Command, err)
	}
	return out, nil
}

var errMissingCommand = errors.New("dispatch: message has no command")

// DecodeEnvelope parses raw into an Envelope.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("dispatch: decode envelope: %w", err)
	}
	if env.Command == "" {
		return Envelope{}, errMissingCommand
	}
	return env, nil
}

// EncodeEnvelope serialises cmd and payload. A nil payload omits data.
func EncodeEnvelope(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: string(cmd)}
	if payload != nil {
		switch typed := payload.(type) {
		case json.RawMessage:
			env.Data = typed
		default:
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("dispatch: encode %s data: %w", cmd, err)
			}
			env.Data = data
		}
	}
	return json.Marshal(env)
}
