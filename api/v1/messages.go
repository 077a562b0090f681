// Package v1 defines the wire contract of the clinic assistant. Payloads travel
// as google.protobuf.Struct so that chat front ends in any language can speak
// to the engine without generated stubs.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrMalformedPayload = errors.New("malformed payload")

// MessageRequest is a free-text message typed by a user.
type MessageRequest struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name,omitempty"`
	Text      string `json:"text"`
}

// ActionRequest is an inline-button press.
type ActionRequest struct {
	UserID int64  `json:"user_id"`
	Action string `json:"action"`
}

type Button struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

type Message struct {
	Text     string     `json:"text"`
	Keyboard [][]string `json:"keyboard,omitempty"`
	Inline   [][]Button `json:"inline,omitempty"`
	Edit     bool       `json:"edit,omitempty"`
}

// Reply is the response of both Assistant methods.
type Reply struct {
	Messages []Message `json:"messages"`
}

// Encode converts any of the payload types above into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

// Decode fills dest from a Struct. Numbers that do not fit the destination
// field, such as a fractional user_id, are rejected.
func Decode(s *structpb.Struct, dest any) error {
	if s == nil {
		return fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
