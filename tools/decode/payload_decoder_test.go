package decode

import (
	"encoding/json"
	"testing"
)

type msgPayload struct {
	ReceiverID string `json:"receiverId"`
	MessageID  string `json:"messageId"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

func TestPayloadDecodesByJSONTag(t *testing.T) {
	raw := json.RawMessage(`{"receiverId":"u2","messageId":"m1","content":"hi","timestamp":1700000000000}`)
	p, err := Payload[msgPayload](raw)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if p.ReceiverID != "u2" || p.MessageID != "m1" || p.Content != "hi" {
		t.Fatalf("decoded = %+v", p)
	}
	if p.Timestamp != 1700000000000 {
		t.Fatalf("timestamp = %d", p.Timestamp)
	}
}

func TestPayloadWeakTyping(t *testing.T) {
	// Browser clients are loose about number/string typing.
	raw := json.RawMessage(`{"receiverId":42,"timestamp":"1700000000000"}`)
	p, err := Payload[msgPayload](raw)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if p.ReceiverID != "42" || p.Timestamp != 1700000000000 {
		t.Fatalf("decoded = %+v", p)
	}
}

func TestPayloadIgnoresUnknownFields(t *testing.T) {
	raw := json.RawMessage(`{"content":"hi","extra":{"nested":true}}`)
	p, err := Payload[msgPayload](raw)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if p.Content != "hi" {
		t.Fatalf("decoded = %+v", p)
	}
}

func TestPayloadRejectsEmptyAndNonObject(t *testing.T) {
	if _, err := Payload[msgPayload](nil); err == nil {
		t.Fatal("empty payload accepted")
	}
	if _, err := Payload[msgPayload](json.RawMessage(`"just a string"`)); err == nil {
		t.Fatal("non-object payload accepted")
	}
}
