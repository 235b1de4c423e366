package relay

import (
	"encoding/json"
	"testing"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"event":"new_message","data":{"messageId":"m1"}}`))
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if f.Event != EventNewMessage {
		t.Fatalf("event = %q", f.Event)
	}
	var p NewMessagePayload
	if err := json.Unmarshal(f.Data, &p); err != nil || p.MessageID != "m1" {
		t.Fatalf("data = %s, err = %v", f.Data, err)
	}
}

func TestParseFrameRejectsMissingEvent(t *testing.T) {
	if _, err := ParseFrame([]byte(`{"data":{}}`)); err == nil {
		t.Fatal("frame without event accepted")
	}
	if _, err := ParseFrame([]byte(`not json`)); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestParseConversationID(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`"conv-1"`, "conv-1", true},
		{`{"conversationId":"conv-2"}`, "conv-2", true},
		{`{"conversationId":""}`, "", false},
		{`{}`, "", false},
		{``, "", false},
		{`42`, "", false},
	}
	for _, tc := range cases {
		got, err := ParseConversationID(json.RawMessage(tc.raw))
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseConversationID(%s) = %q, %v; want %q", tc.raw, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseConversationID(%s) accepted", tc.raw)
		}
	}
}
