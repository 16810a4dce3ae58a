package models

import "testing"

func TestMessageID_Ordered(t *testing.T) {
	prev := MessageID(0)
	for _, seq := range []uint64{1, 2, 9, 10, 99, 100, 12345} {
		id := MessageID(seq)
		if id <= prev {
			t.Errorf("MessageID(%d) = %s, not greater than %s", seq, id, prev)
		}
		prev = id
	}
}

func TestMessage_Roles(t *testing.T) {
	user := Message{Type: MessageUser}
	assistant := Message{Type: MessageAssistant}

	if !user.IsUser() || user.IsAssistant() {
		t.Error("user message misclassified")
	}
	if !assistant.IsAssistant() || assistant.IsUser() {
		t.Error("assistant message misclassified")
	}
	if MessageUser.String() != "user" {
		t.Errorf("MessageUser.String() = %s", MessageUser.String())
	}
}
