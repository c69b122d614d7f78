package logger

import "testing"

func TestRedactMasksSecretKeys(t *testing.T) {
	got := redact([]interface{}{"llm_api_key", "sk-123", "plant_id", "p1", "client_token", "abc", "dangling"})
	want := []interface{}{"llm_api_key", "[REDACTED]", "plant_id", "p1", "client_token", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got=%v want=%v", i, got[i], want[i])
		}
	}
}
