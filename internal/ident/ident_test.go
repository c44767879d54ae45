package ident

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New("ws")
	if !strings.HasPrefix(id, "ws_") {
		t.Errorf("got %q, want ws_ prefix", id)
	}
	if len(id) < len("ws_")+10 {
		t.Errorf("id too short: %q", id)
	}
}

func TestNew_unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New("sp")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
