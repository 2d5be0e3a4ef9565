package invalidation

import (
	"testing"
	"time"
)

func validEvent() Event {
	return Event{
		Version: 1,
		Op:      "update",
		Layer:   "korytarze",
		TS:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validEvent().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Event)
	}{
		{"bad-version", func(e *Event) { e.Version = 2 }},
		{"bad-op", func(e *Event) { e.Op = "truncate" }},
		{"empty-layer", func(e *Event) { e.Layer = "  " }},
		{"zero-ts", func(e *Event) { e.TS = time.Time{} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(&ev)
			if err := ev.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
