package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	if Ptr(time.Time{}) != nil {
		t.Fatal("zero time should be nil")
	}
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr = %v", p)
	}
}
