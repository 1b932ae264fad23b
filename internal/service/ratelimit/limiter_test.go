package ratelimit

import "testing"

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("AAPL", 3, 0) {
			t.Fatalf("call %d denied within burst capacity", i)
		}
	}
	if l.Allow("AAPL", 3, 0) {
		t.Fatal("allowed past capacity with no refill")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	l := New()
	if !l.Allow("AAPL", 1, 0) {
		t.Fatal("first AAPL call denied")
	}
	if l.Allow("AAPL", 1, 0) {
		t.Fatal("second AAPL call allowed")
	}
	if !l.Allow("MSFT", 1, 0) {
		t.Fatal("MSFT starved by AAPL bucket")
	}
}
