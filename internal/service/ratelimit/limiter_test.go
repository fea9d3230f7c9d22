package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	if !l.Allow("k", 2, 0) {
		t.Fatalf("first call should pass")
	}
	if !l.Allow("k", 2, 0) {
		t.Fatalf("second call should pass")
	}
	if l.Allow("k", 2, 0) {
		t.Fatalf("third call should be limited")
	}
}

func TestAllowIndependentKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("key a should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("key b should pass independently")
	}
}
