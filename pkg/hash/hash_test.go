package hash

import (
	"bytes"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	secret := "a-secret-that-is-long-enough"

	a, err := DeriveKey(secret, "session", 32)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if len(a) != 32 {
		t.Errorf("DeriveKey() len = %d, want 32", len(a))
	}

	again, _ := DeriveKey(secret, "session", 32)
	if !bytes.Equal(a, again) {
		t.Error("DeriveKey() is not deterministic")
	}

	other, _ := DeriveKey(secret, "other", 32)
	if bytes.Equal(a, other) {
		t.Error("DeriveKey() returned the same key for different purposes")
	}

	if _, err := DeriveKey("short", "session", 32); err == nil {
		t.Error("DeriveKey() expected error for short secret")
	}
	if _, err := DeriveKey(secret, "session", 0); err == nil {
		t.Error("DeriveKey() expected error for zero size")
	}
}

func TestPathHash(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "", want: "0"},
		{path: "a", want: "97"},
		{path: "ab", want: "3105"},
		{path: "hello", want: "99162322"},
		{path: "hello world", want: "1794106052"},
		// wraps around int32
		{path: "polygenelubricants", want: "-2147483648"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := PathHash(tt.path); got != tt.want {
				t.Errorf("PathHash(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}

	if PathHash("a.md") == PathHash("b.md") {
		t.Error("PathHash() collided on distinct short paths")
	}
}
