package common

import (
	"testing"
	"time"

	"steel-ledger/mtrledger/internal/models/dtos"
)

func TestJoinCache_KeyedByFingerprint(t *testing.T) {
	c := NewJoinCache(time.Minute)

	if _, found := c.Get("fp1"); found {
		t.Fatal("Expected empty cache")
	}

	c.Set("fp1", []dtos.JoinedRow{{ID: 1}})

	rows, found := c.Get("fp1")
	if !found || len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("Expected cached row for fp1, got %v (found=%v)", rows, found)
	}

	if _, found := c.Get("fp2"); found {
		t.Error("Expected miss for a different fingerprint")
	}

	c.Flush()
	if _, found := c.Get("fp1"); found {
		t.Error("Expected miss after flush")
	}
}

func TestJoinCache_Disabled(t *testing.T) {
	c := NewJoinCache(0)
	if c.Enabled() {
		t.Fatal("Expected cache disabled for zero ttl")
	}

	c.Set("fp", []dtos.JoinedRow{{ID: 1}})
	if _, found := c.Get("fp"); found {
		t.Error("Expected disabled cache to never hit")
	}
}

func TestParseBoolDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"", true, true},
		{"false", true, false},
		{"0", true, false},
		{"on", false, true},
		{"garbage", true, true},
	}
	for _, c := range cases {
		if got := ParseBoolDefault(c.in, c.def); got != c.want {
			t.Errorf("ParseBoolDefault(%q, %v): expected %v, got %v", c.in, c.def, c.want, got)
		}
	}
}
