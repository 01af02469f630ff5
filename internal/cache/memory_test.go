package cache

import (
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory[[]string](time.Minute, time.Minute)

	c.Set("k", []string{"a", "b"}, 0)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected value: %v", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory[int](time.Minute, time.Minute)
	c.Set("short", 1, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expected entry to expire")
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory[int](0, time.Minute)
	c.Set("k", 7, 0)

	time.Sleep(10 * time.Millisecond)

	if v, ok := c.Get("k"); !ok || v != 7 {
		t.Errorf("expected 7, got %d (hit=%v)", v, ok)
	}
}

func TestMemory_DeleteClear(t *testing.T) {
	c := NewMemory[int](time.Minute, time.Minute)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestKey(t *testing.T) {
	k1 := Key("all", "A=x|y;")
	k2 := Key("all", "A=x|y;")
	k3 := Key("observed", "A=x|y;")

	if k1 != k2 {
		t.Error("expected identical parts to produce identical keys")
	}
	if k1 == k3 {
		t.Error("expected different parts to produce different keys")
	}
	if len(k1) != len("induct:v1:")+64 {
		t.Errorf("unexpected key length %d", len(k1))
	}
}
