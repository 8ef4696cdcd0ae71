package cache

import (
	"testing"
	"time"
)

func TestKeySeparatesParts(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("keys collide across part boundaries")
	}
	if Key("deepseek", "hero") != Key("deepseek", "hero") {
		t.Error("key is not stable")
	}
}

func TestGetPutExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Put("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived its TTL")
	}
}

func TestPurge(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Put("old", "1")
	now = now.Add(90 * time.Second)
	c.Put("new", "2")

	if n := c.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("fresh entry was purged")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(0)
	c.now = func() time.Time { return now }
	c.Put("k", "v")
	now = now.Add(1000 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired with zero TTL")
	}
}
