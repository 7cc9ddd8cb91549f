package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUMemo(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	memo := NewLRUMemo(2, time.Minute)
	memo.now = func() time.Time { return now }

	a, b, c := &Result{Fingerprint: "a"}, &Result{Fingerprint: "b"}, &Result{Fingerprint: "c"}
	memo.Set("a", a)
	memo.Set("b", b)

	got, ok := memo.Get("a")
	assert.True(t, ok)
	assert.Same(t, a, got)

	// "b" is now least recently used.
	memo.Set("c", c)
	_, ok = memo.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, memo.Size())

	now = now.Add(2 * time.Minute)
	_, ok = memo.Get("a")
	assert.False(t, ok, "expired entries are dropped")
	assert.Equal(t, 1, memo.Size())
}

func TestLRUMemoOverwrite(t *testing.T) {
	memo := NewLRUMemo(0, time.Minute)
	memo.Set("k", &Result{Fingerprint: "old"})
	memo.Set("k", &Result{Fingerprint: "new"})

	got, ok := memo.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", got.Fingerprint)
	assert.Equal(t, 1, memo.Size())
}

func TestNopMemo(t *testing.T) {
	var memo Memo = NopMemo{}
	memo.Set("k", &Result{})
	_, ok := memo.Get("k")
	assert.False(t, ok)
}
