package pipeline

import (
	"container/list"
	"sync"
	"time"
)

// Memo caches pipeline results by fingerprint.
type Memo interface {
	Get(fingerprint string) (*Result, bool)
	Set(fingerprint string, result *Result)
}

// NopMemo never caches.
type NopMemo struct{}

func (NopMemo) Get(string) (*Result, bool) { return nil, false }
func (NopMemo) Set(string, *Result)        {}

// LRUMemo is a Memo with TTL and size-based eviction.
type LRUMemo struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	lru     *list.List
}

type memoItem struct {
	key       string
	result    *Result
	expiresAt time.Time
}

// NewLRUMemo creates an LRU memo holding at most maxSize results for ttl.
func NewLRUMemo(maxSize int, ttl time.Duration) *LRUMemo {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUMemo{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves a result from the cache
func (c *LRUMemo) Get(fingerprint string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[fingerprint]
	if !exists {
		return nil, false
	}

	item := elem.Value.(*memoItem)
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	return item.result, true
}

// Set stores a result in the cache
func (c *LRUMemo) Set(fingerprint string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &memoItem{
		key:       fingerprint,
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[fingerprint]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	c.items[fingerprint] = c.lru.PushFront(item)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *LRUMemo) removeElement(elem *list.Element) {
	item := elem.Value.(*memoItem)
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// Size returns the current number of cached results.
func (c *LRUMemo) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
