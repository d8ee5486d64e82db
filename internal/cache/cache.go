// Package cache provides a small LRU used to memoize expensive render
// work, such as Markdown previews.
package cache

import "container/list"

type pair[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-size least-recently-used cache. It is not safe for
// concurrent use.
type LRU[K comparable, V any] struct {
	size  int
	order *list.List
	items map[K]*list.Element
}

func New[K comparable, V any](size int) *LRU[K, V] {
	if size < 1 {
		size = 1
	}
	return &LRU[K, V]{
		size:  size,
		order: list.New(),
		items: make(map[K]*list.Element, size),
	}
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	if ele, hit := c.items[key]; hit {
		c.order.MoveToFront(ele)
		return ele.Value.(pair[K, V]).value, true
	}
	var zero V
	return zero, false
}

func (c *LRU[K, V]) Put(key K, value V) {
	if ele, hit := c.items[key]; hit {
		c.order.MoveToFront(ele)
		ele.Value = pair[K, V]{key: key, value: value}
		return
	}

	c.items[key] = c.order.PushFront(pair[K, V]{key: key, value: value})
	if c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(pair[K, V]).key)
	}
}

func (c *LRU[K, V]) Len() int {
	return c.order.Len()
}
