package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/ddmoney420/moji/gate"
)

const (
	// Request and connect timeout
	DefaultTimeout = time.Second * 30
)

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrTooBusy   = errors.New("cache: conn pool too busy")
)

type Key interface {
	String() string
}

type Cache interface {
	Fetch(key string) ([]byte, error)
	Store(key string, data []byte, expire time.Duration) error
}

// Memcached is a Cache backed by memcached. Round trips go through a gate so
// a slow server cannot pile up connections.
type Memcached struct {
	mc   *memcache.Client
	gate *gate.Gate
}

func NewMemcached(server string, maxOpen int) *Memcached {
	mc := memcache.New(server)
	mc.Timeout = DefaultTimeout
	mc.MaxIdleConns = maxOpen

	return &Memcached{
		mc:   mc,
		gate: gate.New(maxOpen, maxOpen),
	}
}

func (m *Memcached) Fetch(key string) ([]byte, error) {
	var data []byte
	err := m.do(func() error {
		it, err := m.mc.Get(key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			return ErrCacheMiss
		} else if err != nil {
			return err
		}
		data = it.Value
		return nil
	})
	return data, err
}

func (m *Memcached) Store(key string, data []byte, expire time.Duration) error {
	return m.do(func() error {
		return m.mc.Set(&memcache.Item{
			Key:        key,
			Value:      data,
			Flags:      uint32(0),
			Expiration: int32(expire.Seconds()),
		})
	})
}

func (m *Memcached) do(fn func() error) error {
	err := m.gate.Do(context.Background(), fn)
	if errors.Is(err, gate.ErrTooBusy) {
		return ErrTooBusy
	}
	return err
}

type memEntry struct {
	data   []byte
	expire time.Time
}

// Memory is an in-process Cache, used when no memcached is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (m *Memory) Fetch(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expire.IsZero() && !m.now().Before(e.expire) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}
	return e.data, nil
}

func (m *Memory) Store(key string, data []byte, expire time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memEntry{data: append([]byte(nil), data...)}
	if expire > 0 {
		e.expire = m.now().Add(expire)
	}
	m.entries[key] = e
	return nil
}
