package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ddmoney420/moji/system"
)

type Serializer[V any] func(value V) ([]byte, error)

type Deserializer[V any] func(data []byte) (V, error)

type Generator[K Key, V any] func(key K) (V, time.Duration, error)

type res[V any] struct {
	value V
	err   error
}

// TypedManager serves values from a Cache, generating them on a miss. Only one
// generation per key runs at a time; concurrent callers share its result.
type TypedManager[K Key, V any] struct {
	c            Cache
	sf           *singleflight[*res[V]]
	generator    Generator[K, V]
	serializer   Serializer[V]
	deserializer Deserializer[V]
}

func NewTyped[K Key, V any](c Cache, gen Generator[K, V], ser Serializer[V], des Deserializer[V]) *TypedManager[K, V] {
	return &TypedManager[K, V]{
		c:            c,
		sf:           newSingleFlight[*res[V]](),
		generator:    gen,
		serializer:   ser,
		deserializer: des,
	}
}

func (tm *TypedManager[K, V]) Get(ctx context.Context, key K) (V, error) {
	keyString := key.String()

	// Check if can be served from cache
	if data, err := tm.c.Fetch(keyString); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			system.Logger.Warn("cache fetch", "key", keyString, "err", err)
		}
	} else if v, err := tm.deserializer(data); err != nil {
		system.Logger.Warn("cache decode, regenerating", "key", keyString, "err", err)
	} else {
		return v, nil
	}

	// Buffered so a caller giving up does not block the generator.
	ch := make(chan *res[V], 1)

	// No luck. Check if anyone is generating
	if first := tm.sf.Request(keyString, ch); first {
		// We are the one responsible for generating the result
		go tm.doGenerate(key, keyString)
	}

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (tm *TypedManager[K, V]) doGenerate(key K, keyString string) {
	value, expire, err := tm.generator(key)
	if err == nil {
		// There is no errors during generating, store result in cache
		if data, err := tm.serializer(value); err != nil {
			system.Logger.Warn("cache encode", "key", keyString, "err", err)
		} else if err = tm.c.Store(keyString, data, expire); err != nil {
			system.Logger.Warn("cache store", "key", keyString, "err", err)
		}
	}

	tm.sf.Fulfill(keyString, &res[V]{
		value: value,
		err:   err,
	})
}
