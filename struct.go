package main

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/ddmoney420/moji/cache"
)

func gobEncodeBytes(obj interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(in []byte, out interface{}) error {
	buf := bytes.NewBuffer(in)
	return gob.NewDecoder(buf).Decode(out)
}

func makeSerializer[V any]() cache.Serializer[*V] {
	return func(val *V) ([]byte, error) {
		return gobEncodeBytes(val)
	}
}

func makeDeserializer[V any]() cache.Deserializer[*V] {
	return func(data []byte) (*V, error) {
		val := new(V)
		if err := gobDecode(data, val); err != nil {
			return nil, err
		}
		return val, nil
	}
}

func makeTypedCache[K cache.Key, V any](c cache.Cache, gen cache.Generator[K, *V]) *cache.TypedManager[K, *V] {
	return cache.NewTyped(c, gen, makeSerializer[V](), makeDeserializer[V]())
}

// ShareHTML is the rendered form of a shared entry, as kept in the cache.
type ShareHTML struct {
	ID          string
	Title       string
	Created     time.Time
	ContentHtml string
	Truncated   bool
}
