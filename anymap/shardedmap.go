package anymap

import (
	"math"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/probkit/counters-lib-go/xutils"
)

const defaultShardCount = 16

// ShardedMap spreads its entries over a fixed array of builtin maps, picking
// the shard by xxhash of the encoded key. Useful when a single huge map is
// undesirable; the shard count is fixed for the lifetime of the store.
type ShardedMap[K comparable, V any] struct {
	shards   []map[K]V
	keyBytes func(K) []byte
}

// NewShardedMap returns a sharded store with the given shard count (values
// below 1 fall back to the default of 16). keyBytes encodes a key for
// hashing; it must be deterministic.
func NewShardedMap[K comparable, V any](shards int, keyBytes func(K) []byte) *ShardedMap[K, V] {
	if shards < 1 {
		shards = defaultShardCount
	}
	s := &ShardedMap[K, V]{
		shards:   make([]map[K]V, shards),
		keyBytes: keyBytes,
	}
	for i := range s.shards {
		s.shards[i] = make(map[K]V)
	}
	return s
}

// NewShardedStringMap is NewShardedMap for string keys, hashing the key bytes
// without copying.
func NewShardedStringMap[V any](shards int) *ShardedMap[string, V] {
	return NewShardedMap[string, V](shards, xutils.StringToBytes)
}

func (s *ShardedMap[K, V]) shard(k K) map[K]V {
	h := xxhash.Sum64(s.keyBytes(k))
	return s.shards[h%uint64(len(s.shards))]
}

func (s *ShardedMap[K, V]) Empty() bool { return s.Len() == 0 }

func (s *ShardedMap[K, V]) Len() int {
	n := 0
	for _, m := range s.shards {
		n += len(m)
	}
	return n
}

func (s *ShardedMap[K, V]) MaxLen() int { return math.MaxInt }

func (s *ShardedMap[K, V]) Ensure(k K) V {
	m := s.shard(k)
	if v, ok := m[k]; ok {
		return v
	}
	var zero V
	m[k] = zero
	return zero
}

func (s *ShardedMap[K, V]) At(k K) (V, error) {
	if v, ok := s.shard(k)[k]; ok {
		return v, nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

func (s *ShardedMap[K, V]) Find(k K) (V, bool) {
	v, ok := s.shard(k)[k]
	return v, ok
}

func (s *ShardedMap[K, V]) Count(k K) int {
	if _, ok := s.shard(k)[k]; ok {
		return 1
	}
	return 0
}

func (s *ShardedMap[K, V]) Set(k K, v V) { s.shard(k)[k] = v }

func (s *ShardedMap[K, V]) Insert(k K, v V) bool {
	m := s.shard(k)
	if _, ok := m[k]; ok {
		return false
	}
	m[k] = v
	return true
}

func (s *ShardedMap[K, V]) InsertAll(entries []Entry[K, V]) {
	for _, e := range entries {
		s.Insert(e.Key, e.Value)
	}
}

func (s *ShardedMap[K, V]) Erase(k K) int {
	m := s.shard(k)
	if _, ok := m[k]; ok {
		delete(m, k)
		return 1
	}
	return 0
}

func (s *ShardedMap[K, V]) Clear() {
	for _, m := range s.shards {
		clear(m)
	}
}

func (s *ShardedMap[K, V]) ForEach(fn func(k K, v V) error) error {
	for _, m := range s.shards {
		for k, v := range m {
			if err := fn(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ShardedMap[K, V]) Clone() Map[K, V] {
	n := NewShardedMap[K, V](len(s.shards), s.keyBytes)
	for i, m := range s.shards {
		for k, v := range m {
			n.shards[i][k] = v
		}
	}
	return n
}
