package cache

import "time"

// BytesCache stores raw provider payloads with a TTL. Quote and chart
// responses are cached as serialized bytes so the backend can be swapped
// between in-process memory and Redis without touching the provider.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
