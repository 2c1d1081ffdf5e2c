package cache

type hitResult[T any] struct {
	data    T
	valid   bool
	claimed bool
}

// Cache is a string-keyed cache with entry claiming, so concurrent callers
// of GetOrCreate for the same key only perform one upstream fetch.
type Cache[T any] interface {
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}
