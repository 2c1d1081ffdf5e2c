package cache

type mockCache[T any] struct {
	getOrClaimFunc func(key string) hitResult[T]
	setFunc        func(key string, data T)
	deleteFunc     func(key string)
	waitFunc       func()
}

func (c *mockCache[T]) getOrClaim(key string) hitResult[T] {
	return c.getOrClaimFunc(key)
}

func (c *mockCache[T]) set(key string, data T) {
	c.setFunc(key, data)
}

func (c *mockCache[T]) delete(key string) {
	c.deleteFunc(key)
}

func (c *mockCache[T]) wait() {
	c.waitFunc()
}
