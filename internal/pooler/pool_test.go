package pooler

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockConn struct {
	id int64
}

func TestPool_CreateAndClose(t *testing.T) {
	var created int64
	var closed int64

	newFunc := func() (mockConn, error) {
		return mockConn{id: atomic.AddInt64(&created, 1)}, nil
	}

	closeFunc := func(c mockConn) error {
		atomic.AddInt64(&closed, 1)
		return nil
	}

	pool, err := NewPool(Config[mockConn]{
		MaxItems:  3,
		MaxIdle:   2,
		NewFunc:   newFunc,
		CloseFunc: closeFunc,
	})
	assert.NoError(t, err)
	assert.NotNil(t, pool)

	conn1, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, conn1.id)

	err = pool.Close()
	assert.NoError(t, err)

	conn2, err := pool.Get()
	assert.Error(t, err)
	assert.EqualError(t, err, "pool is closed")
	assert.Zero(t, conn2.id)
}

func TestPool_MaxIdle(t *testing.T) {
	var created int64
	var closed int64

	newFunc := func() (mockConn, error) {
		return mockConn{id: atomic.AddInt64(&created, 1)}, nil
	}

	closeFunc := func(c mockConn) error {
		atomic.AddInt64(&closed, 1)
		return nil
	}

	pool, err := NewPool(Config[mockConn]{
		MaxItems:  5,
		MaxIdle:   2,
		NewFunc:   newFunc,
		CloseFunc: closeFunc,
	})
	assert.NoError(t, err)

	c1, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, c1.id)

	c2, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 2, c2.id)

	c3, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, c3.id)

	assert.NoError(t, pool.Put(c1))
	assert.NoError(t, pool.Put(c2))

	// The third Put exceeds MaxIdle, so the resource must be closed
	// instead of stored.
	assert.NoError(t, pool.Put(c3))
	assert.EqualValues(t, 1, atomic.LoadInt64(&closed))

	// The two idle items are reused before anything new is created.
	c4, err := pool.Get()
	assert.NoError(t, err)
	c5, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt64(&created))

	assert.NoError(t, pool.Put(c4))
	assert.NoError(t, pool.Put(c5))
	assert.NoError(t, pool.Close())
	assert.EqualValues(t, 3, atomic.LoadInt64(&closed))
}
