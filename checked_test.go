package biglist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unsafemem/biglist/alloc"
)

func newChecked(t *testing.T) *Checked[int64] {
	t.Helper()
	c, err := NewChecked[int64](4, alloc.NewHeap())
	require.NoError(t, err)
	return c
}

func TestChecked_Basic(t *testing.T) {
	c := newChecked(t)
	defer c.Dispose()

	require.NoError(t, c.Add(10))
	require.NoError(t, c.Add(20))
	assert.Equal(t, int64(2), c.Len())

	v, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), v)

	require.NoError(t, c.Set(0, 11))
	v, err = c.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), v)
}

func TestChecked_IndexErrors(t *testing.T) {
	c := newChecked(t)
	defer c.Dispose()

	require.NoError(t, c.Add(1))

	var ie *IndexError

	_, err := c.Get(1)
	require.Error(t, err)
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "Get", ie.Op)
	assert.Equal(t, int64(1), ie.Index)
	assert.Equal(t, int64(1), ie.Length)

	_, err = c.Get(-1)
	assert.True(t, errors.As(err, &ie))

	assert.True(t, errors.As(c.Set(5, 0), &ie))
	assert.True(t, errors.As(c.RemoveAt(1), &ie))

	// State untouched by failed operations.
	assert.Equal(t, int64(1), c.Len())
}

func TestChecked_Disposed(t *testing.T) {
	c := newChecked(t)
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Dispose())

	_, err := c.Get(0)
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, c.Set(0, 1), ErrDisposed)
	assert.ErrorIs(t, c.Add(1), ErrDisposed)
	assert.ErrorIs(t, c.AppendSlice([]int64{1}), ErrDisposed)
	assert.ErrorIs(t, c.RemoveAt(0), ErrDisposed)
	assert.ErrorIs(t, c.Clear(), ErrDisposed)
	assert.ErrorIs(t, c.TrimExcess(false), ErrDisposed)

	// Dispose stays idempotent through the decorator.
	assert.NoError(t, c.Dispose())
}

func TestChecked_ConcurrentAccessDetection(t *testing.T) {
	c := newChecked(t)
	defer c.Dispose()

	require.NoError(t, c.Add(1))

	t.Run("writer sees reader", func(t *testing.T) {
		require.NoError(t, c.beginRead())
		assert.ErrorIs(t, c.Add(2), ErrConcurrentAccess)
		assert.ErrorIs(t, c.Dispose(), ErrConcurrentAccess)
		c.endRead()
	})

	t.Run("reader sees writer", func(t *testing.T) {
		require.NoError(t, c.beginWrite())
		_, err := c.Get(0)
		assert.ErrorIs(t, err, ErrConcurrentAccess)
		c.endWrite()
	})

	t.Run("writer sees writer", func(t *testing.T) {
		require.NoError(t, c.beginWrite())
		assert.ErrorIs(t, c.Set(0, 9), ErrConcurrentAccess)
		c.endWrite()
	})

	t.Run("concurrent readers are fine", func(t *testing.T) {
		require.NoError(t, c.beginRead())
		v, err := c.Get(0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
		c.endRead()
	})

	// Guard fully released: normal operation resumes.
	require.NoError(t, c.Add(3))
}

func TestChecked_ElementValidation(t *testing.T) {
	a := alloc.NewHeap()

	t.Run("plain types accepted", func(t *testing.T) {
		type vec struct {
			X, Y, Z float32
			IDs     [4]uint64
		}
		c, err := NewChecked[vec](4, a)
		require.NoError(t, err)
		defer c.Dispose()
	})

	t.Run("pointer field rejected", func(t *testing.T) {
		type bad struct {
			P *int64
		}
		_, err := NewChecked[bad](4, a)
		assert.ErrorIs(t, err, ErrElementNotPlain)
	})

	t.Run("slice rejected", func(t *testing.T) {
		type bad struct {
			S []byte
		}
		_, err := NewChecked[bad](4, a)
		assert.ErrorIs(t, err, ErrElementNotPlain)
	})

	t.Run("string rejected", func(t *testing.T) {
		_, err := NewChecked[string](4, a)
		assert.ErrorIs(t, err, ErrElementNotPlain)
	})

	t.Run("map field rejected", func(t *testing.T) {
		type bad struct {
			M map[int]int
		}
		_, err := NewChecked[bad](4, a)
		assert.ErrorIs(t, err, ErrElementNotPlain)
	})

	t.Run("nested array of structs accepted", func(t *testing.T) {
		type inner struct{ A, B int16 }
		type outer struct {
			Grid [8]inner
		}
		c, err := NewChecked[outer](4, a)
		require.NoError(t, err)
		defer c.Dispose()
	})
}

func TestChecked_Unwrap(t *testing.T) {
	c := newChecked(t)
	defer c.Dispose()

	require.NoError(t, c.Add(5))
	assert.Equal(t, int64(5), c.Unwrap().Get(0))
}

func TestChecked_TrimAndClear(t *testing.T) {
	c := newChecked(t)
	defer c.Dispose()

	for i := int64(0); i < 100; i++ {
		require.NoError(t, c.Add(i))
	}
	require.NoError(t, c.TrimExcess(false))
	assert.Equal(t, int64(100), c.Cap())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Len())
	assert.Equal(t, int64(100), c.Cap())
}
