package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingularMutexGetSet(t *testing.T) {
	c := NewSingular[[]string]("groups")

	var calls int32
	valueFunc := func() ([]string, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return []string{"warrior", "tree"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var dest []string
			assert.NoError(t, c.MutexGetSet(&dest, valueFunc, time.Minute))
			assert.Equal(t, []string{"warrior", "tree"}, dest)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSingularDelete(t *testing.T) {
	c := NewSingular[int]("count")
	require.NoError(t, c.Set(3, time.Minute))

	var dest int
	require.NoError(t, c.Get(&dest))
	assert.Equal(t, 3, dest)

	require.NoError(t, c.Delete())
	assert.ErrorIs(t, c.Get(&dest), ErrNotFound)
}

func TestSingularValueFuncError(t *testing.T) {
	c := NewSingular[int]("count")
	boom := errors.New("boom")

	var dest int
	err := c.MutexGetSet(&dest, func() (int, error) { return 0, boom }, time.Minute)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, c.Get(&dest), ErrNotFound)
}
