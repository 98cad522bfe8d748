package chainutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicFloat64_StoreLoad(t *testing.T) {
	var f AtomicFloat64
	assert.Equal(t, 0.0, f.Load())
	f.Store(150.25)
	assert.Equal(t, 150.25, f.Load())
}

func TestAtomicFloat64_ConcurrentAccess(t *testing.T) {
	var f AtomicFloat64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			f.Store(v)
			_ = f.Load()
		}(float64(i))
	}
	wg.Wait()
}
