package helper

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("Same key is serialized", func(t *testing.T) {
		locks := NewKeyedMutex[string]()
		var active, maxActive int32
		var wg sync.WaitGroup

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.Lock("event")
				defer unlock()

				current := atomic.AddInt32(&active, 1)
				for {
					previous := atomic.LoadInt32(&maxActive)
					if current <= previous || atomic.CompareAndSwapInt32(&maxActive, previous, current) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxActive)
		assert.Equal(t, 0, locks.Len(), "Expected unused keys to be released")
	})

	t.Run("Different keys do not block each other", func(t *testing.T) {
		locks := NewKeyedMutex[int]()
		unlockA := locks.Lock(1)
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlockB := locks.Lock(2)
			unlockB()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Expected lock on a different key to succeed")
		}
		assert.Equal(t, 1, locks.Len())
	})
}
