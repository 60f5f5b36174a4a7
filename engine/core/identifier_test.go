package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceIsStrictlyIncreasing(t *testing.T) {
	var s Sequence
	assert.Equal(t, uint32(0), s.Peek())
	prev := s.Next()
	assert.Equal(t, uint32(0), prev)
	for i := 0; i < 100; i++ {
		n := s.Next()
		assert.Greater(t, n, prev)
		prev = n
	}
	assert.Equal(t, uint32(101), s.Peek())
}

func TestSequenceNeverRepeatsAcrossGoroutines(t *testing.T) {
	var s Sequence
	var mu sync.Mutex
	seen := make(map[uint32]bool)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				n := s.Next()
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 400)
}

func TestFrameStatsReset(t *testing.T) {
	var fs FrameStats
	fs.RecordDraw(36)
	fs.RecordDraw(4)
	fs.UniformUploads = 3
	assert.Equal(t, uint32(2), fs.DrawCalls)
	assert.Equal(t, uint64(40), fs.IndicesDrawn)

	fs.Reset()
	assert.Equal(t, FrameStats{Frames: 1}, fs)
}
