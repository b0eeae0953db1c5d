package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			histo[pm.GetBucketDimension(np)]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, map[int]int{0: 4}, getHisto(0, 4))
	for n := 64; n < 2000; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 32)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of one
		}
		assert.Equal(t, n, getTotal(histo))
	}
	assert.Panics(t, func() { NewPartitionMap(0, 10) })
}

func TestGetBucket(t *testing.T) {
	for maxIndex := 10; maxIndex < 500; maxIndex++ {
		pm := NewPartitionMap(5, maxIndex)
		for k := 0; k < maxIndex; k++ {
			tryCount, bn, kMin, kMax := pm.getBucketWithTryCount(k)
			mMin, mMax := pm.GetBucketRange(bn)
			assert.True(t, k >= kMin && k < kMax && kMin == mMin && kMax == mMax && tryCount <= 1)
		}
		bn, _, _ := pm.GetBucket(maxIndex)
		assert.Equal(t, -1, bn)
	}
}

func TestParallelFor(t *testing.T) {
	var (
		pm      = NewPartitionMap(4, 10)
		visited = make([]int32, 10)
		calls   int32
	)
	pm.ParallelFor(func(bn, kMin, kMax int) {
		atomic.AddInt32(&calls, 1)
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&visited[k], 1)
		}
	})
	assert.Equal(t, int32(4), calls)
	for _, v := range visited {
		assert.Equal(t, int32(1), v)
	}
	// Empty buckets are skipped
	calls = 0
	NewPartitionMap(8, 3).ParallelFor(func(bn, kMin, kMax int) { atomic.AddInt32(&calls, 1) })
	assert.Equal(t, int32(3), calls)
}
