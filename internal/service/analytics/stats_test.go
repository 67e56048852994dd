package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 5.0, mean([]float64{5}))
	assert.Equal(t, 3.0, mean([]float64{1, 2, 3, 4, 5}))
}

func TestStddev(t *testing.T) {
	assert.Equal(t, 0.0, stddev(nil))
	assert.Equal(t, 0.0, stddev([]float64{7}))
	// sample stddev of {2,4,4,4,5,5,7,9}: sqrt(32/7)
	assert.InDelta(t, 2.13808993529939, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, stddev([]float64{3, 3, 3}))
}

func TestMovingAverage(t *testing.T) {
	assert.Nil(t, movingAverage([]float64{1, 2}, 3))
	assert.Nil(t, movingAverage([]float64{1, 2, 3}, 0))

	got := movingAverage([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []float64{2, 3, 4}, got)

	// window of one is the identity
	got = movingAverage([]float64{1.5, 2.5}, 1)
	assert.Equal(t, []float64{1.5, 2.5}, got)
}

func TestHistogram(t *testing.T) {
	assert.Nil(t, histogram(nil, 5))
	assert.Nil(t, histogram([]float64{1}, 0))

	t.Run("degenerate series collapses to one bin", func(t *testing.T) {
		bins := histogram([]float64{4, 4, 4}, 10)
		assert.Len(t, bins, 1)
		assert.Equal(t, 3, bins[0].Count)
		assert.Equal(t, 4.0, bins[0].Low)
		assert.Equal(t, 4.0, bins[0].High)
	})

	t.Run("max value lands in last bin", func(t *testing.T) {
		bins := histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
		assert.Len(t, bins, 5)

		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, 10, total)
		assert.Equal(t, 10.0, bins[4].High)
		assert.GreaterOrEqual(t, bins[4].Count, 1)
	})
}

func TestTopSlices(t *testing.T) {
	totals := map[string]float64{
		"Cardiology": 500,
		"Oncology":   300,
		"Pediatrics": 200,
		"Radiology":  100,
	}

	t.Run("under limit returns everything sorted", func(t *testing.T) {
		slices := topSlices(totals, 10)
		assert.Len(t, slices, 4)
		assert.Equal(t, "Cardiology", slices[0].Label)
		assert.Equal(t, "Radiology", slices[3].Label)
	})

	t.Run("over limit folds into Other", func(t *testing.T) {
		slices := topSlices(totals, 2)
		assert.Len(t, slices, 3)
		assert.Equal(t, "Cardiology", slices[0].Label)
		assert.Equal(t, "Oncology", slices[1].Label)
		assert.Equal(t, "Other", slices[2].Label)
		assert.Equal(t, 300.0, slices[2].Value)
	})

	t.Run("equal values break ties by label", func(t *testing.T) {
		slices := topSlices(map[string]float64{"b": 1, "a": 1}, 5)
		assert.Equal(t, "a", slices[0].Label)
		assert.Equal(t, "b", slices[1].Label)
	})
}
