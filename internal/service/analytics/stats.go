package analytics

import (
	"math"
	"sort"

	"github.com/healthecon360/analytics-api/internal/model"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1 in the denominator).
// Series shorter than two points have no spread.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// movingAverage computes a simple moving average. The result has
// len(values)-window+1 entries; nil when the series is shorter than
// the window.
func movingAverage(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// histogram buckets values into binCount equal-width bins. A degenerate
// series (all values equal) collapses into a single bin.
func histogram(values []float64, binCount int) []model.HistogramBin {
	if len(values) == 0 || binCount <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if lo == hi {
		return []model.HistogramBin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(binCount)
	bins := make([]model.HistogramBin, binCount)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}
	bins[binCount-1].High = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		bins[idx].Count++
	}
	return bins
}

// topSlices sorts label totals descending and keeps the largest limit
// slices, folding the remainder into an "Other" bucket.
func topSlices(totals map[string]float64, limit int) []model.BreakdownSlice {
	slices := make([]model.BreakdownSlice, 0, len(totals))
	for label, value := range totals {
		slices = append(slices, model.BreakdownSlice{Label: label, Value: value})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})

	if limit <= 0 || len(slices) <= limit {
		return slices
	}

	var other float64
	for _, s := range slices[limit:] {
		other += s.Value
	}
	slices = slices[:limit]
	if other > 0 {
		slices = append(slices, model.BreakdownSlice{Label: "Other", Value: other})
	}
	return slices
}
