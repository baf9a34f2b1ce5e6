package frame

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LossStats summarizes the loss trajectory of a frame batch.
// First and Last follow index order, so Improvement is the loss drop
// from the earliest loss-bearing frame to the latest one.
type LossStats struct {
	Frames      int
	WithLoss    int
	Min         float64
	Max         float64
	Mean        float64
	StdDev      float64
	First       float64
	Last        float64
	Improvement float64
}

// Summarize computes loss statistics over all loss-bearing frames,
// ordered by index. Frames without a loss contribute to the count only.
func Summarize(infos []Info) LossStats {
	ordered := make([]Info, len(infos))
	copy(ordered, infos)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	var losses []float64
	for _, info := range ordered {
		if info.Loss != nil {
			losses = append(losses, *info.Loss)
		}
	}

	s := LossStats{Frames: len(infos), WithLoss: len(losses)}
	if len(losses) == 0 {
		return s
	}

	s.Min = floats.Min(losses)
	s.Max = floats.Max(losses)
	s.Mean = stat.Mean(losses, nil)
	if len(losses) > 1 {
		s.StdDev = stat.StdDev(losses, nil)
	}
	s.First = losses[0]
	s.Last = losses[len(losses)-1]
	s.Improvement = s.First - s.Last
	return s
}
