package topk

import (
	"container/heap"
	"image/color"

	"paleatra/colors"
)

// DefaultThreshold is the distance below which two colors are treated as
// shades of one another.
const DefaultThreshold = 250.0

// Distance is an approximate dissimilarity of two colors: the mean squared
// RGB delta plus half the fourth power of the alpha delta. It is neither
// normalized nor a metric.
func Distance(a, b color.NRGBA) float64 {
	dr := float64(int(a.R) - int(b.R))
	dg := float64(int(a.G) - int(b.G))
	db := float64(int(a.B) - int(b.B))
	da := float64(int(a.A) - int(b.A))

	rgb := (dr*dr + dg*dg + db*db) / 3
	alpha := (da * da) * (da * da) / 2
	return alpha + rgb
}

// Select returns up to n of the most frequent samples, skipping any sample
// closer than threshold to one already selected. The result is ordered by
// descending count, ties by ascending key.
func Select(samples []colors.Sample, n int, threshold float64) []colors.Sample {
	if n <= 0 || len(samples) == 0 {
		return []colors.Sample{}
	}

	q := make(byCount, len(samples))
	copy(q, samples)
	heap.Init(&q)

	out := make([]colors.Sample, 0, min(n, len(samples)))
	for q.Len() > 0 && len(out) < n {
		c := heap.Pop(&q).(colors.Sample)
		if tooClose(out, c, threshold) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func tooClose(kept []colors.Sample, c colors.Sample, threshold float64) bool {
	for _, k := range kept {
		if Distance(k.RGBA, c.RGBA) < threshold {
			return true
		}
	}
	return false
}

// byCount is a max-heap on count, ties broken by ascending key.
type byCount []colors.Sample

func (q byCount) Len() int { return len(q) }
func (q byCount) Less(i, j int) bool {
	if q[i].Count != q[j].Count {
		return q[i].Count > q[j].Count
	}
	return q[i].Key < q[j].Key
}
func (q byCount) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *byCount) Push(x any) { *q = append(*q, x.(colors.Sample)) }

func (q *byCount) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	*q = old[:n-1]
	return s
}
