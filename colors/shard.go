package colors

import (
	"image"

	"paleatra/parallel"
)

// FromImageSharded builds the histogram of img on numWorkers goroutines. The
// rows are split into contiguous shards, each shard is counted into its own
// histogram, and the shards are merged into the first. The result equals
// FromImage(img). numWorkers < 1 uses every CPU.
func FromImageSharded(img image.Image, numWorkers int) *Histogram {
	if numWorkers == 1 {
		return FromImage(img)
	}

	b := img.Bounds()
	numWorkers = parallel.Workers(numWorkers)
	spans := parallel.Split(b.Dy(), numWorkers)
	if len(spans) <= 1 {
		return FromImage(img)
	}

	locals := make([]*Histogram, len(spans))
	parallel.Run(numWorkers, spans, func(i int, s parallel.Span) {
		local := New()
		scanRows(local, img, b.Min.Y+s.From, b.Min.Y+s.To)
		locals[i] = local
	})

	h := locals[0]
	for _, local := range locals[1:] {
		h.Merge(local)
	}
	return h
}
