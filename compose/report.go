package compose

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"paleatra/colors"
)

type ReportEntry struct {
	Rank  int        `json:"rank"`
	Hex   string     `json:"hex"`
	Alpha uint8      `json:"alpha"`
	HSL   [3]float64 `json:"hsl"`
	Count int        `json:"count"`
	Share float64    `json:"share"`
}

// Report lists the selected colors in palette order. Shares are relative to
// the number of pixels counted.
func Report(samples []colors.Sample, pixels int) []ReportEntry {
	entries := make([]ReportEntry, 0, len(samples))
	for i, s := range samples {
		col := colorful.Color{
			R: float64(s.RGBA.R) / 255,
			G: float64(s.RGBA.G) / 255,
			B: float64(s.RGBA.B) / 255,
		}
		h, sat, l := col.Hsl()

		share := 0.0
		if pixels > 0 {
			share = float64(s.Count) / float64(pixels)
		}
		entries = append(entries, ReportEntry{
			Rank:  i + 1,
			Hex:   col.Hex(),
			Alpha: s.RGBA.A,
			HSL:   [3]float64{h, sat, l},
			Count: s.Count,
			Share: share,
		})
	}
	return entries
}

func WriteReportText(w io.Writer, entries []ReportEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d. %s\tcount=%d\tshare=%.2f%%\n", e.Rank, e.Hex, e.Count, e.Share*100); err != nil {
			return fmt.Errorf("could not write report: %w", err)
		}
	}
	return nil
}

func WriteReportJSON(w io.Writer, entries []ReportEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}
