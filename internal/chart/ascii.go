package chart

import (
	"fmt"
	"io"
)

// asciiBarWidth is the column budget for a full-scale bar.
const asciiBarWidth = 60

// WriteASCII prints the tally as a terminal bar chart, one Elm row and one
// Hanley row per hour, scaled to the busiest cell. Zero-count hours still
// print their rows so the 24-hour axis stays intact.
func WriteASCII(t *Tally, w io.Writer) error {
	maxCount := t.Max()

	if _, err := fmt.Fprintf(w, "Hour   %-8s %-8s\n", "E=Elm", "H=Hanley"); err != nil {
		return err
	}

	for hour, counts := range t.Hours {
		if err := writeASCIIBar(w, hour, "E", counts.Elm, maxCount); err != nil {
			return err
		}
		if err := writeASCIIBar(w, hour, "H", counts.Hanley, maxCount); err != nil {
			return err
		}
	}
	return nil
}

func writeASCIIBar(w io.Writer, hour int, tag string, count, maxCount int) error {
	width := 0
	if maxCount > 0 {
		width = count * asciiBarWidth / maxCount
	}
	_, err := fmt.Fprintf(w, "%02d:00 %s %6d %s\n", hour, tag, count, bars(width))
	return err
}

func bars(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '*'
	}
	return string(b)
}
