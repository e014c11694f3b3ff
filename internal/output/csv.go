// Package output formats simulation rows for the configured sink. Where the
// rows go (standard output, a file, nowhere) is the caller's decision; this
// package only writes them.
package output

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSV writes one header row of variable names followed by one value row per
// emitted time point, columns joined by a configurable separator. Rows are
// flushed as they are written so a standard-output sink streams.
type CSV struct {
	w *csv.Writer
}

func NewCSV(w io.Writer, separator rune) *CSV {
	cw := csv.NewWriter(w)
	cw.Comma = separator
	return &CSV{w: cw}
}

func (c *CSV) WriteHeader(names []string) error {
	rec := make([]string, 0, len(names)+1)
	rec = append(rec, "time")
	rec = append(rec, names...)
	return c.write(rec)
}

func (c *CSV) WriteRow(t float64, values []float64) error {
	rec := make([]string, 0, len(values)+1)
	rec = append(rec, FormatReal(t))
	for _, v := range values {
		rec = append(rec, FormatReal(v))
	}
	return c.write(rec)
}

func (c *CSV) write(rec []string) error {
	if err := c.w.Write(rec); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// FormatReal renders a value with the shortest representation that parses
// back exactly.
func FormatReal(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
