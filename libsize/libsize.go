// Package libsize computes and reports the column totals (library sizes) of
// the samples in a count matrix.
package libsize

import (
	"fmt"
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/exception"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"log"
	"strconv"
	"strings"
)

// Accumulator sums the values of a fixed number of columns.
type Accumulator struct {
	totals  []float64
	skipped int
}

// NewAccumulator returns an Accumulator for n columns.
func NewAccumulator(n int) *Accumulator {
	return &Accumulator{totals: make([]float64, n)}
}

// Add the value in cell to the total for column col. Cells that are not
// numbers (e.g. NA or empty) are not counted.
func (a *Accumulator) Add(col int, cell string) {
	val, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		a.skipped++
		return
	}
	a.totals[col] += val
}

// Totals returns the current total of each column.
func (a *Accumulator) Totals() []float64 {
	ans := make([]float64, len(a.totals))
	copy(ans, a.totals)
	return ans
}

// Skipped returns the number of cells that could not be parsed.
func (a *Accumulator) Skipped() int {
	return a.skipped
}

// Summary of the library sizes of a set of samples.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

// Summarize totals. The zero Summary is returned if totals is empty.
func Summarize(totals []float64) Summary {
	if len(totals) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(totals))
	copy(sorted, totals)
	slices.Sort(sorted)

	var ans Summary
	ans.N = len(sorted)
	ans.Mean = stat.Mean(sorted, nil)
	if ans.N > 1 {
		ans.StdDev = stat.StdDev(sorted, nil)
	}
	ans.Min = sorted[0]
	ans.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	ans.Max = sorted[len(sorted)-1]
	return ans
}

// String method for Summary enables easy writing with the fmt package.
func (s Summary) String() string {
	ans := new(strings.Builder)
	ans.WriteString(fmt.Sprintf("Samples:\t%d\n", s.N))
	ans.WriteString(fmt.Sprintf("Mean:\t%0.2f\n", s.Mean))
	ans.WriteString(fmt.Sprintf("StdDev:\t%0.2f\n", s.StdDev))
	ans.WriteString(fmt.Sprintf("Min:\t%0.2f\n", s.Min))
	ans.WriteString(fmt.Sprintf("Median:\t%0.2f\n", s.Median))
	ans.WriteString(fmt.Sprintf("Max:\t%0.2f", s.Max))
	return ans.String()
}

// Graph returns a terminal plot of totals in sample order. Fewer than two
// totals give an empty string.
func Graph(totals []float64) string {
	if len(totals) < 2 {
		return ""
	}
	return asciigraph.Plot(totals, asciigraph.Height(10), asciigraph.Precision(0), asciigraph.Caption("library size by sample"))
}

// Plot writes a histogram of totals to filename. The image format is taken
// from the file extension (e.g. .pdf, .png, .svg).
func Plot(totals []float64, filename string) {
	if len(totals) == 0 {
		log.Printf("WARNING: no samples to plot, skipping '%s'\n", filename)
		return
	}

	bins := len(totals)
	if bins > 50 {
		bins = 50
	}
	hist, err := plotter.NewHist(plotter.Values(totals), bins)
	exception.PanicOnErr(err)

	p := plot.New()
	p.Add(hist)
	p.Title.Text = "Library sizes"
	p.X.Label.Text = "Column total"
	p.Y.Label.Text = "Samples"

	err = p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename)
	exception.PanicOnErr(err)
}
