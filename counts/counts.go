// Package counts selects sample columns from a tab-delimited count matrix
// (features x samples) without loading the matrix into memory.
package counts

import (
	"fmt"
	"github.com/dasnellings/sampleFilter/libsize"
	"github.com/dasnellings/sampleFilter/tsv"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/numbers"
	"log"
	"strings"
)

// Settings for projecting a count matrix.
type Settings struct {
	Input        string // input count matrix
	Output       string // projected count matrix
	LibrarySizes bool   // sum each written sample column
}

// Result of Project.
type Result struct {
	Header       []string  // header of the written matrix
	Samples      int       // number of sample columns written
	Dropped      int       // ids not present in the input matrix
	Rows         int       // number of data rows written
	LibrarySizes []float64 // column totals for each written sample, if requested
	Unparsed     int       // non-numeric sample cells left out of LibrarySizes
}

// ReadHeader returns the column names of a count matrix. Only the first
// non-empty line of the file is read.
func ReadHeader(filename string) []string {
	file := fileio.EasyOpen(filename)
	var header []string
	var line string
	var done bool
	for line, done = tsv.NextLine(file); !done; line, done = tsv.NextLine(file) {
		if line != "" {
			header = strings.Split(line, "\t")
			break
		}
	}
	err := file.Close()
	exception.PanicOnErr(err)
	if header == nil {
		log.Fatalf("ERROR: count matrix '%s' is empty\n", filename)
	}
	return header
}

// Intersect returns the indexes of the columns in header to keep. The first
// column (feature id) is always kept, followed by the sample columns named in
// ids in the order they appear in ids. Ids that are not sample columns in
// header are counted in dropped.
func Intersect(header []string, ids []string) (cols []int, dropped int) {
	colIdx := make(map[string]int, len(header))
	for i := 1; i < len(header); i++ {
		if _, found := colIdx[header[i]]; !found {
			colIdx[header[i]] = i
		}
	}

	cols = make([]int, 1, len(ids)+1)
	used := make(map[int]bool, len(ids))
	for _, id := range ids {
		idx, found := colIdx[id]
		if !found {
			dropped++
			continue
		}
		if used[idx] {
			continue
		}
		used[idx] = true
		cols = append(cols, idx)
	}
	return cols, dropped
}

// Project writes the first column of s.Input and the sample columns named in
// ids to s.Output. The matrix is processed one line at a time.
func Project(s Settings, ids []string) Result {
	header := ReadHeader(s.Input)
	cols, dropped := Intersect(header, ids)

	var answer Result
	answer.Header = project(header, cols)
	answer.Samples = len(cols) - 1
	answer.Dropped = dropped

	var maxCol int
	for i := range cols {
		maxCol = numbers.Max(maxCol, cols[i])
	}

	var acc *libsize.Accumulator
	if s.LibrarySizes {
		acc = libsize.NewAccumulator(answer.Samples)
	}

	fmt.Printf("Writing %d samples to output file...\n", answer.Samples)

	file := fileio.EasyOpen(s.Input)
	out := fileio.EasyCreate(s.Output)
	var line string
	var fields []string
	var done, headerDone bool
	var lineNum int
	var err error
	for line, done = tsv.NextLine(file); !done; line, done = tsv.NextLine(file) {
		lineNum++
		if line == "" {
			continue
		}
		fields = strings.Split(line, "\t")
		if !headerDone {
			headerDone = true
		} else {
			if len(fields) <= maxCol {
				log.Fatalf("ERROR: line %d of '%s' has %d columns, expected at least %d\n", lineNum, s.Input, len(fields), maxCol+1)
			}
			answer.Rows++
			if acc != nil {
				for i := 1; i < len(cols); i++ {
					acc.Add(i-1, fields[cols[i]])
				}
			}
		}
		_, err = fmt.Fprintln(out, strings.Join(project(fields, cols), "\t"))
		exception.PanicOnErr(err)
	}

	err = file.Close()
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)

	if acc != nil {
		answer.LibrarySizes = acc.Totals()
		answer.Unparsed = acc.Skipped()
	}
	return answer
}

func project(fields []string, cols []int) []string {
	ans := make([]string, len(cols))
	for i := range cols {
		ans[i] = fields[cols[i]]
	}
	return ans
}
