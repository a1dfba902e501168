package metadata

import (
	"fmt"
	"github.com/dasnellings/sampleFilter/keyword"
	"github.com/dasnellings/sampleFilter/tsv"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"log"
	"sort"
	"strings"
)

// Column names used by the UCSC Xena TCGA/TARGET/GTEx phenotype tables.
const (
	DefaultIdColumn       = "sample"
	DefaultCategoryColumn = "TCGA_GTEX_main_category"
)

// Table is a tab-delimited table with a header line. Cells are kept as the
// raw text read from the file.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the index of the named column, or -1 if it is absent.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Header, name)
}

// Column returns the values of the named column in row order.
// Rows too short to contain the column give an empty value.
func (t *Table) Column(name string) []string {
	idx := t.mustColumnIndex(name)
	ans := make([]string, len(t.Rows))
	for i := range t.Rows {
		ans[i] = cell(t.Rows[i], idx)
	}
	return ans
}

func (t *Table) mustColumnIndex(name string) int {
	idx := t.ColumnIndex(name)
	if idx == -1 {
		log.Fatalf("ERROR: column '%s' not found in metadata header: %s\n", name, strings.Join(t.Header, ", "))
	}
	return idx
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Read a tab-delimited metadata file. The first line is the header.
func Read(filename string) *Table {
	file := fileio.EasyOpen(filename)
	answer := new(Table)
	var line string
	var done, haveHeader bool
	for line, done = tsv.NextLine(file); !done; line, done = tsv.NextLine(file) {
		if line == "" {
			continue
		}
		if !haveHeader {
			answer.Header = strings.Split(line, "\t")
			haveHeader = true
			continue
		}
		answer.Rows = append(answer.Rows, strings.Split(line, "\t"))
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return answer
}

// Write t to filename as a tab-delimited file, header first.
func Write(filename string, t *Table) {
	out := fileio.EasyCreate(filename)
	var err error
	_, err = fmt.Fprintln(out, strings.Join(t.Header, "\t"))
	exception.PanicOnErr(err)
	for i := range t.Rows {
		_, err = fmt.Fprintln(out, strings.Join(t.Rows[i], "\t"))
		exception.PanicOnErr(err)
	}
	err = out.Close()
	exception.PanicOnErr(err)
}

// Filter returns a table with the rows of t whose value in column matches m.
// Column order and row order are preserved. The returned table shares row
// slices with t.
func Filter(t *Table, column string, m *keyword.Matcher) *Table {
	idx := t.mustColumnIndex(column)
	answer := &Table{Header: t.Header}
	for i := range t.Rows {
		if m.Match(cell(t.Rows[i], idx)) {
			answer.Rows = append(answer.Rows, t.Rows[i])
		}
	}
	return answer
}

// Settings for selecting samples from a metadata file.
type Settings struct {
	Input          string // input metadata file
	Output         string // filtered metadata file
	IdColumn       string // column with unique sample identifiers
	CategoryColumn string // column matched against the keywords
	Matcher        *keyword.Matcher
}

// CategoryCount is the number of selected samples with a given category.
type CategoryCount struct {
	Category string
	Count    int
}

// Result of Select.
type Result struct {
	Table      *Table
	Ids        []string        // sample identifiers in filtered row order
	Categories []CategoryCount // sorted by descending count, then category
}

// Select reads the metadata in s.Input, keeps the rows whose category matches
// s.Matcher, writes them to s.Output, and returns the identifiers of the
// selected samples.
func Select(s Settings) Result {
	t := Read(s.Input)
	t.mustColumnIndex(s.IdColumn)
	filtered := Filter(t, s.CategoryColumn, s.Matcher)
	if len(filtered.Rows) == 0 {
		log.Printf("WARNING: no values in column '%s' matched '%s'\n", s.CategoryColumn, s.Matcher.Pattern())
	}
	Write(s.Output, filtered)

	return Result{
		Table:      filtered,
		Ids:        uniqueIds(filtered.Column(s.IdColumn)),
		Categories: tally(filtered.Column(s.CategoryColumn)),
	}
}

// uniqueIds drops repeated identifiers, keeping the first occurrence.
func uniqueIds(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	ans := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			log.Printf("WARNING: sample '%s' is present more than once in metadata\n", id)
			continue
		}
		seen[id] = true
		ans = append(ans, id)
	}
	return ans
}

func tally(categories []string) []CategoryCount {
	m := make(map[string]int)
	for i := range categories {
		m[categories[i]]++
	}
	ans := make([]CategoryCount, 0, len(m))
	for category, count := range m {
		ans = append(ans, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(ans, func(i, j int) bool {
		if ans[i].Count != ans[j].Count {
			return ans[i].Count > ans[j].Count
		}
		return ans[i].Category < ans[j].Category
	})
	return ans
}
