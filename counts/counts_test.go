package counts

import (
	"fmt"
	"github.com/dasnellings/sampleFilter/tsv"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCounts = "sample\tA\tB\tD\tE\n" +
	"ENSG01\t1\t2\t3\t4\n" +
	"ENSG02\t5\t6\t7\t8\n" +
	"ENSG03\t0\tNA\t0\t1.5\n"

func writeTestFile(t *testing.T, name, contents string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(filename, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestReadHeader(t *testing.T) {
	header := ReadHeader(writeTestFile(t, "counts.tsv", "\n"+testCounts))
	if !slices.Equal(header, []string{"sample", "A", "B", "D", "E"}) {
		t.Error("problem reading header:", header)
	}
}

var intersectTests = []struct {
	header          []string
	ids             []string
	expectedCols    []int
	expectedDropped int
}{
	{[]string{"gene", "A", "B"}, []string{"A", "C"}, []int{0, 1}, 1},
	{[]string{"gene", "A", "B", "C"}, []string{"C", "A"}, []int{0, 3, 1}, 0},
	{[]string{"gene", "A", "B"}, nil, []int{0}, 0},
	{[]string{"gene", "A", "B"}, []string{"gene"}, []int{0}, 1},
	{[]string{"gene", "A", "B"}, []string{"A", "A"}, []int{0, 1}, 0},
}

func TestIntersect(t *testing.T) {
	for _, test := range intersectTests {
		cols, dropped := Intersect(test.header, test.ids)
		if !slices.Equal(cols, test.expectedCols) || dropped != test.expectedDropped {
			t.Errorf("header %v ids %v: expected %v (%d dropped), got %v (%d dropped)",
				test.header, test.ids, test.expectedCols, test.expectedDropped, cols, dropped)
		}
	}
}

func TestProject(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.tsv")
	res := Project(Settings{
		Input:        writeTestFile(t, "counts.tsv", testCounts),
		Output:       output,
		LibrarySizes: true,
	}, []string{"E", "C", "A"})

	if res.Samples != 2 || res.Dropped != 1 || res.Rows != 3 {
		t.Errorf("expected 2 samples, 1 dropped, 3 rows, got %d, %d, %d", res.Samples, res.Dropped, res.Rows)
	}
	if !slices.Equal(res.Header, []string{"sample", "E", "A"}) {
		t.Error("problem with output header:", res.Header)
	}
	if !slices.Equal(res.LibrarySizes, []float64{13.5, 6}) {
		t.Error("problem with library sizes:", res.LibrarySizes)
	}

	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	expected := "sample\tE\tA\n" +
		"ENSG01\t4\t1\n" +
		"ENSG02\t8\t5\n" +
		"ENSG03\t1.5\t0\n"
	if string(written) != expected {
		t.Errorf("problem with projected counts. expected:\n%s\ngot:\n%s", expected, written)
	}
}

func TestProjectKeepsFeatureColumn(t *testing.T) {
	input := writeTestFile(t, "counts.tsv", testCounts)
	output := filepath.Join(t.TempDir(), "out.tsv")
	res := Project(Settings{Input: input, Output: output}, []string{"Z"})
	if res.Samples != 0 || res.Dropped != 1 || res.LibrarySizes != nil {
		t.Error("problem with empty projection:", res)
	}

	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(written), "\n"), "\n")
	expected := []string{"sample", "ENSG01", "ENSG02", "ENSG03"}
	if !slices.Equal(lines, expected) {
		t.Error("first column should be unchanged:", lines)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	input := writeTestFile(t, "counts.tsv", testCounts)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.tsv")
	second := filepath.Join(dir, "second.tsv")
	Project(Settings{Input: input, Output: first}, []string{"B", "D"})
	Project(Settings{Input: input, Output: second}, []string{"B", "D"})

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("repeated projection gave different output")
	}
}

func TestProjectNoFinalNewline(t *testing.T) {
	input := writeTestFile(t, "counts.tsv", "gene\tA\tB\ng1\t1\t2\ng2\t3\t4")
	output := filepath.Join(t.TempDir(), "out.tsv")
	res := Project(Settings{Input: input, Output: output}, []string{"A"})
	if res.Samples != 1 || res.Rows != 2 {
		t.Errorf("expected 1 sample and 2 rows, got %d and %d", res.Samples, res.Rows)
	}

	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	expected := "gene\tA\ng1\t1\ng2\t3\n"
	if string(written) != expected {
		t.Errorf("problem with projected counts. expected:\n%s\ngot:\n%s", expected, written)
	}

	header := ReadHeader(writeTestFile(t, "header.tsv", "gene\tA\tB"))
	if !slices.Equal(header, []string{"gene", "A", "B"}) {
		t.Error("problem reading unterminated header:", header)
	}
}

func TestProjectUnparsed(t *testing.T) {
	res := Project(Settings{
		Input:        writeTestFile(t, "counts.tsv", testCounts),
		Output:       filepath.Join(t.TempDir(), "out.tsv"),
		LibrarySizes: true,
	}, []string{"B", "D"})
	if res.Unparsed != 1 {
		t.Errorf("expected 1 unparsed cell, got %d", res.Unparsed)
	}
	if !slices.Equal(res.LibrarySizes, []float64{8, 10}) {
		t.Error("problem with library sizes:", res.LibrarySizes)
	}
}

func TestProjectGzip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "counts.tsv.gz")
	in := fileio.EasyCreate(input)
	_, err := fmt.Fprint(in, testCounts)
	exception.PanicOnErr(err)
	err = in.Close()
	exception.PanicOnErr(err)

	output := filepath.Join(dir, "out.tsv.gz")
	res := Project(Settings{Input: input, Output: output}, []string{"D", "B"})
	if res.Samples != 2 || res.Rows != 3 {
		t.Errorf("expected 2 samples and 3 rows, got %d and %d", res.Samples, res.Rows)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Error("output is not gzip compressed")
	}

	file := fileio.EasyOpen(output)
	var lines []string
	for line, done := tsv.NextLine(file); !done; line, done = tsv.NextLine(file) {
		lines = append(lines, line)
	}
	err = file.Close()
	exception.PanicOnErr(err)
	expected := []string{"sample\tD\tB", "ENSG01\t3\t2", "ENSG02\t7\t6", "ENSG03\t0\tNA"}
	if !slices.Equal(lines, expected) {
		t.Error("problem with gzip round trip:", lines)
	}
}
