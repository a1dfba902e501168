package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/sampleFilter/counts"
	"github.com/dasnellings/sampleFilter/keyword"
	"github.com/dasnellings/sampleFilter/libsize"
	"github.com/dasnellings/sampleFilter/metadata"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vertgenlab/gonomics/exception"
	"log"
	"os"
	"path/filepath"
)

const version string = "0.0.1"

func usage() {
	fmt.Print(
		"filterSamples - select samples from a count matrix and its metadata by category keyword\n" +
			"Version: " + version + "\n\n" +
			"Keeps the metadata rows whose category contains any of the keywords (case-sensitive),\n" +
			"then keeps the matching sample columns of the count matrix.\n\n" +
			"Usage:\n" +
			"  filterSamples [options] keyword [keyword ...]\n\n" +
			"Options:\n")
	flag.PrintDefaults()
}

type settings struct {
	MetaIn         string
	CountsIn       string
	MetaOut        string
	CountsOut      string
	IdColumn       string
	CategoryColumn string
	Keywords       []string
	IgnoreCase     bool
	Regex          bool
	Summary        bool
	PlotFile       string
	Verbose        int
}

func main() {
	metaIn := flag.String("meta", "cohort_TCGA_TARGET_GTEx/TCGA_GTEX_category.txt", "Input TSV file with sample metadata.")
	countsIn := flag.String("counts", "cohort_TCGA_TARGET_GTEx/expected_counts_without_TARGET_samples.tsv", "Input TSV count matrix. First column is the feature id, one column per sample.")
	metaOut := flag.String("metaOut", "filtered_datasets/filtered_metadata.txt", "Output TSV file for filtered metadata.")
	countsOut := flag.String("countsOut", "filtered_datasets/filtered_counts.txt", "Output TSV file for filtered count matrix.")
	idCol := flag.String("idCol", metadata.DefaultIdColumn, "Metadata column with sample identifiers matching the count matrix header.")
	categoryCol := flag.String("categoryCol", metadata.DefaultCategoryColumn, "Metadata column matched against the keywords.")
	ignoreCase := flag.Bool("ignoreCase", false, "Ignore case when matching keywords.")
	regex := flag.Bool("regex", false, "Treat keywords as regular expressions.")
	summary := flag.Bool("summary", false, "Print a summary of the column totals (library sizes) of the written samples.")
	plotFile := flag.String("plot", "", "Write a histogram of the column totals of the written samples to this file (.pdf, .png, .svg).")
	verbose := flag.Int("v", 0, "Verbose output by setting to >0.")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		errExit("\nERROR: must provide at least one keyword")
	}

	s := settings{
		MetaIn:         *metaIn,
		CountsIn:       *countsIn,
		MetaOut:        *metaOut,
		CountsOut:      *countsOut,
		IdColumn:       *idCol,
		CategoryColumn: *categoryCol,
		Keywords:       flag.Args(),
		IgnoreCase:     *ignoreCase,
		Regex:          *regex,
		Summary:        *summary,
		PlotFile:       *plotFile,
		Verbose:        *verbose,
	}

	err := filterSamples(s)
	if err != nil {
		errExit("ERROR: " + err.Error())
	}
}

func filterSamples(s settings) error {
	m, err := keyword.NewMatcher(s.Keywords, s.IgnoreCase, s.Regex)
	if err != nil {
		return err
	}

	for _, file := range []string{s.MetaOut, s.CountsOut} {
		err = os.MkdirAll(filepath.Dir(file), 0755)
		exception.PanicOnErr(err)
	}

	meta := metadata.Select(metadata.Settings{
		Input:          s.MetaIn,
		Output:         s.MetaOut,
		IdColumn:       s.IdColumn,
		CategoryColumn: s.CategoryColumn,
		Matcher:        m,
	})
	if s.Verbose > 0 {
		log.Printf("%d metadata rows matched '%s'\n", len(meta.Table.Rows), m.Pattern())
		log.Printf("matched categories:\n%s\n", categoryTable(meta.Categories))
	}

	res := counts.Project(counts.Settings{
		Input:        s.CountsIn,
		Output:       s.CountsOut,
		LibrarySizes: s.Summary || s.PlotFile != "",
	}, meta.Ids)
	if res.Dropped > 0 {
		log.Printf("WARNING: %d samples in metadata were not found in the count matrix\n", res.Dropped)
	}
	if res.Unparsed > 0 {
		log.Printf("WARNING: %d non-numeric count values were left out of the library sizes\n", res.Unparsed)
	}
	if s.Verbose > 0 {
		log.Printf("wrote %d rows x %d samples to %s\n", res.Rows, res.Samples, s.CountsOut)
	}

	if s.Summary {
		fmt.Println(libsize.Summarize(res.LibrarySizes))
		if graph := libsize.Graph(res.LibrarySizes); graph != "" {
			fmt.Println(graph)
		}
	}
	if s.PlotFile != "" {
		libsize.Plot(res.LibrarySizes, s.PlotFile)
	}

	fmt.Println("Done!")
	return nil
}

func categoryTable(categories []metadata.CategoryCount) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Category", "Samples"})
	for i := range categories {
		t.AppendRow(table.Row{categories[i].Category, categories[i].Count})
	}
	return t.Render()
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
