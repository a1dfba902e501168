// Package tsv reads lines from tab-delimited text files opened with gonomics fileio.
package tsv

import (
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"io"
	"strings"
)

// NextLine returns the next line of file without the line ending, and true
// once the file is exhausted. Unlike fileio.EasyNextLine, a final line with
// no trailing newline is returned rather than treated as an error.
func NextLine(file *fileio.EasyReader) (string, bool) {
	line, err := file.BuffReader.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", true
		}
		return strings.TrimSuffix(line, "\r"), false
	}
	exception.PanicOnErr(err)
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), false
}
