package formats

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
)

// NewCSVReader returns a lenient reader for the given delimiter that also drops a UTF-8 byte order mark
func NewCSVReader(in io.Reader, delimiter rune) gocsv.CSVReader {
	buffered := bufio.NewReader(in)
	if bom, err := buffered.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		buffered.Discard(3)
	}

	r := csv.NewReader(buffered)
	if delimiter != 0 {
		r.Comma = delimiter
	}
	// Allow us to ignore those naughty records that have missing columns
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	return r
}
