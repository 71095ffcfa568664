// Package leadcsv is the delimited text format used to export and import
// leads.
//
// Export writes an unquoted header in canonical column order followed by
// one line per lead with every value double-quoted. Import reads the
// column order from the header, so files with reordered, missing or extra
// columns still parse.
package leadcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xavierca1/hecms/internal/entity"
)

// Filename is the name offered for downloads.
const Filename = "leads_export.csv"

// Columns is the export header, in order.
var Columns = entity.LeadFieldNames

// Write encodes leads to w. Rows are separated by a single newline and the
// output has no trailing newline.
func Write(w io.Writer, leads []entity.Lead) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Columns, ",")); err != nil {
		return err
	}
	for _, l := range leads {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, c := range Columns {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			v, _ := l.Value(c)
			if _, err := bw.WriteString(quote(v)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Encode returns the export text for leads.
func Encode(leads []entity.Lead) string {
	var sb strings.Builder
	_ = Write(&sb, leads)
	return sb.String()
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Decode reads an import file. The first record is the header. Each later
// record becomes an ImportRow whose values are keyed by header name; short
// records pad the missing columns with empty values and surplus values are
// dropped. Records that cannot be split are returned as RowErrors and do
// not stop the import. An empty input yields no rows.
func Decode(r io.Reader) ([]entity.ImportRow, []entity.RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}

	var rows []entity.ImportRow
	var skipped []entity.RowError
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped = append(skipped, entity.RowError{Line: pe.StartLine, Reason: pe.Err.Error()})
				continue
			}
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)

		row := entity.ImportRow{
			Line:    line,
			Columns: columns,
			Values:  make(map[string]string, len(columns)),
		}
		for i, c := range columns {
			if c == "" {
				continue
			}
			if i < len(record) {
				row.Values[c] = record[i]
			} else {
				row.Values[c] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
