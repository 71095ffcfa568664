package entity

// MergeMode controls how an import row overwrites a matched lead.
type MergeMode string

const (
	// MergeOverwrite copies every column present in the row, blanks included.
	MergeOverwrite MergeMode = "overwrite"
	// MergeNonEmpty copies only columns with a non-empty value.
	MergeNonEmpty MergeMode = "non-empty"
)

func (m MergeMode) IsValid() bool {
	return m == MergeOverwrite || m == MergeNonEmpty
}

// ImportRow is one parsed data line of an import file. Columns keeps the
// header order; Values holds the value for each column present in the row.
type ImportRow struct {
	Line    int
	Columns []string
	Values  map[string]string
}

func (r ImportRow) Get(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

func (r ImportRow) ID() string {
	return r.Values[FieldID]
}

func (r ImportRow) Email() string {
	return r.Values[FieldEmail]
}

// UnknownColumns lists the row's columns that are not lead fields.
func (r ImportRow) UnknownColumns() []string {
	var out []string
	for _, c := range r.Columns {
		if c != "" && !IsLeadField(c) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyTo copies the row's known columns onto l. The id and createdAt of an
// existing lead are identity, so they are only taken when l has none.
func (r ImportRow) ApplyTo(l *Lead, mode MergeMode) {
	for _, c := range r.Columns {
		v, ok := r.Values[c]
		if !ok || !IsLeadField(c) {
			continue
		}
		if mode == MergeNonEmpty && v == "" {
			continue
		}
		if c == FieldID && l.ID != "" {
			continue
		}
		if c == FieldCreatedAt && l.CreatedAt != "" {
			continue
		}
		l.Set(c, v)
	}
}

// RowError records an import line that was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
