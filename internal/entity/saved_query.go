package entity

// SortDir is ascending or descending.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

func (d SortDir) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

type SortSpec struct {
	Key string  `json:"key"`
	Dir SortDir `json:"dir"`
}

// DefaultSort lists the most recently created leads first.
var DefaultSort = SortSpec{Key: FieldCreatedAt, Dir: SortDesc}

// QuerySnapshot is a filter plus sort as captured by the report view.
type QuerySnapshot struct {
	Search      string   `json:"q"`
	Stage       string   `json:"stage"`
	Temperature string   `json:"temp"`
	Program     string   `json:"program"`
	Sort        SortSpec `json:"sort"`
}

// SavedQuery is immutable once saved.
type SavedQuery struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Filters QuerySnapshot `json:"filters"`
}

// SortableFields are the keys a SortSpec may name.
var SortableFields = LeadFieldNames
