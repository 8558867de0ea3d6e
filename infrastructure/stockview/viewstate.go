package stockview

// ViewState is the presentation layer's view of the dashboard: the search
// box, the current page and the row being edited. It is a value; every
// method returns a modified copy.
type ViewState struct {
	Search string
	Page   int
	EditID int64
}

// NewViewState returns the initial state: no search, page 1, nothing edited.
func NewViewState() ViewState {
	return ViewState{Page: 1}
}

// WithSearch changes the search term and goes back to the first page.
func (v ViewState) WithSearch(term string) ViewState {
	v.Search = term
	v.Page = 1
	return v
}

// WithPage jumps to page p, never below 1. There is no upper bound.
func (v ViewState) WithPage(p int) ViewState {
	v.Page = max(1, p)
	return v
}

func (v ViewState) Next() ViewState { return v.WithPage(v.Page + 1) }

func (v ViewState) Prev() ViewState { return v.WithPage(v.Page - 1) }

// Editing marks id as the row being edited.
func (v ViewState) Editing(id int64) ViewState {
	v.EditID = id
	return v
}

// ClearEdit drops the edit marker if it points at id.
func (v ViewState) ClearEdit(id int64) ViewState {
	if v.EditID == id {
		v.EditID = 0
	}
	return v
}

// IsEditing reports whether id is the row being edited.
func (v ViewState) IsEditing(id int64) bool {
	return id != 0 && v.EditID == id
}
