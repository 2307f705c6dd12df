package pageindex

// NumLevels is the fixed number of breadcrumb levels docsearch understands.
const NumLevels = 7

// Hierarchy maps the breadcrumb levels lvl0..lvl6 to segment names. All
// seven keys are always serialized; levels beyond a page's depth stay null.
type Hierarchy struct {
	Lvl0 *string `json:"lvl0"`
	Lvl1 *string `json:"lvl1"`
	Lvl2 *string `json:"lvl2"`
	Lvl3 *string `json:"lvl3"`
	Lvl4 *string `json:"lvl4"`
	Lvl5 *string `json:"lvl5"`
	Lvl6 *string `json:"lvl6"`
}

func (h *Hierarchy) slot(level int) **string {
	switch level {
	case 0:
		return &h.Lvl0
	case 1:
		return &h.Lvl1
	case 2:
		return &h.Lvl2
	case 3:
		return &h.Lvl3
	case 4:
		return &h.Lvl4
	case 5:
		return &h.Lvl5
	case 6:
		return &h.Lvl6
	}
	return nil
}

// Set assigns value to the given level. Levels outside 0..6 are ignored.
func (h *Hierarchy) Set(level int, value string) {
	if s := h.slot(level); s != nil {
		*s = &value
	}
}

// Get returns the value at the given level, or nil when unset or out of range.
func (h *Hierarchy) Get(level int) *string {
	if s := h.slot(level); s != nil {
		return *s
	}
	return nil
}

// Weight carries the docsearch ranking hints attached to every record.
type Weight struct {
	Position int `json:"position"`
	Level    int `json:"level"`
	PageRank int `json:"page_rank"`
}

// defaultWeight is the template copied into each record; Level is then
// overwritten with the record's depth.
var defaultWeight = Weight{Position: 1, Level: 10, PageRank: 0}

// PageRecord is one docsearch index entry, one per markdown file.
type PageRecord struct {
	ObjectID          int       `json:"objectID"`
	URL               string    `json:"url"`
	Content           string    `json:"content"`
	Tags              []string  `json:"tags"`
	Hierarchy         Hierarchy `json:"hierarchy"`
	HierarchyComplete Hierarchy `json:"hierarchy_complete"`
	HierarchyRadio    Hierarchy `json:"hierarchy_radio"`
	Type              string    `json:"type"`
	Anchor            *string   `json:"anchor"`
	Weight            Weight    `json:"weight"`
}
