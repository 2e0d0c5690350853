package schema

// CatalogView is the derived output of one recomputation of the catalog view.
type CatalogView struct {
	Mode        ViewMode    `json:"mode"`
	Filters     FilterState `json:"filters"`
	Sort        SortKey     `json:"sort"`
	TeamSort    TeamSortKey `json:"team_sort"`
	CurrentHash string      `json:"current_hash"`
	Total       int         `json:"total"`
	Services    []Service   `json:"services"`
	Teams       []TeamStats `json:"teams,omitempty"`
}

// Filtered is the number of services left after filtering.
func (v CatalogView) Filtered() int {
	return len(v.Services)
}
