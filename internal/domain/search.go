package domain

// SearchResult is one ranked hit from a search over accessible entities.
type SearchResult struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// SearchResults groups hits per entity kind.
type SearchResults struct {
	Organizations []SearchResult `json:"organizations"`
	Workspaces    []SearchResult `json:"workspaces"`
	Boards        []SearchResult `json:"boards"`
}
