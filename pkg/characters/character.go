// Package characters defines the character data model and the
// filter/sort/paginate transform applied to upstream pages.
package characters

// Origin is the nested origin object of an upstream character.
type Origin struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Location is the nested location object of an upstream character.
type Location struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character is a character as returned by the upstream API. Fields beyond
// the eligibility predicate are decoded but unused by the pipeline.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Gender   string   `json:"gender"`
	Image    string   `json:"image"`
	Origin   Origin   `json:"origin"`
	Location Location `json:"location"`
}

// FilteredCharacter is the projection served to clients and persisted to
// the durable store. Origin is flattened to its display name.
type FilteredCharacter struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Species string `json:"species"`
	Origin  string `json:"origin"`
}
