package cache

import "fmt"

// Key identifies one query's result set. Identical query tuples always
// canonicalize to the identical key string; distinct tuples cannot collide
// because every field is embedded positionally.
type Key struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// String generates the deterministic cache key string.
//
// Example:
//
//	characters_page_1_limit_10_sortby_id_order_asc
func (k Key) String() string {
	return fmt.Sprintf("characters_page_%d_limit_%d_sortby_%s_order_%s",
		k.Page, k.Limit, k.SortBy, k.SortOrder)
}
