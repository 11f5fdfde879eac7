// README: Common value objects shared across modules.
package types

// ID is a timestamp-derived entity identifier (milliseconds since epoch,
// bumped when two entities are created within the same millisecond).
type ID int64

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Zero reports whether the point carries no coordinates.
func (p Point) Zero() bool {
	return p.Lat == 0 && p.Lng == 0
}
