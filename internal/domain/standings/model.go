package standings

import "sort"

// TeamPosition is one row of an authoritative league table snapshot.
// Positions within a snapshot are a contiguous permutation of 1..N and
// team names are unique.
type TeamPosition struct {
	Position int
	Team     string
}

// SortByPosition orders a snapshot ascending by table position in place.
// Providers call this so consumers can rely on index i holding position i+1.
func SortByPosition(rows []TeamPosition) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position < rows[j].Position
	})
}
