package standings

import "context"

// Provider supplies the authoritative ordered team list for a season.
type Provider interface {
	GetStandings(ctx context.Context, season int) ([]TeamPosition, error)
}

// Repository extends Provider with the write side used by ingestion.
type Repository interface {
	Provider
	ReplaceBySeason(ctx context.Context, season int, rows []TeamPosition) error
}
