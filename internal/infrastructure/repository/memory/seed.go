package memory

import (
	"context"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/standings"
)

// brasileiraoClubs is the 2025 Série A field, listed in last season's
// finishing order so a fresh DB-less run has a plausible table.
var brasileiraoClubs = []string{
	"Botafogo",
	"Palmeiras",
	"Flamengo",
	"Fortaleza",
	"Internacional",
	"São Paulo",
	"Corinthians",
	"Bahia",
	"Cruzeiro",
	"Vasco da Gama",
	"Vitória",
	"Atlético Mineiro",
	"Fluminense",
	"Grêmio",
	"Juventude",
	"Bragantino",
	"Santos",
	"Mirassol",
	"Ceará",
	"Sport Recife",
}

// SeedStandings fills the provider with a full 20-club table for the
// season.
func SeedStandings(provider *StandingsProvider, season int) error {
	rows := make([]standings.TeamPosition, 0, len(brasileiraoClubs))
	for idx, club := range brasileiraoClubs {
		rows = append(rows, standings.TeamPosition{Position: idx + 1, Team: club})
	}
	return provider.ReplaceBySeason(context.Background(), season, rows)
}
