package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{season}/standings", handler.ListSeasonStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/seasons/{season}/bets", RequireAuth(verifier, http.HandlerFunc(handler.SubmitBet)))
	mux.Handle("GET /v1/seasons/{season}/bets", RequireAuth(verifier, http.HandlerFunc(handler.ListMyBets)))
	mux.Handle("POST /v1/seasons/{season}/bets/reassign", RequireAuth(verifier, http.HandlerFunc(handler.ReassignBet)))
	mux.Handle("GET /v1/seasons/{season}/score", RequireAuth(verifier, http.HandlerFunc(handler.GetMyScore)))
	mux.Handle("GET /v1/groups/{groupID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetGroupLeaderboard)))
}
