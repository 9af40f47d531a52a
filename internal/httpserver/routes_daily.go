// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board. Every round created with {"daily":true}
// on the same UTC date shares one board, derived from date + DAILY_SALT.
//   - GET /daily             → today's date key and board
//   - GET /daily/leaderboard → best results for today (or ?date=YYYY-MM-DD)

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/boggle/apps/go-server/internal/board"
	"github.com/robalobadob/boggle/apps/go-server/internal/daily"
	"github.com/robalobadob/boggle/apps/go-server/internal/ledger"
)

type dailyRes struct {
	Date  string       `json:"date"`
	Board *board.Board `json:"board"`
}

type dailyLeaderboardRes struct {
	Date    string         `json:"date"`
	Results []ledger.Entry `json:"results"`
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	b, err := daily.Board(now, s.cfg.DailySalt, s.cfg.BoardSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyRes{Date: daily.DateKey(now), Board: b})
}

// handleDailyLeaderboard returns the top results for a date, default today.
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	rows, err := s.ledger.Daily(r.Context(), date, queryLimit(r, 20))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("date", date).Msg("daily leaderboard")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dailyLeaderboardRes{Date: date, Results: rows})
}
