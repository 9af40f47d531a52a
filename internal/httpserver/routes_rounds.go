// apps/go-server/internal/httpserver/routes_rounds.go
//
// HTTP routes for multiplayer rounds. All routes require auth; the player
// identity inside a round is the account username.
//
//   - POST /rounds                → create a round ({"size":N,"daily":bool}); creator joins
//   - GET  /rounds                → rounds still collecting words
//   - GET  /rounds/mine           → the caller's recorded results
//   - GET  /rounds/{id}           → snapshot (+ the caller's own words)
//   - POST /rounds/{id}/join      → join while collecting
//   - POST /rounds/{id}/words     → offer one word ({"word":"..."})
//   - POST /rounds/{id}/submit    → final list ({"words":[...]}); marks caller finished
//   - POST /rounds/{id}/finish    → close the round early and score it
//   - GET  /rounds/{id}/results   → ranking + winners once complete

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/boggle/apps/go-server/internal/board"
	"github.com/robalobadob/boggle/apps/go-server/internal/daily"
	"github.com/robalobadob/boggle/apps/go-server/internal/game"
	"github.com/robalobadob/boggle/apps/go-server/internal/scoring"
	"github.com/robalobadob/boggle/apps/go-server/internal/store"
)

type createRoundReq struct {
	Size  int  `json:"size"`  // 0 uses BOARD_SIZE
	Daily bool `json:"daily"` // today's shared board
}

type wordReq struct {
	Word string `json:"word"`
}
type wordRes struct {
	Accepted bool `json:"accepted"`
	Count    int  `json:"count"` // caller's accepted words so far
}

type submitReq struct {
	Words []string `json:"words"`
}
type submitRes struct {
	Accepted int        `json:"accepted"`
	Phase    game.Phase `json:"phase"`
}

// roundView is a snapshot plus the caller's own words and standing.
type roundView struct {
	game.Snapshot
	Found []string            `json:"found,omitempty"`
	Me    *scoring.ClientInfo `json:"me,omitempty"`
}

type resultsRes struct {
	RoundID string           `json:"roundId"`
	Ranking *scoring.Results `json:"ranking"`
	Winners []string         `json:"winners"`
}

func (s *Server) mountRounds(r chi.Router) {
	r.Post("/rounds", s.handleCreateRound)
	r.Get("/rounds", s.handleListRounds)
	r.Get("/rounds/mine", s.handleMyRounds)
	r.Get("/rounds/{id}", s.handleGetRound)
	r.Post("/rounds/{id}/join", s.handleJoin)
	r.Post("/rounds/{id}/words", s.handleWord)
	r.Post("/rounds/{id}/submit", s.handleSubmit)
	r.Post("/rounds/{id}/finish", s.handleFinish)
	r.Get("/rounds/{id}/results", s.handleResults)
}

// newRound builds a round, wires its completion hooks and stores it.
func (s *Server) newRound(ctx context.Context, size int, isDaily bool) (*game.Round, error) {
	var (
		b   *board.Board
		err error
	)
	now := time.Now().UTC()
	if isDaily {
		b, err = daily.Board(now, s.cfg.DailySalt, size)
	} else {
		b, err = s.gen.Generate(size)
	}
	if err != nil {
		return nil, err
	}

	rd := game.New(b, s.dict, s.cfg.RoundDuration)
	if isDaily {
		rd.Daily = daily.DateKey(now)
	}
	rd.OnComplete(s.recordRound)
	if err := s.store.Save(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

// recordRound writes the final results to the ledger and pushes them to
// subscribers. It runs once per round, on whichever goroutine scored it.
func (s *Server) recordRound(rd *game.Round, res *scoring.Results) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ledger.Record(ctx, rd.ID, rd.Daily, res); err != nil {
		log.Error().Err(err).Str("round", rd.ID).Msg("record round results")
	}
	log.Info().Str("round", rd.ID).Int("players", res.Len()).Strs("winners", res.Winners()).Msg("round complete")
	s.events.publish(rd.ID, event{Type: eventResults, Round: rd.Snapshot()})
	s.events.closeRound(rd.ID)
}

func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	var req createRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	size := lo.Ternary(req.Size == 0, s.cfg.BoardSize, req.Size)
	if size > maxBoardSize {
		writeError(w, r, board.ErrInvalidSize)
		return
	}

	rd, err := s.newRound(r.Context(), size, req.Daily)
	if err != nil {
		writeError(w, r, err)
		return
	}
	me := currentUser(r)
	if err := rd.Join(me.Username); err != nil {
		writeError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("round", rd.ID).Int("size", size).Bool("daily", req.Daily).Msg("round created")
	writeJSON(w, http.StatusCreated, roundView{Snapshot: rd.Snapshot(), Found: []string{}})
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	open := lo.FilterMap(rounds, func(rd *game.Round, _ int) (game.Snapshot, bool) {
		if rd.Phase() != game.Collecting {
			return game.Snapshot{}, false
		}
		return rd.Snapshot(), true
	})
	writeJSON(w, http.StatusOK, open)
}

func (s *Server) handleMyRounds(w http.ResponseWriter, r *http.Request) {
	hist, err := s.ledger.History(r.Context(), currentUser(r).Username, queryLimit(r, 50))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("round history")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	view := roundView{Snapshot: rd.Snapshot()}
	if me, err := rd.Standing(currentUser(r).Username); err == nil {
		view.Me = me
		view.Found = me.Words.Sorted()
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	if err := rd.Join(currentUser(r).Username); err != nil {
		writeError(w, r, err)
		return
	}
	snap := rd.Snapshot()
	s.events.publish(rd.ID, event{Type: eventState, Round: snap})
	writeJSON(w, http.StatusOK, roundView{Snapshot: snap, Found: []string{}})
}

func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	var req wordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	name := currentUser(r).Username
	accepted, err := rd.AddWord(name, req.Word)
	if err != nil {
		writeError(w, r, err)
		return
	}
	found, _ := rd.Found(name)
	if accepted {
		s.events.publish(rd.ID, event{Type: eventState, Round: rd.Snapshot()})
	}
	writeJSON(w, http.StatusOK, wordRes{Accepted: accepted, Count: len(found)})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	n, err := rd.Submit(currentUser(r).Username, req.Words)
	if err != nil {
		writeError(w, r, err)
		return
	}
	phase := rd.Phase()
	if phase == game.Collecting {
		s.events.publish(rd.ID, event{Type: eventState, Round: rd.Snapshot()})
	}
	writeJSON(w, http.StatusOK, submitRes{Accepted: n, Phase: phase})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	if !rd.HasPlayer(currentUser(r).Username) {
		writeError(w, r, game.ErrUnknownPlayer)
		return
	}
	rd.Finish()
	writeJSON(w, http.StatusOK, rd.Snapshot())
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	res, err := rd.Results()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsRes{RoundID: rd.ID, Ranking: res, Winners: res.Winners()})
}

// round loads the {id} round or writes 404.
func (s *Server) round(w http.ResponseWriter, r *http.Request) (*game.Round, bool) {
	rd, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return rd, true
}

// writeError maps domain errors onto status codes and JSON error bodies.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrFull):
		status, code = http.StatusServiceUnavailable, "server_full"
	case errors.Is(err, game.ErrNotCollecting):
		status, code = http.StatusConflict, "wrong_phase"
	case errors.Is(err, game.ErrNotComplete):
		status, code = http.StatusConflict, "not_complete"
	case errors.Is(err, game.ErrAlreadyJoined):
		status, code = http.StatusConflict, "already_joined"
	case errors.Is(err, game.ErrUnknownPlayer):
		status, code = http.StatusForbidden, "not_joined"
	case errors.Is(err, board.ErrInvalidSize), errors.Is(err, game.ErrInvalidName):
		status, code = http.StatusBadRequest, "invalid_request"
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("round request failed")
		status, code = http.StatusInternalServerError, "internal"
	}
	writeJSON(w, status, map[string]string{"error": code})
}
