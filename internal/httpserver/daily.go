// internal/httpserver/daily.go
//
// HTTP routes for the daily run.
//   - POST /daily             → start (or resume) today's daily run
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Every player rolls the same dice on the same UTC date (seeded from
// DAILY_SALT). Each player can record one daily result per date (enforced
// by the store); the live run is held in the run store like any other.
package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cursed-dice/internal/daily"
	"github.com/robalobadob/cursed-dice/internal/dice"
	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/game"
	"github.com/robalobadob/cursed-dice/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store daily.Store
	salt  string
	mu    sync.Mutex        // guards runs
	runs  map[string]string // userID|date -> run id
}

func newDailyServer(s *Server, st daily.Store) *dailyServer {
	salt := s.cfg.DailySalt
	if salt == "" {
		salt = "local_dev_salt"
	}
	return &dailyServer{srv: s, store: st, salt: salt, runs: make(map[string]string)}
}

func (d *dailyServer) mount(r chi.Router) {
	r.Post("/daily", d.handleNew)
	r.Get("/daily/leaderboard", d.handleLeaderboard)
}

// newRes is returned by POST /daily.
type newRes struct {
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Run    *game.Snapshot `json:"run,omitempty"`
}

// handleNew creates or reuses today's daily run.
//   - A recorded result for today → Played=true, no run.
//   - A live daily run for today → that run.
//   - Otherwise a new run with today's seeded dice.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)
	now := d.srv.clock.Now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, newRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.runs[key]; ok {
		if run, err := d.srv.runs.Get(r.Context(), id); err == nil {
			writeJSON(w, http.StatusOK, newRes{Date: date, Run: snapshotOf(run)})
			return
		}
		delete(d.runs, key)
	}

	src := dice.NewSeededSource(daily.Seed(now, d.salt))
	run, err := d.srv.newRun(r.Context(), uid, date, src)
	if err != nil {
		log.Error().Err(err).Msg("start daily run")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.runs[key] = run.ID()
	writeJSON(w, http.StatusCreated, newRes{Date: date, Run: snapshotOf(run)})
}

// record stores the result of a finished daily run. Called with the run's
// mutex held.
func (d *dailyServer) record(run *store.Run, p events.RunEndedPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	res := daily.Result{
		UserID:       run.OwnerID,
		Date:         run.Daily,
		Score:        p.Cumulative,
		ModesCleared: p.ModesCleared,
		ElapsedMs:    d.srv.clock.Now().Sub(run.CreatedAt).Milliseconds(),
	}
	if err := d.store.InsertResult(ctx, res); err != nil {
		log.Warn().Err(err).Str("player", run.OwnerID).Str("date", run.Daily).Msg("insert daily result")
	}
}

const maxLeaderboardLimit = 100

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.clock.Now())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit = min(limit, maxLeaderboardLimit)
	rows, err := d.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

func snapshotOf(run *store.Run) *game.Snapshot {
	run.Lock()
	defer run.Unlock()
	snap := run.Session.Snapshot()
	return &snap
}
