// internal/httpserver/runs.go
//
// Run endpoints. Every verb maps onto one Session call (through a command
// where the action is undoable) and answers with the updated snapshot.
//
//   - POST /runs                         → start a run for the current player
//   - GET  /runs/{id}                    → snapshot (settles timer expiry)
//   - POST /runs/{id}/roll|lock|finish|score
//   - POST /runs/{id}/pause|resume|blessing|restart|undo
//   - POST /runs/{id}/sanctuary/bank|sanctuary/restore|mercy|sixth-die
//
// A verb whose precondition fails answers 409 with the unchanged snapshot.
// Runs belong to the player who created them; other players get 404.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cursed-dice/internal/blessing"
	"github.com/robalobadob/cursed-dice/internal/command"
	"github.com/robalobadob/cursed-dice/internal/dice"
	"github.com/robalobadob/cursed-dice/internal/game"
	"github.com/robalobadob/cursed-dice/internal/scoring"
	"github.com/robalobadob/cursed-dice/internal/store"
)

var errBadBody = errors.New("bad_json")

// actionRes is returned by every run verb.
type actionRes struct {
	OK     bool          `json:"ok"`
	Action string        `json:"action"`
	Points *int          `json:"points,omitempty"`
	Error  string        `json:"error,omitempty"`
	Run    game.Snapshot `json:"run"`
}

type lockReq struct {
	Index *int `json:"index"`
}

type scoreReq struct {
	Category scoring.CategoryID `json:"category"`
}

type blessingReq struct {
	ID blessing.ID `json:"id"`
}

func (s *Server) mountRuns(r chi.Router) {
	r.Post("/runs", s.handleNewRun)
	r.Get("/runs/{id}", s.withRun(s.handleGetRun))

	r.Post("/runs/{id}/roll", s.verb("roll", func(run *store.Run, _ *http.Request) (bool, error) {
		return run.History.Run(command.RollCommand{Target: run.Session}), nil
	}))
	r.Post("/runs/{id}/lock", s.verb("lock", func(run *store.Run, r *http.Request) (bool, error) {
		var body lockReq
		if !decodeBody(r, &body) || body.Index == nil {
			return false, errBadBody
		}
		return run.History.Run(command.ToggleLockCommand{Target: run.Session, Index: *body.Index}), nil
	}))
	r.Post("/runs/{id}/finish", s.verb("finish", func(run *store.Run, _ *http.Request) (bool, error) {
		return clearOn(run, run.Session.FinishRolling()), nil
	}))
	r.Post("/runs/{id}/score", s.withRun(s.handleScore))
	r.Post("/runs/{id}/pause", s.verb("pause", func(run *store.Run, _ *http.Request) (bool, error) {
		return run.Session.Pause(), nil
	}))
	r.Post("/runs/{id}/resume", s.verb("resume", func(run *store.Run, _ *http.Request) (bool, error) {
		return run.Session.Resume(), nil
	}))
	r.Post("/runs/{id}/blessing", s.withRun(s.handleChooseBlessing))
	r.Post("/runs/{id}/restart", s.verb("restart", func(run *store.Run, _ *http.Request) (bool, error) {
		// the daily run is a single attempt
		if run.Daily != "" {
			return false, nil
		}
		return clearOn(run, run.Session.Restart() && run.Session.Start()), nil
	}))
	r.Post("/runs/{id}/undo", s.verb("undo", func(run *store.Run, _ *http.Request) (bool, error) {
		return run.History.Undo(), nil
	}))

	r.Post("/runs/{id}/sanctuary/bank", s.verb("sanctuary/bank", func(run *store.Run, _ *http.Request) (bool, error) {
		return run.Session.BankDice(), nil
	}))
	r.Post("/runs/{id}/sanctuary/restore", s.verb("sanctuary/restore", func(run *store.Run, _ *http.Request) (bool, error) {
		return clearOn(run, run.Session.RestoreDice()), nil
	}))
	r.Post("/runs/{id}/mercy", s.verb("mercy", func(run *store.Run, _ *http.Request) (bool, error) {
		return run.Session.UseMercy(), nil
	}))
	r.Post("/runs/{id}/sixth-die", s.verb("sixth-die", func(run *store.Run, _ *http.Request) (bool, error) {
		return clearOn(run, run.Session.ActivateSixthDie()), nil
	}))
}

// clearOn drops the undo history when ok: the dice moved underneath it.
func clearOn(run *store.Run, ok bool) bool {
	if ok {
		run.History.Clear()
	}
	return ok
}

// newRun builds, wires and starts a run for owner. dailyDate is "" for a
// normal run.
func (s *Server) newRun(ctx context.Context, owner, dailyDate string, src dice.Source) (*store.Run, error) {
	prog, err := s.progress.LoadProgress(ctx, owner)
	if err != nil {
		log.Warn().Err(err).Str("player", owner).Msg("load progress; starting with nothing unlocked")
	}
	logger := log.With().Str("player", owner).Logger()
	sess := game.NewSession(game.Options{
		Modes:    s.modes,
		Source:   src,
		Unlocked: prog.Unlocked,
		Clock:    s.clock,
		Logger:   &logger,
	})
	run := &store.Run{
		Session:   sess,
		History:   command.NewHistory(command.DefaultHistoryLimit),
		OwnerID:   owner,
		Daily:     dailyDate,
		CreatedAt: s.clock.Now(),
	}
	s.watchProgress(run)
	sess.Start()
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, err
	}
	log.Info().Str("run", run.ID()).Str("player", owner).Str("daily", dailyDate).Msg("run started")
	return run, nil
}

func (s *Server) handleNewRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.newRun(r.Context(), s.playerID(w, r), "", s.source())
	if err != nil {
		log.Error().Err(err).Msg("save run")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, snapshotOf(run))
}

// runHandler runs with the run's mutex held.
type runHandler func(w http.ResponseWriter, r *http.Request, run *store.Run)

// lookupRun resolves {id} for the current player.
func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	run, err := s.runs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || run.OwnerID != s.playerID(w, r) {
		writeError(w, http.StatusNotFound, "run_not_found")
		return nil, false
	}
	return run, true
}

func (s *Server) withRun(h runHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, ok := s.lookupRun(w, r)
		if !ok {
			return
		}
		run.Lock()
		defer run.Unlock()
		h(w, r, run)
	}
}

// verb adapts a boolean Session action into a handler.
func (s *Server) verb(name string, fn func(run *store.Run, r *http.Request) (bool, error)) http.HandlerFunc {
	return s.withRun(func(w http.ResponseWriter, r *http.Request, run *store.Run) {
		ok, err := fn(run, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respond(w, run, name, ok, nil)
	})
}

func (s *Server) respond(w http.ResponseWriter, run *store.Run, name string, ok bool, points *int) {
	res := actionRes{OK: ok, Action: name, Points: points, Run: run.Session.Snapshot()}
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
		res.Error = "action_not_allowed"
	}
	writeJSON(w, status, res)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request, run *store.Run) {
	run.Session.Tick(s.clock.Now())
	writeJSON(w, http.StatusOK, run.Session.Snapshot())
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request, run *store.Run) {
	var body scoreReq
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}
	if _, known := scoring.Lookup(body.Category); !known {
		writeError(w, http.StatusBadRequest, "unknown_category")
		return
	}
	cmd := &command.ScoreCommand{Target: run.Session, Category: body.Category}
	if !run.History.Run(cmd) {
		s.respond(w, run, "score", false, nil)
		return
	}
	points := cmd.Points
	s.respond(w, run, "score", true, &points)
}

func (s *Server) handleChooseBlessing(w http.ResponseWriter, r *http.Request, run *store.Run) {
	var body blessingReq
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}
	err := run.Session.ChooseBlessing(body.ID)
	switch {
	case err == nil:
		run.History.Clear()
		s.respond(w, run, "blessing", true, nil)
	case errors.Is(err, game.ErrNotChoosing):
		s.respond(w, run, "blessing", false, nil)
	case errors.Is(err, game.ErrBlessingLocked):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, blessing.ErrUnknownBlessing):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("run", run.ID()).Msg("choose blessing")
		writeError(w, http.StatusInternalServerError, "blessing_failed")
	}
}
