// internal/httpserver/progress.go
//
// Run-boundary persistence and the progress/settings endpoints.
//   - watchProgress saves Progress on mode:completed and run:ended, and
//     records the daily result when a daily run ends.
//   - GET /progress, GET /settings, PUT /settings.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/store"
)

const persistTimeout = 5 * time.Second

// watchProgress subscribes run's bus to the persistence hooks. Handlers run
// inside Session verbs, so they already hold the run mutex.
func (s *Server) watchProgress(run *store.Run) {
	bus := run.Session.Bus()
	bus.Subscribe(events.ModeCompleted, func(e events.Event) {
		p, ok := e.Payload.(events.ModeCompletedPayload)
		if !ok {
			return
		}
		s.updateProgress(run.OwnerID, func(pr *store.Progress) {
			pr.ApplyModeCompleted(p, run.Session.UnlockedBlessings())
		})
	})
	bus.Subscribe(events.RunEnded, func(e events.Event) {
		p, ok := e.Payload.(events.RunEndedPayload)
		if !ok {
			return
		}
		s.updateProgress(run.OwnerID, func(pr *store.Progress) { pr.ApplyRunEnded(p) })
		if run.Daily != "" {
			s.daily.record(run, p)
		}
	})
}

func (s *Server) updateProgress(playerID string, apply func(*store.Progress)) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	pr, err := s.progress.LoadProgress(ctx, playerID)
	if err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("load progress")
		return
	}
	apply(&pr)
	if err := s.progress.SaveProgress(ctx, pr); err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("save progress")
	}
}

func (s *Server) mountProgress(r chi.Router) {
	r.Get("/progress", s.handleProgress)
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	pr, err := s.progress.LoadProgress(r.Context(), s.playerID(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	v, err := s.settings.Load(r.Context(), s.playerID(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handlePutSettings replaces the player's settings. Omitted fields keep
// their stored value.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	id := s.playerID(w, r)
	v, err := s.settings.Load(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	var body struct {
		SFXEnabled   *bool `json:"sfxEnabled"`
		MusicEnabled *bool `json:"musicEnabled"`
	}
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}
	if body.SFXEnabled != nil {
		v.SFXEnabled = *body.SFXEnabled
	}
	if body.MusicEnabled != nil {
		v.MusicEnabled = *body.MusicEnabled
	}
	if err := s.settings.Save(r.Context(), id, v); err != nil {
		log.Error().Err(err).Str("player", id).Msg("save settings")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
