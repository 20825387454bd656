package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bingoreloaded/internal/command"
	"bingoreloaded/internal/store"
)

// CreateSession attaches a session to the world in the URL
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := h.commands.Create(r.Context(), id)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	log.Printf("🎲 Session %s created over HTTP", id)
	writeJSON(w, http.StatusCreated, res)
}

// DestroySession discards the session of a world
func (h *Handler) DestroySession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.commands.Destroy(r.Context(), id))
}

// GetSession returns a snapshot of the session as JSON
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.snapshot(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to read session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// StartGame starts a game in the session
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.commands.Start(r.Context(), id))
}

// EndGame forcefully ends the running game
func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.commands.End(r.Context(), id))
}

// UpdateSetting changes one lobby setting. The form value holds the
// whitespace separated arguments, e.g. "night_vision false".
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	args := strings.Fields(r.FormValue("value"))
	writeResult(w, h.commands.SetSetting(r.Context(), id, key, args))
}

type joinResponse struct {
	command.Result
	Participant string `json:"participant"`
}

// JoinSession adds a participant. Joins without an id get a new one.
func (h *Handler) JoinSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	participant := strings.TrimSpace(r.FormValue("id"))
	if participant == "" {
		if name == "" {
			http.Error(w, "Participant name is required", http.StatusBadRequest)
			return
		}
		participant = uuid.NewString()
	}

	res := h.commands.Join(r.Context(), id, participant, name)
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, joinResponse{Result: res, Participant: participant})
}

// LeaveSession removes a participant
func (h *Handler) LeaveSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.commands.Leave(r.Context(), id, chi.URLParam(r, "pid")))
}

// SetTeam moves a participant to a team
func (h *Handler) SetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	participant := r.FormValue("participant")
	teamID := r.FormValue("team")
	if participant == "" || teamID == "" {
		http.Error(w, "participant and team are required", http.StatusBadRequest)
		return
	}
	writeResult(w, h.commands.SetTeam(r.Context(), id, participant, teamID))
}

// SavePreset stores the lobby settings under the preset name
func (h *Handler) SavePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.commands.SavePreset(r.Context(), id, chi.URLParam(r, "name")))
}

// LoadPreset replaces the lobby settings with a saved preset
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.commands.LoadPreset(r.Context(), id, chi.URLParam(r, "name")))
}

// Trigger reports a task a participant achieved in the world
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	participant := r.FormValue("participant")
	taskID := r.FormValue("task")
	if participant == "" || taskID == "" {
		http.Error(w, "participant and task are required", http.StatusBadRequest)
		return
	}
	writeResult(w, h.commands.Trigger(r.Context(), id, participant, taskID))
}

// CompleteSlot completes a card slot by index
func (h *Handler) CompleteSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	slot, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid slot index", http.StatusBadRequest)
		return
	}
	participant := r.FormValue("participant")
	if participant == "" {
		http.Error(w, "participant is required", http.StatusBadRequest)
		return
	}
	writeResult(w, h.commands.CompleteSlot(r.Context(), id, participant, slot))
}

// PlayerStats returns the lifetime statistics of a participant
func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		http.Error(w, "Statistics are not available", http.StatusServiceUnavailable)
		return
	}
	stats, err := h.stats.Stats(r.Context(), chi.URLParam(r, "participant"))
	if err != nil {
		log.Printf("❌ Failed to read stats: %v", err)
		http.Error(w, "Failed to read statistics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
