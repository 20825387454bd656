package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	datastar "github.com/starfederation/datastar-go/datastar"

	"bingoreloaded/internal/events"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/timer"
)

// viewSignals are the datastar signals describing a whole session.
func viewSignals(v game.View) map[string]interface{} {
	return map[string]interface{}{
		"phase":        v.Phase,
		"time":         v.Time,
		"timeText":     v.TimeText,
		"elapsed":      v.Elapsed,
		"starting":     v.Starting,
		"participants": v.Participants,
		"teams":        v.Teams,
		"deathmatch":   v.Deathmatch,
		"winner":       v.Winner,
	}
}

// eventSignals returns the signals an event changes on its own, without a
// fresh snapshot. The second result is false for events that need one.
func eventSignals(event events.Event) (map[string]interface{}, bool) {
	switch event.Type {
	case events.TypeTimerTick:
		tick, _ := event.Data.(timer.Tick)
		return map[string]interface{}{
			"time":      tick.Value,
			"timeText":  timer.FormatSeconds(tick.Value),
			"timeLevel": tick.Level.String(),
		}, true
	case events.TypeStartingCountdown:
		return map[string]interface{}{"starting": event.Data}, true
	case events.TypeDeathmatchCount:
		return map[string]interface{}{"deathmatchCountdown": event.Data}, true
	}
	return nil, false
}

// outcomeSignals names the signal that carries the payload of events sent
// along with a fresh snapshot.
var outcomeSignals = map[string]string{
	events.TypeTaskCompleted: "lastCompletion",
	events.TypeBingo:         "bingo",
	events.TypeGameEnded:     "result",
}

// StreamSession streams session outcomes as datastar signal patches
func (h *Handler) StreamSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := h.snapshot(r.Context(), id)
	if err != nil {
		log.Printf("📡 SSE requested for non-existent session: %s", id)
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	sse := datastar.NewSSE(w, r)

	sub := h.eventBus.Subscribe(id)
	defer h.eventBus.Unsubscribe(id, sub)
	log.Printf("📡 SSE connection established for session %s", id)

	if err := sse.MarshalAndPatchSignals(viewSignals(view)); err != nil {
		log.Printf("❌ Failed to send initial session state: %v", err)
		return
	}

	heartbeat := time.NewTicker(h.keepalive)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("📡 SSE context cancelled for session %s", id)
			return

		case <-heartbeat.C:
			if err := sse.Send("keepalive", []string{fmt.Sprintf(`{"time":"%s"}`, time.Now().Format(time.RFC3339))}); err != nil {
				log.Printf("📡 Keepalive failed for session %s: %v - closing connection", id, err)
				return
			}

		case event, open := <-sub:
			if !open {
				return
			}
			if event.Type == events.TypeSessionDestroyed {
				_ = sse.MarshalAndPatchSignals(map[string]interface{}{"phase": "destroyed"})
				log.Printf("📡 Session %s destroyed, closing SSE", id)
				return
			}

			signals, ok := eventSignals(event)
			if !ok {
				view, err := h.snapshot(r.Context(), id)
				if err != nil {
					return
				}
				signals = viewSignals(view)
				if name, ok := outcomeSignals[event.Type]; ok {
					signals[name] = event.Data
				}
			}
			if err := sse.MarshalAndPatchSignals(signals); err != nil {
				log.Printf("❌ Failed to patch signals for session %s: %v", id, err)
				return
			}
		}
	}
}
