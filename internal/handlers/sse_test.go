package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingoreloaded/internal/events"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/timer"
)

// startStream runs StreamSession in the background and waits until it has
// subscribed to the bus. The returned channel closes when the stream ends.
func startStream(t *testing.T, env *testEnv, ctx context.Context, id string) (*httptest.ResponseRecorder, <-chan struct{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/events", nil).WithContext(ctx)
	req = withURLParams(req, map[string]string{"id": id})
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.handler.StreamSession(w, req)
	}()

	require.Eventually(t, func() bool { return env.bus.Subscribers(id) == 1 }, time.Second, 5*time.Millisecond)
	return w, done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end")
	}
}

func TestStreamSession_NotFound(t *testing.T) {
	env := newTestEnv(t, Options{})

	w := env.do(http.MethodGet, "/sessions/missing/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Session not found")
}

func TestStreamSession_RejectsUnknownSignals(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/sessions/world", nil).Code)

	w := env.do(http.MethodGet, "/sessions/world/events?datastar=%7B%22evil%22%3A1%7D", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamSession_InitialStateAndDestroy(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/sessions/world", nil).Code)

	w, done := startStream(t, env, context.Background(), "world")

	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/sessions/world", nil).Code)
	waitDone(t, done)

	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"phase":"lobby"`)
	assert.Contains(t, body, `"phase":"destroyed"`)
	assert.Equal(t, 0, env.bus.Subscribers("world"))
}

func TestStreamSession_PatchesEvents(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/sessions/world", nil).Code)

	w, done := startStream(t, env, context.Background(), "world")

	env.bus.Publish(events.Event{Type: events.TypeTimerTick, Session: "world", Data: timer.Tick{Value: 75, Level: timer.LevelNormal}})
	env.bus.Publish(events.Event{Type: events.TypeParticipantsUpdate, Session: "world"})
	env.bus.Publish(events.Event{Type: events.TypeSessionDestroyed, Session: "world"})
	waitDone(t, done)

	body := w.Body.String()
	assert.Contains(t, body, `"time":75`)
	assert.Contains(t, body, `"timeText":"`+timer.FormatSeconds(75)+`"`)
	assert.Contains(t, body, `"timeLevel":"`+timer.LevelNormal.String()+`"`)
	assert.Contains(t, body, `"phase":"destroyed"`)
}

func TestStreamSession_ContextCancel(t *testing.T) {
	env := newTestEnv(t, Options{Keepalive: 10 * time.Millisecond})
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/sessions/world", nil).Code)

	ctx, cancel := context.WithCancel(context.Background())
	w, done := startStream(t, env, ctx, "world")

	time.Sleep(50 * time.Millisecond)
	cancel()
	waitDone(t, done)

	assert.Contains(t, w.Body.String(), "keepalive")
	assert.Equal(t, 0, env.bus.Subscribers("world"))
}

func TestEventSignals(t *testing.T) {
	signals, ok := eventSignals(events.Event{Type: events.TypeStartingCountdown, Data: 3})
	require.True(t, ok)
	assert.Equal(t, 3, signals["starting"])

	signals, ok = eventSignals(events.Event{Type: events.TypeDeathmatchCount, Data: 2})
	require.True(t, ok)
	assert.Equal(t, 2, signals["deathmatchCountdown"])

	_, ok = eventSignals(events.Event{Type: events.TypeTaskCompleted})
	assert.False(t, ok, "completions need a fresh snapshot")
}

func TestViewSignals(t *testing.T) {
	v := game.View{Phase: game.PhaseActive, Time: 30, TimeText: "00:30", Winner: "red"}
	signals := viewSignals(v)
	assert.Equal(t, game.PhaseActive, signals["phase"])
	assert.Equal(t, 30, signals["time"])
	assert.Equal(t, "red", signals["winner"])
	for name := range signals {
		assert.True(t, allowedDatastarSignals[name], "signal %s must be accepted back from clients", name)
	}
}
