package api_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rushmax/internal/api"
	"github.com/mcoot/rushmax/internal/api/middleware"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/factory"
	"github.com/mcoot/rushmax/internal/testutil"
)

// testServer wraps the router over a test app with mocked clock and randomness
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		InstanceID:      app.InstanceID,
		Registry:        app.Registry,
		LobbyController: app.LobbyController,
		GameController:  app.GameController,
		Questions:       app.Questions,
		Leaderboard:     app.Leaderboard,
		Judge:           app.Judge,
		Sweeper:         app.Reaper,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

type player struct {
	id    string
	token string
}

func register(t *testing.T, ts *testServer, nickname string) player {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"nickname": nickname}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Registration
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return player{id: resp.PlayerID, token: resp.SessionToken}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodGet, "/api/v1/health", nil, "")
	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rushmax_http_requests_total")
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.app.LoadTestQuestions(7)

	rr := ts.request(http.MethodGet, "/api/v1/status", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Status](t, rr)
	assert.Equal(t, ts.app.InstanceID, resp.ServerID)
	assert.Equal(t, 7, resp.QuestionsCount)
}

func TestRegisterAndGetMe(t *testing.T) {
	ts := newTestServer(t)

	p := register(t, ts, "  Alice ")
	assert.NotEmpty(t, p.id)
	assert.NotEmpty(t, p.token)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, p.token)
	require.Equal(t, http.StatusOK, rr.Code)

	me := decode[response.Player](t, rr)
	assert.Equal(t, p.id, me.PlayerID)
	assert.Equal(t, "Alice", me.Nickname)
	assert.NotContains(t, rr.Body.String(), p.token)
}

func TestRegisterWithoutBodyUsesDefaultNickname(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "anonymous", decode[response.Registration](t, rr).Nickname)
}

func TestAuthByPlayerIDHeader(t *testing.T) {
	ts := newTestServer(t)
	p := register(t, ts, "Bob")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/players/heartbeat", nil)
	req.Header.Set(middleware.PlayerIDHeader, p.id)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, p.id, decode[response.Player](t, rr).PlayerID)
}

func TestUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/queue", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "UNKNOWN_PLAYER", errorCode(t, rr))
}

func TestHeartbeatRefreshesActivity(t *testing.T) {
	ts := newTestServer(t)
	p := register(t, ts, "Carol")

	ts.app.MockClock.Advance(time.Minute)
	rr := ts.request(http.MethodPost, "/api/v1/players/heartbeat", nil, p.token)
	require.Equal(t, http.StatusOK, rr.Code)

	me := decode[response.Player](t, rr)
	assert.Equal(t, ts.app.MockClock.Now(), me.LastActiveAt)
	assert.True(t, me.LastActiveAt.After(me.CreatedAt))
}

func TestQueueMatchFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.app.LoadTestQuestions(20)

	alice := register(t, ts, "Alice")
	bob := register(t, ts, "Bob")
	carol := register(t, ts, "Carol")

	rr := ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "classic"}, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	status := decode[response.QueueStatus](t, rr)
	assert.Equal(t, "waiting", status.Status)
	assert.Equal(t, 1, status.Position)

	rr = ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "classic"}, bob.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[response.QueueStatus](t, rr).TotalWaiting)

	// The third join meets quorum and the caller gets the game directly
	rr = ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "classic"}, carol.token)
	require.Equal(t, http.StatusOK, rr.Code)
	matched := decode[response.QueueStatus](t, rr)
	require.Equal(t, "matched", matched.Status)
	require.NotNil(t, matched.Game)
	assert.Equal(t, []string{alice.id, bob.id, carol.id}, matched.Game.Members)
	assert.Equal(t, 10, matched.Game.QuestionCount)
	assert.Equal(t, "queue", matched.Game.Source)

	// Waiting players collect the same game by polling, exactly once
	rr = ts.request(http.MethodGet, "/api/v1/queue", nil, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, matched.Game.GameID, decode[response.QueueStatus](t, rr).Game.GameID)

	rr = ts.request(http.MethodGet, "/api/v1/queue", nil, alice.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_QUEUED", errorCode(t, rr))

	// Members share one question cursor
	path := "/api/v1/games/" + matched.Game.GameID + "/question"
	rr = ts.request(http.MethodGet, path, nil, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[response.Question](t, rr)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 10, first.Total)
	assert.NotEmpty(t, first.Prompt)
	assert.NotContains(t, rr.Body.String(), "answer")

	rr = ts.request(http.MethodGet, path, nil, bob.token)
	require.Equal(t, http.StatusOK, rr.Code)
	second := decode[response.Question](t, rr)
	assert.Equal(t, 1, second.Index)
	assert.NotEqual(t, first.QuestionID, second.QuestionID)

	outsider := register(t, ts, "Dave")
	rr = ts.request(http.MethodGet, path, nil, outsider.token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_IN_GAME", errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/games/missing/question", nil, alice.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQueueErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.app.LoadTestQuestions(20)
	p := register(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "blitz"}, p.token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_RULE", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/queue", nil, p.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "classic", decode[response.QueueStatus](t, rr).Rule)

	rr = ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "speed"}, p.token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "ALREADY_QUEUED", errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/queue", nil, p.token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/queue", nil, p.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQueueJoinReapsIdlePlayers(t *testing.T) {
	ts := newTestServer(t)
	ts.app.LoadTestQuestions(20)

	idle := register(t, ts, "Idle")
	rr := ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "classic"}, idle.token)
	require.Equal(t, http.StatusOK, rr.Code)

	ts.app.MockClock.Advance(11 * time.Minute)

	fresh := register(t, ts, "Fresh")
	rr = ts.request(http.MethodPost, "/api/v1/queue", map[string]string{"rule": "classic"}, fresh.token)
	require.Equal(t, http.StatusOK, rr.Code)
	status := decode[response.QueueStatus](t, rr)
	assert.Equal(t, 1, status.Position)
	assert.Equal(t, 1, status.TotalWaiting)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, idle.token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoomFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.app.LoadTestQuestions(20)

	host := register(t, ts, "Host")
	guest := register(t, ts, "Guest")

	body := map[string]any{"name": "friends", "password": "hunter2", "capacity": 2, "rule": "speed"}
	rr := ts.request(http.MethodPost, "/api/v1/rooms", body, host.token)
	require.Equal(t, http.StatusCreated, rr.Code)
	room := decode[response.Room](t, rr)
	assert.Equal(t, "friends", room.Name)
	assert.True(t, room.HasPassword)
	assert.Equal(t, 2, room.Capacity)
	assert.Equal(t, []string{host.id}, room.Members)
	assert.NotContains(t, rr.Body.String(), "hunter2")

	rr = ts.request(http.MethodGet, "/api/v1/rooms", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.RoomList](t, rr)
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, room.RoomID, list.Rooms[0].RoomID)

	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.RoomID, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	joinPath := "/api/v1/rooms/" + room.RoomID + "/join"
	rr = ts.request(http.MethodPost, joinPath, map[string]string{"password": "wrong"}, guest.token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "BAD_PASSWORD", errorCode(t, rr))

	rr = ts.request(http.MethodPost, joinPath, map[string]string{"password": "hunter2"}, guest.token)
	require.Equal(t, http.StatusOK, rr.Code)
	started := decode[response.RoomStatus](t, rr)
	require.Equal(t, "started", started.Status)
	require.NotNil(t, started.Game)
	assert.Equal(t, 5, started.Game.QuestionCount)
	assert.Equal(t, "room", started.Game.Source)
	assert.Equal(t, room.RoomID, started.Game.RoomID)

	// The room is gone; the host collects the game from its mailbox
	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.RoomID, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, joinPath, nil, host.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, started.Game.GameID, decode[response.RoomStatus](t, rr).Game.GameID)
}

func TestRoomLeaveDestroysEmptyRoom(t *testing.T) {
	ts := newTestServer(t)
	host := register(t, ts, "Host")

	rr := ts.request(http.MethodPost, "/api/v1/rooms", nil, host.token)
	require.Equal(t, http.StatusCreated, rr.Code)
	room := decode[response.Room](t, rr)
	assert.Equal(t, 3, room.Capacity)
	assert.Equal(t, "classic", room.Rule)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.RoomID+"/leave", nil, host.token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/rooms", nil, "")
	assert.Empty(t, decode[response.RoomList](t, rr).Rooms)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.RoomID+"/leave", nil, host.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "UNKNOWN_ROOM", errorCode(t, rr))
}

func TestRoomLeaveRequiresMembershipOfThatRoom(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "Alice")
	bob := register(t, ts, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]any{"name": "a"}, alice.token)
	require.Equal(t, http.StatusCreated, rr.Code)
	roomA := decode[response.Room](t, rr)
	rr = ts.request(http.MethodPost, "/api/v1/rooms", map[string]any{"name": "b"}, bob.token)
	require.Equal(t, http.StatusCreated, rr.Code)
	roomB := decode[response.Room](t, rr)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+roomB.RoomID+"/leave", nil, alice.token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_IN_ROOM", errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+roomA.RoomID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.Room](t, rr).Members, 1)
}

func TestScoreSubmitAndTop(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "Alice")
	bob := register(t, ts, "Bob")

	body := map[string]any{"mode": "rta", "correct_count": 8, "total_questions": 10, "time_seconds": 25}
	rr := ts.request(http.MethodPost, "/api/v1/scores", body, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	accepted := decode[response.ScoreAccepted](t, rr)
	assert.True(t, accepted.OK)
	assert.Equal(t, 1200, accepted.CanonicalScore)

	body = map[string]any{"mode": "rta", "correct_count": 10, "total_questions": 10, "time_seconds": 1}
	rr = ts.request(http.MethodPost, "/api/v1/scores", body, bob.token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/scores/top?mode=rta&n=5", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	top := decode[response.TopScores](t, rr)
	assert.Equal(t, "rta", top.Mode)
	require.Len(t, top.Scores, 2)
	assert.Equal(t, "Bob", top.Scores[0].Nickname)
	assert.Equal(t, 2000, top.Scores[0].CanonicalScore)
	assert.Equal(t, "Alice", top.Scores[1].Nickname)

	rr = ts.request(http.MethodGet, "/api/v1/scores/top", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "solo", decode[response.TopScores](t, rr).Mode)
	assert.Empty(t, decode[response.TopScores](t, rr).Scores)
}

func TestScoreSubmitRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	p := register(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/scores", map[string]any{"correct_count": -1}, p.token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/scores/top?n=zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/scores", map[string]any{"correct_count": 1}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ts.app.LoadTestQuestions(20)

	a := register(t, ts, "A")
	b := register(t, ts, "B")
	register(t, ts, "C")

	ts.request(http.MethodPost, "/api/v1/queue", nil, a.token)
	ts.request(http.MethodPost, "/api/v1/rooms", nil, b.token)

	rr := ts.request(http.MethodGet, "/api/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[response.Stats](t, rr)
	assert.Equal(t, 3, stats.LivePlayers)
	assert.Equal(t, 1, stats.QueuedPlayers)
	assert.Equal(t, 0, stats.ActiveGames)
	assert.Equal(t, 1, stats.ActiveRooms)
}

func TestSoloQuestions(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/solo/question", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "NO_QUESTIONS", errorCode(t, rr))

	ts.app.LoadTestQuestions(4)

	rr = ts.request(http.MethodGet, "/api/v1/solo/question", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	q := decode[response.SoloQuestion](t, rr)
	require.NotEmpty(t, q.Answers)
	assert.Equal(t, q.Answers[0], q.Answer)

	rr = ts.request(http.MethodGet, "/api/v1/solo/questions?n=50", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.SoloQuestionList](t, rr).Questions, 4)

	rr = ts.request(http.MethodGet, "/api/v1/solo/questions?n=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJudgeAsk(t *testing.T) {
	ts := newTestServer(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{
				"content": `{"answer":"Paris","reasoning":"capital of France","valid":true}`,
			}}},
		})
	}))
	defer upstream.Close()

	body := map[string]string{"question": "Capital of France?", "target_answer": "Paris", "lm_server": upstream.URL}
	rr := ts.request(http.MethodPost, "/api/v1/judge/ask", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	verdict := decode[response.Verdict](t, rr)
	assert.True(t, verdict.Available)
	assert.Equal(t, "Paris", verdict.AIResponse)
	require.NotNil(t, verdict.Valid)
	assert.True(t, *verdict.Valid)

	rr = ts.request(http.MethodPost, "/api/v1/judge/ask", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJudgeUnavailable(t *testing.T) {
	ts := newTestServer(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	body := map[string]string{"question": "Capital of France?", "lm_server": upstream.URL}
	rr := ts.request(http.MethodPost, "/api/v1/judge/ask", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	verdict := decode[response.Verdict](t, rr)
	assert.False(t, verdict.Available)
	assert.NotEmpty(t, verdict.AIResponse)
}

func TestJudgeProbe(t *testing.T) {
	ts := newTestServer(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	rr := ts.request(http.MethodPost, "/api/v1/judge/probe", map[string]string{"lm_server": upstream.URL}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	probe := decode[response.Probe](t, rr)
	assert.True(t, probe.OK)

	rr = ts.request(http.MethodPost, "/api/v1/judge/probe", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
