package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// testServer is a minimal server side: a question list for the baseline
// pull and a websocket endpoint the test pushes through.
type testServer struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu        sync.Mutex
	questions []Question
	conns     []*websocket.Conn

	pulls int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/questions", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&ts.pulls, 1)
		ts.mu.Lock()
		defer ts.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ts.questions)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := ts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.conns = append(ts.conns, conn)
		ts.mu.Unlock()
	})
	ts.srv = httptest.NewServer(mux)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) setQuestions(qs []Question) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.questions = qs
}

func (ts *testServer) connCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.conns)
}

// push writes an event on the most recent connection.
func (ts *testServer) push(t *testing.T, typ string, entity any) {
	t.Helper()
	data, err := json.Marshal(entity)
	require.NoError(t, err)
	msg, err := json.Marshal(Event{Type: typ, Data: data})
	require.NoError(t, err)

	ts.mu.Lock()
	conn := ts.conns[len(ts.conns)-1]
	ts.mu.Unlock()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))
}

// dropAll closes every live connection from the server side.
func (ts *testServer) dropAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, c := range ts.conns {
		_ = c.Close()
	}
}

func (ts *testServer) client(onEvent func(Event)) *Client {
	return New(Config{
		BaseURL:    ts.srv.URL,
		WSURL:      "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws",
		RetryDelay: 20 * time.Millisecond,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnEvent:    onEvent,
	})
}

func TestClient_Run(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("should pull the baseline then merge pushes", func(t *testing.T) {
		req := require.New(t)
		ts := newTestServer(t)
		ts.setQuestions([]Question{{QuestionID: 1, Message: "existing", Status: "Pending", Timestamp: now}})

		var events int64
		c := ts.client(func(Event) { atomic.AddInt64(&events, 1) })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx) }()

		req.Eventually(func() bool { return c.ConnState() == Connected }, time.Second, 5*time.Millisecond)
		req.Len(c.State().Questions(), 1)

		ts.push(t, EventNewQuestion, Question{QuestionID: 2, Message: "pushed", Status: "Pending", Timestamp: now})
		req.Eventually(func() bool { return len(c.State().Questions()) == 2 }, time.Second, 5*time.Millisecond)
		req.EqualValues(1, atomic.LoadInt64(&events))

		cancel()
		select {
		case err := <-done:
			req.ErrorIs(err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop on cancel")
		}
		req.Equal(Disconnected, c.ConnState())
	})

	t.Run("should reconnect and re-pull after a connection drop", func(t *testing.T) {
		req := require.New(t)
		ts := newTestServer(t)
		ts.setQuestions([]Question{{QuestionID: 1, Status: "Pending", Timestamp: now}})

		c := ts.client(nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = c.Run(ctx) }()

		req.Eventually(func() bool { return c.ConnState() == Connected }, time.Second, 5*time.Millisecond)
		req.EqualValues(1, atomic.LoadInt64(&ts.pulls))

		// The board moved on while we were away; the re-pull must win.
		ts.setQuestions([]Question{
			{QuestionID: 1, Status: "Answered", Timestamp: now},
			{QuestionID: 2, Status: "Pending", Timestamp: now},
		})
		ts.dropAll()

		req.Eventually(func() bool {
			return ts.connCount() == 2 && c.ConnState() == Connected
		}, 2*time.Second, 10*time.Millisecond)
		req.EqualValues(2, atomic.LoadInt64(&ts.pulls))

		list := c.State().Questions()
		req.Len(list, 2)
		req.Equal("Answered", list[0].Status)
	})

	t.Run("should keep retrying while the server is down", func(t *testing.T) {
		req := require.New(t)
		c := New(Config{
			BaseURL:    "http://127.0.0.1:1",
			WSURL:      "ws://127.0.0.1:1/ws",
			RetryDelay: 10 * time.Millisecond,
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx) }()

		// Let a few attempts fail, then stop.
		time.Sleep(100 * time.Millisecond)
		req.NotEqual(Connected, c.ConnState())
		cancel()

		select {
		case err := <-done:
			req.ErrorIs(err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop on cancel")
		}
	})
}

func TestClient_FetchAnswers(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC().Truncate(time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/questions/1/answers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Answer{{AnswerID: 3, QuestionID: 1, Username: "bob", Message: "done", Timestamp: now}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	answers, err := c.FetchAnswers(context.Background(), 1)
	req.NoError(err)
	req.Len(answers, 1)
	req.Equal(answers, c.State().Answers(1))

	_, err = c.FetchAnswers(context.Background(), 2)
	req.Error(err)
}
