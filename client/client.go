// Package client is a Go subscriber for the dashboard's push channel.
//
// The hub does not replay events published before a subscriber
// registered, so a subscriber must pull the full question list before it
// can trust pushes, and must pull it again after every connection loss.
// The merge rules in State make that resynchronization safe even when a
// push races the pull.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnState is the connection lifecycle state.
type ConnState int32

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// DefaultRetryDelay is the fixed pause between reconnect attempts.
const DefaultRetryDelay = 3 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is the REST endpoint root, e.g. "http://localhost:8000".
	BaseURL string
	// WSURL is the push endpoint, e.g. "ws://localhost:8000/ws".
	WSURL string
	// RetryDelay between reconnect attempts; DefaultRetryDelay if zero.
	// Retries never stop on their own.
	RetryDelay time.Duration
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	Logger     *slog.Logger
	// OnEvent, if set, runs after each event is merged into the state.
	OnEvent func(Event)
}

// Client keeps a State convergent with the server across connection
// drops: connect, baseline pull, then incremental merging until the
// connection dies, then repeat after a fixed delay.
type Client struct {
	cfg   Config
	state *State

	mu        sync.Mutex
	connState ConnState
}

func New(cfg Config) *Client {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{cfg: cfg, state: NewState()}
}

// State returns the client's local view.
func (c *Client) State() *State { return c.state }

// ConnState returns the current lifecycle state.
func (c *Client) ConnState() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connState
}

func (c *Client) setConnState(s ConnState) {
	c.mu.Lock()
	c.connState = s
	c.mu.Unlock()
}

// Run connects and keeps the state synchronized until ctx is canceled.
// Every exit from Connected goes through Disconnected with exactly one
// scheduled retry; canceling ctx stops a pending retry timer immediately.
func (c *Client) Run(ctx context.Context) error {
	for {
		c.setConnState(Connecting)
		if err := c.session(ctx); err != nil {
			if ctx.Err() != nil {
				c.setConnState(Disconnected)
				return ctx.Err()
			}
			c.cfg.Logger.Info("connection lost, retrying", "err", err, "delay", c.cfg.RetryDelay)
		}
		c.setConnState(Disconnected)

		timer := time.NewTimer(c.cfg.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// session runs one connection lifetime: dial, baseline pull, merge pushes
// until the connection fails.
func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.cfg.Dialer.DialContext(ctx, c.cfg.WSURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// Register first, pull second: anything published between the two is
	// both pushed to us and contained in the pull, and the idempotent
	// merge absorbs the overlap.
	if err := c.baselinePull(ctx); err != nil {
		return fmt.Errorf("baseline pull: %w", err)
	}
	c.setConnState(Connected)
	c.cfg.Logger.Info("connected", "url", c.cfg.WSURL)

	// Unblock ReadMessage when ctx is canceled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			c.cfg.Logger.Warn("bad push message", "err", err)
			continue
		}
		if err := c.state.Apply(evt); err != nil {
			c.cfg.Logger.Warn("event not merged", "type", evt.Type, "err", err)
			continue
		}
		if c.cfg.OnEvent != nil {
			c.cfg.OnEvent(evt)
		}
	}
}

// baselinePull fetches the full question list and resets the local view.
func (c *Client) baselinePull(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/questions", nil)
	if err != nil {
		return err
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	var questions []Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return err
	}
	c.state.SetBaseline(questions)
	return nil
}

// FetchAnswers pulls the answer list for one question into the state.
func (c *Client) FetchAnswers(ctx context.Context, questionID int64) ([]Answer, error) {
	url := fmt.Sprintf("%s/api/questions/%d/answers", c.cfg.BaseURL, questionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var answers []Answer
	if err := json.NewDecoder(resp.Body).Decode(&answers); err != nil {
		return nil, err
	}
	c.state.SetAnswers(questionID, answers)
	return answers, nil
}
