// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	clientBuffer = 16
	writeWait    = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // lab tool, any origin
	},
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// WebFeed serves the latest record at /api/status and streams every
// record to websocket clients at /ws. Slow clients are dropped rather
// than allowed to hold up the transmit loop.
type WebFeed struct {
	log zerolog.Logger

	mu      sync.RWMutex
	last    []byte
	clients map[*wsClient]struct{}

	srv *http.Server
}

// NewWebFeed returns a feed that is not yet listening.
func NewWebFeed(log zerolog.Logger) *WebFeed {
	return &WebFeed{
		log:     log,
		clients: make(map[*wsClient]struct{}),
	}
}

// Handler returns the feed's HTTP routes.
func (f *WebFeed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", f.handleStatus)
	mux.HandleFunc("/ws", f.handleWS)
	return mux
}

// Start listens on addr and serves in the background.
func (f *WebFeed) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web feed listen %s: %w", addr, err)
	}
	f.srv = &http.Server{Handler: f.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := f.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.log.Error().Err(err).Msg("web feed stopped")
		}
	}()
	f.log.Info().Str("addr", ln.Addr().String()).Msg("web feed listening")
	return nil
}

func (f *WebFeed) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	last := f.last
	f.mu.RUnlock()

	if last == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(last)
}

func (f *WebFeed) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientBuffer)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	go f.writeLoop(c)

	// Drain reads so close frames are noticed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.log.Debug().Err(err).Msg("websocket client gone")
			}
			break
		}
	}
	f.drop(c)
}

func (f *WebFeed) writeLoop(c *wsClient) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			f.drop(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// drop unregisters c once; closing send ends its writeLoop.
func (f *WebFeed) drop(c *wsClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

func (f *WebFeed) Publish(rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("web feed marshal: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = payload
	for c := range f.clients {
		select {
		case c.send <- payload:
		default:
			delete(f.clients, c)
			close(c.send)
			f.log.Warn().Msg("websocket client too slow, dropped")
		}
	}
	return nil
}

// clientCount returns the number of connected websocket clients.
func (f *WebFeed) clientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *WebFeed) Close() error {
	f.mu.Lock()
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
	}
	f.mu.Unlock()

	if f.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return f.srv.Shutdown(ctx)
}
