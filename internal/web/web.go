// Package web serves a browser viewer for the shared simulation: a static
// page plus a websocket that streams JSON frames and accepts pointer input.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/loop/server"
)

//go:embed index.html
var indexPage string

// DefaultMaxClients bounds concurrent websocket viewers.
const DefaultMaxClients = 100

// Options configures the handler.
type Options struct {
	SSHHost    string // shown on the page as an alternative way in
	SSHPort    string
	MaxClients int
}

// Handler serves the page and the /ws stream.
type Handler struct {
	srv      server.SimServer
	logger   *log.Logger
	opts     Options
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	page     string
	active   atomic.Int32
}

// NewHandler creates a handler streaming from srv.
func NewHandler(srv server.SimServer, logger *log.Logger, opts Options) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxClients <= 0 {
		opts.MaxClients = DefaultMaxClients
	}
	h := &Handler{
		srv:    srv,
		logger: logger,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		mux: http.NewServeMux(),
		page: strings.NewReplacer(
			"{{.SSHHost}}", opts.SSHHost,
			"{{.SSHPort}}", opts.SSHPort,
		).Replace(indexPage),
	}
	h.mux.HandleFunc("GET /{$}", h.serveIndex)
	h.mux.HandleFunc("GET /ws", h.serveWS)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Active returns the number of connected websocket viewers.
func (h *Handler) Active() int {
	return int(h.active.Load())
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	if int(h.active.Add(1)) > h.opts.MaxClients {
		h.active.Add(-1)
		h.logger.Warn("max web clients reached", "remote", r.RemoteAddr)
		http.Error(w, "too many viewers", http.StatusServiceUnavailable)
		return
	}
	defer h.active.Add(-1)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "web"
	}
	handle := h.srv.RegisterClient(name)
	h.logger.Info("web viewer connected", "id", handle.ID, "user", handle.Username, "remote", r.RemoteAddr)

	var opts atomic.Pointer[Opts]
	opts.Store(&Opts{})

	ctx, cancel := context.WithCancel(r.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := h.writePump(ctx, conn, handle, &opts); err != nil {
			h.logger.Debug("web write stopped", "id", handle.ID, "err", err)
		}
	}()

	if err := h.readPump(conn, handle.ID, &opts); err != nil && !isClose(err) {
		h.logger.Debug("web read stopped", "id", handle.ID, "err", err)
	}
	cancel()
	<-done
	conn.Close()
	h.srv.UnregisterClient(handle.ID)
	h.logger.Info("web viewer disconnected", "id", handle.ID)
}

// readPump applies pointer messages until the connection fails. Malformed
// messages are skipped.
func (h *Handler) readPump(conn *websocket.Conn, clientID int, opts *atomic.Pointer[Opts]) error {
	conn.SetReadLimit(config.WebMaxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var p Pointer
		if err := json.Unmarshal(data, &p); err != nil {
			h.logger.Debug("bad pointer message", "id", clientID, "err", err)
			continue
		}
		if p.Opts != nil {
			o := *p.Opts
			opts.Store(&o)
		}
		h.srv.SendInput(clientID, p.WellInput())
	}
}

// writePump streams frames at the web frame rate. It stops on context
// cancellation, a write failure, or server shutdown.
func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, handle *server.ClientHandle, opts *atomic.Pointer[Opts]) error {
	defer conn.Close()

	ticker := time.NewTicker(config.WebTargetFrameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-handle.EventsCh:
			if !ok || ev.Type == server.EventServerShutdown {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(config.WebWriteTimeout))
				return nil
			}
		case <-ticker.C:
			frame := NewFrame(h.srv.GetSnapshot(), handle.ID, *opts.Load())
			if err := conn.SetWriteDeadline(time.Now().Add(config.WebWriteTimeout)); err != nil {
				return err
			}
			if err := conn.WriteJSON(frame); err != nil {
				return err
			}
		}
	}
}

func isClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
