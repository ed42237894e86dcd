package net

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"PerfectCircle/internal/config"
	"PerfectCircle/internal/state"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

//go:embed static
var staticFiles embed.FS

// Server hosts the browser version of the game. Every websocket connection
// gets its own tracker, so players never see each other's drawings.
type Server struct {
	cfg      config.Config
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

func NewServer(cfg config.Config) *Server {
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		mux: http.NewServeMux(),
	}
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.mux.Handle("/", http.FileServer(http.FS(static)))
	s.mux.HandleFunc("/ws", s.handleWS)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WEB] Shutdown: %v", err)
		}
	}()

	log.Printf("[WEB] Listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) canvasConfig() CanvasConfig {
	return CanvasConfig{
		Width:        s.cfg.CanvasWidth,
		Height:       s.cfg.CanvasHeight,
		CenterRadius: s.cfg.CenterRadius,
		StrokeWidth:  s.cfg.StrokeWidth,
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WEB] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	addr := conn.RemoteAddr().String()
	log.Printf("[WEB] Player connected from %s", addr)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	send := func(t string, payload any) error {
		b, err := Encode(t, payload)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, b)
	}

	// Only this goroutine writes data frames: OnChange runs inside Dispatch.
	var writeErr error
	tracker := s.cfg.NewTracker()
	tracker.OnChange = func(snap state.Snapshot) {
		if writeErr != nil {
			return
		}
		writeErr = send(MsgState, snap)
	}

	if err := send(MsgConfig, s.canvasConfig()); err != nil {
		log.Printf("[WEB] Send config to %s: %v", addr, err)
		return
	}
	if err := send(MsgState, tracker.Snapshot()); err != nil {
		log.Printf("[WEB] Send state to %s: %v", addr, err)
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WEB] Read from %s: %v", addr, err)
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		env, err := DecodeEnvelope(msg)
		if err == nil {
			err = Dispatch(tracker, env)
		}
		if err != nil {
			log.Printf("[WEB] Bad message from %s: %v", addr, err)
			continue
		}
		if writeErr != nil {
			log.Printf("[WEB] Write to %s: %v", addr, writeErr)
			break
		}
	}

	snap := tracker.Snapshot()
	log.Printf("[WEB] Player %s left, best score %d", addr, snap.Best)
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
