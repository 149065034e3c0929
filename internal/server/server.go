// Package server exposes the task agent over a WebSocket endpoint.
// Every connection gets its own agent and store: sessions are isolated,
// and the single read loop per connection dispatches operations
// serially, which is all the synchronization the store operations need.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rcliao/taskpilot/internal/agent"
	"github.com/rcliao/taskpilot/internal/protocol"
)

type Server struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func New(log zerolog.Logger) *Server {
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The protocol carries no credentials and state is
			// per-connection, so cross-origin pages may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router builds the HTTP surface: a health probe and the WebSocket
// endpoint.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(recoverer(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.handleWS)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// with a short grace period.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info().Str("addr", addr).Msg("listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connLog := s.log.With().
		Str("remote", conn.RemoteAddr().String()).
		Str("request_id", middleware.GetReqID(r.Context())).
		Logger()
	connLog.Info().Msg("client connected")

	sess := agent.New(connLog)

	// Push the initial snapshot so the client can render immediately.
	if err := conn.WriteJSON(protocol.StateEnvelope(sess.State())); err != nil {
		connLog.Warn().Err(err).Msg("initial state send failed")
		return
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				connLog.Warn().Err(err).Msg("read error")
			} else {
				connLog.Info().Msg("client disconnected")
			}
			return
		}

		env := s.dispatch(sess, frame)
		if err := conn.WriteJSON(env); err != nil {
			connLog.Warn().Err(err).Msg("write error")
			return
		}
	}
}

// dispatch turns one inbound frame into an outbound envelope. Frames
// that do not parse get the generic error envelope; the connection is
// never torn down for bad input.
func (s *Server) dispatch(sess *agent.Agent, frame []byte) protocol.Envelope {
	var req protocol.Request
	if err := json.Unmarshal(frame, &req); err != nil {
		s.log.Debug().Err(err).Msg("unparsable frame")
		return protocol.ErrorEnvelope()
	}

	resp := sess.Process(req)
	return protocol.ResponseEnvelope(resp, sess.State())
}
