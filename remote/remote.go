// Package remote serves the environment over websockets so policies can run
// in another process. Each connection gets its own environment; messages
// are JSON objects handled strictly in order.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/types"
)

// Operation names.
const (
	OpReset = "reset"
	OpStep  = "step"
)

// Env is the environment surface served to clients. Both engine.Engine and
// team.Manager satisfy it.
type Env interface {
	Reset(opts ...engine.ResetOption) types.Observation
	Step(action int) types.Result
}

// Request is one client message. Seed and Map are optional on reset.
type Request struct {
	Op     string `json:"op"`
	Seed   *int64 `json:"seed,omitempty"`
	Map    *int   `json:"map,omitempty"`
	Action int    `json:"action,omitempty"`
}

// Reply answers a Request. A reset fills only the observation.
type Reply struct {
	types.Result
	Error string `json:"error,omitempty"`
}

// Server upgrades HTTP requests to websocket sessions.
type Server struct {
	NewEnv   func() Env
	Upgrader websocket.Upgrader
	// Logger receives connection errors. nil discards them.
	Logger *log.Logger
}

// NewServer returns a server creating one environment per connection.
func NewServer(newEnv func() Env) *Server {
	return &Server{NewEnv: newEnv}
}

func (s *Server) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	s.serve(conn, s.NewEnv())
}

func (s *Server) serve(conn *websocket.Conn, env Env) {
	started := false
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logf("read %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		var reply Reply
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			reply = Reply{Error: fmt.Sprintf("bad request: %v", err)}
		} else {
			reply = s.handle(env, req, &started)
		}
		if err := conn.WriteJSON(reply); err != nil {
			s.logf("write %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) handle(env Env, req Request, started *bool) Reply {
	switch req.Op {
	case OpReset:
		var opts []engine.ResetOption
		if req.Seed != nil {
			opts = append(opts, engine.WithSeed(*req.Seed))
		}
		if req.Map != nil {
			opts = append(opts, engine.WithMap(*req.Map))
		}
		*started = true
		return Reply{Result: types.Result{Observation: env.Reset(opts...)}}
	case OpStep:
		if !*started {
			return Reply{Error: "reset before stepping"}
		}
		return Reply{Result: env.Step(req.Action)}
	default:
		return Reply{Error: fmt.Sprintf("unknown op %q", req.Op)}
	}
}

// ListenAndServe serves s on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
