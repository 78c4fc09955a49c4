// Package stream exposes the engine over websocket. Each connection is
// an independent session with its own response fan-out.
package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/netprobe-io/netprobe/engine"
	"github.com/netprobe-io/netprobe/internal/logger"
)

const pkgName = "Stream. "

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The diagnostics endpoint is origin-agnostic: browsers on any host
	// may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	engine   *engine.Engine
	mutex    sync.Mutex
	sessions map[*Session]struct{}
}

func NewServer(e *engine.Engine) *Server {
	return &Server{
		engine:   e,
		sessions: make(map[*Session]struct{}),
	}
}

// SessionCount reports currently connected clients.
func (srv *Server) SessionCount() int {
	srv.mutex.Lock()
	defer srv.mutex.Unlock()
	return len(srv.sessions)
}

// Broadcast publishes a message to every connected session.
func (srv *Server) Broadcast(msg []byte) {
	srv.mutex.Lock()
	defer srv.mutex.Unlock()
	for session := range srv.sessions {
		session.Publish(msg)
	}
}

// Write lets the server act as a log sink: lines written here reach all
// connected sessions. Plug it in via logger.NewStreamWriter.
func (srv *Server) Write(msg []byte) (int, error) {
	srv.Broadcast(msg)
	return len(msg), nil
}

// ServeHTTP upgrades the connection and blocks serving it until the
// client disconnects.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning().Println(pkgName, "upgrade failed:", err)
		return
	}
	defer ws.Close()

	session := newSession(ws, srv.engine)
	srv.track(session)
	defer srv.untrack(session)

	logger.Info().Println(pkgName, "client connected:", r.RemoteAddr)
	session.run(r.Context())
	logger.Info().Println(pkgName, "client disconnected:", r.RemoteAddr)
}

func (srv *Server) track(s *Session) {
	srv.mutex.Lock()
	defer srv.mutex.Unlock()
	srv.sessions[s] = struct{}{}
}

func (srv *Server) untrack(s *Session) {
	srv.mutex.Lock()
	defer srv.mutex.Unlock()
	delete(srv.sessions, s)
}
