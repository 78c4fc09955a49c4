package stream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/netprobe-io/netprobe/engine"
	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/pkg/broadcast"
)

// writeTimeout bounds one socket write. A variable so tests can
// shorten it.
var writeTimeout = 10 * time.Second

// per-session response buffer; slow readers lose messages rather
// than stall the probers feeding them
const sessionBuffer = 64

// Session serves one websocket client. Requests are dispatched to the
// engine and every response goes through the session's broadcaster, so
// background publishers can feed the same socket.
type Session struct {
	ws     *websocket.Conn
	engine *engine.Engine
	bus    *broadcast.Broadcaster
}

func newSession(ws *websocket.Conn, e *engine.Engine) *Session {
	return &Session{
		ws:     ws,
		engine: e,
		bus:    broadcast.New(sessionBuffer),
	}
}

// Publish queues a message for this session's socket. Never blocks.
func (s *Session) Publish(msg []byte) {
	s.bus.Publish(msg)
}

// run drives both pumps and returns when the client is gone. Either
// pump exiting cancels the shared context and takes the other with it.
func (s *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.bus.Close()

	// ReadMessage has no context parameter; closing the socket is the
	// only way to unblock the read pump when the session ends.
	go func() {
		<-ctx.Done()
		s.ws.Close()
	}()

	// subscribe before the read pump can produce a response
	out := s.bus.Subscribe()

	go s.writePump(ctx, cancel, out)
	s.readPump(ctx, cancel)
}

// readPump decodes inbound requests and publishes the engine's
// responses. A message that fails to decode produces an error response
// and the session carries on.
func (s *Session) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warning().Println(pkgName, "websocket read error:", err)
			}
			return
		}

		s.Publish(s.engine.Process(ctx, raw))

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// writePump is the only writer on the socket, as gorilla requires.
func (s *Session) writePump(ctx context.Context, cancel context.CancelFunc, out <-chan []byte) {
	defer cancel()
	defer s.bus.Unsubscribe(out)

	for {
		select {
		case msg, ok := <-out:
			if !ok {
				return
			}
			s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warning().Println(pkgName, "websocket write error:", err)
				return
			}
		case <-ctx.Done():
			s.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
