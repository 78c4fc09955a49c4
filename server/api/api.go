// Package api exposes the probe commands over plain HTTP, next to the
// websocket stream endpoint. One-shot integrations use this; anything
// interactive should prefer the stream.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/netprobe-io/netprobe/engine"
	"github.com/netprobe-io/netprobe/engine/common"
	"github.com/netprobe-io/netprobe/internal/config"
	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/pkg/pubip"
	"github.com/netprobe-io/netprobe/pkg/scontext"
	"github.com/netprobe-io/netprobe/server/stream"
)

const (
	pkgName = "ApiServer. "
	cmd     = "API_SERVER"

	maxBodySize    = 1 << 20
	requestTimeout = 2 * time.Minute
)

var errUsePost = fmt.Errorf("use POST")

type Server struct {
	addr   string
	engine *engine.Engine
	stream *stream.Server
	ctx    scontext.StartStopContext
}

func New(ctx context.Context, addr string, e *engine.Engine, ws *stream.Server) *Server {
	return &Server{
		addr:   addr,
		engine: e,
		stream: ws,
		ctx:    scontext.New(ctx),
	}
}

func (s *Server) Name() string {
	return cmd
}

func (s *Server) Start() error {
	ctx, err := s.ctx.CreateContext()
	if err != nil {
		return fmt.Errorf("%s is already running", cmd)
	}

	srv := http.Server{
		Addr:    s.addr,
		Handler: cors(s.routes()),
	}

	logger.Info().Println(pkgName, "listening on", s.addr)
	go func() {
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			logger.Error().Println(pkgName, err)
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Debug().Println(pkgName, "stopping", cmd)
		srv.Close()
	}()

	return nil
}

func (s *Server) Stop() error {
	return s.ctx.CancelContext()
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", s.command("Ping"))
	mux.HandleFunc("/api/tcping", s.command("Tcping"))
	mux.HandleFunc("/api/website", s.command("Website"))
	mux.HandleFunc("/api/traceroute", s.command("Traceroute"))
	mux.HandleFunc("/api/dns", s.command("Dns"))
	mux.HandleFunc("/api/portscan", s.portScan)
	mux.HandleFunc("/api/health", s.health)
	mux.HandleFunc("/api/status", s.status)
	mux.Handle("/ws", s.stream)

	return mux
}

// command adapts an engine command to a POST endpoint: the request body
// is the command payload.
func (s *Server) command(msgType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, errUsePost)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		resp := s.engine.Exec(ctx, common.Request{
			MsgType: msgType,
			Data:    body,
		})

		status := http.StatusOK
		if !resp.Success {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, resp)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.OkResponse(map[string]string{
		"status":  "healthy",
		"version": config.FullVersion(),
	}))
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.OkResponse(map[string]interface{}{
		"version":     config.FullVersion(),
		"services":    s.engine.Services(),
		"sessions":    s.stream.SessionCount(),
		"external_ip": pubip.GetPublicIp().String(),
		"ip_provider": pubip.Provider(),
	}))
}

func writeJSON(w http.ResponseWriter, status int, resp common.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Warning().Println(pkgName, "response write error:", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, common.ErrResponse(err))
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
}

// cors answers preflights and lets any origin call the API. The server
// is a diagnostics tool, commonly driven from browser dashboards on
// other hosts.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
