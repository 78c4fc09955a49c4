// Package engine owns the command registry and the background services.
// Transports (websocket stream, HTTP API) hand it raw requests and get
// back encoded response envelopes.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/netprobe-io/netprobe/engine/common"
	"github.com/netprobe-io/netprobe/internal/logger"
	"github.com/netprobe-io/netprobe/pkg/scontext"
	"github.com/netprobe-io/netprobe/pkg/slock"
)

const pkgName = "Engine. "

type Engine struct {
	slock.AtomicServiceLock
	ctx      scontext.StartStopContext
	commands map[string]common.Command
	services []common.Service
	observer common.Observer
}

func New(ctx context.Context) *Engine {
	return &Engine{
		ctx:      scontext.New(ctx),
		commands: make(map[string]common.Command),
	}
}

func (e *Engine) AddCommand(cmd common.Command) {
	e.commands[cmd.Name()] = cmd
}

func (e *Engine) AddService(svc common.Service) {
	e.services = append(e.services, svc)
}

// SetObserver installs the metrics hook. Must be called before Start.
func (e *Engine) SetObserver(obs common.Observer) {
	e.observer = obs
}

// Services lists registered background service names, for status reports.
func (e *Engine) Services() []string {
	names := make([]string, 0, len(e.services))
	for _, svc := range e.services {
		names = append(names, svc.Name())
	}
	return names
}

// Start brings up all registered services. Safe to call once; repeated
// starts are rejected.
func (e *Engine) Start() error {
	if !e.TryLock() {
		return fmt.Errorf("engine is already running")
	}

	if _, err := e.ctx.CreateContext(); err != nil {
		e.TryUnlock()
		return err
	}

	for _, svc := range e.services {
		logger.Info().Printf("%s Starting %s service.\n", pkgName, svc.Name())
		if err := svc.Start(); err != nil {
			logger.Error().Printf("%s Service %s: %s\n", pkgName, svc.Name(), err.Error())
		}
	}

	return nil
}

// Stop shuts down services in reverse start order.
func (e *Engine) Stop() error {
	if !e.TryUnlock() {
		return fmt.Errorf("engine is not running")
	}

	for i := len(e.services) - 1; i >= 0; i-- {
		svc := e.services[i]
		logger.Info().Printf("%s Stopping %s service.\n", pkgName, svc.Name())
		if err := svc.Stop(); err != nil {
			logger.Error().Printf("%s Service %s: %s\n", pkgName, svc.Name(), err.Error())
		}
	}

	return e.ctx.CancelContext()
}

// Exec dispatches one decoded request to its command.
func (e *Engine) Exec(ctx context.Context, req common.Request) common.Response {
	cmd, ok := e.commands[req.MsgType]
	if !ok {
		logger.Warning().Printf("%s Command '%s' not found\n", pkgName, req.MsgType)
		return common.ErrResponse(fmt.Errorf("unknown request type %q", req.MsgType))
	}

	start := time.Now()
	data, err := cmd.Exec(ctx, req.Data)
	elapsed := time.Since(start)

	if e.observer != nil {
		e.observer.Observe(req.MsgType, elapsed.Seconds(), err)
	}

	if err != nil {
		logger.Error().Printf("%s Command '%s' failed: %s\n", pkgName, req.MsgType, err.Error())
		return common.ErrResponse(err)
	}

	logger.Debug().Printf("%s Command '%s' completed.\n", pkgName, req.MsgType)
	return common.OkResponse(data)
}

// Process handles one raw message from a transport and always returns
// an encoded response envelope. A message that does not decode yields
// an error envelope rather than tearing anything down.
func (e *Engine) Process(ctx context.Context, raw []byte) []byte {
	var req common.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Warning().Println(pkgName, "request unmarshal error:", err)
		return encode(common.ErrResponse(fmt.Errorf("malformed request: %v", err)))
	}

	return encode(e.Exec(ctx, req))
}

func encode(resp common.Response) []byte {
	raw, err := json.Marshal(resp)
	if err != nil {
		// Response bodies are plain data structs; this cannot fail for
		// anything the commands produce.
		logger.Error().Println(pkgName, "response marshal error:", err)
		return []byte(`{"success":false,"error":"internal encoding error"}`)
	}
	return raw
}
