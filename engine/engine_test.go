package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/netprobe-io/netprobe/engine/common"
)

type echoCommand struct {
	name string
	err  error
}

func (c *echoCommand) Name() string { return c.name }

func (c *echoCommand) Exec(ctx context.Context, data json.RawMessage) (interface{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	return string(data), nil
}

type recordingObserver struct {
	commands []string
	failures int
}

func (o *recordingObserver) Observe(command string, durationSeconds float64, err error) {
	o.commands = append(o.commands, command)
	if err != nil {
		o.failures++
	}
}

func TestExecDispatch(t *testing.T) {
	e := New(context.Background())
	e.AddCommand(&echoCommand{name: "Echo"})

	resp := e.Exec(context.Background(), common.Request{
		MsgType: "Echo",
		Data:    json.RawMessage(`{"x":1}`),
	})

	if !resp.Success {
		t.Fatalf("dispatch failed: %s", resp.Error)
	}
	if diff := cmp.Diff(`{"x":1}`, resp.Data); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if resp.Timestamp.IsZero() {
		t.Fatal("response timestamp not set")
	}
}

func TestExecUnknownType(t *testing.T) {
	e := New(context.Background())

	resp := e.Exec(context.Background(), common.Request{MsgType: "Nope"})
	if resp.Success {
		t.Fatal("unknown command must not succeed")
	}
	if resp.Error == "" {
		t.Fatal("error message missing")
	}
}

func TestExecCommandError(t *testing.T) {
	e := New(context.Background())
	e.AddCommand(&echoCommand{name: "Boom", err: errors.New("probe exploded")})

	resp := e.Exec(context.Background(), common.Request{MsgType: "Boom"})
	if resp.Success {
		t.Fatal("failed command must not succeed")
	}
	if resp.Error != "probe exploded" {
		t.Fatalf("error = %q, want the command error text", resp.Error)
	}
}

func TestProcessMalformedEnvelope(t *testing.T) {
	e := New(context.Background())

	raw := e.Process(context.Background(), []byte("{not json"))

	var resp common.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Success {
		t.Fatal("malformed request must produce a failure envelope")
	}
}

func TestObserverSeesEveryCommand(t *testing.T) {
	obs := &recordingObserver{}
	e := New(context.Background())
	e.SetObserver(obs)
	e.AddCommand(&echoCommand{name: "Echo"})
	e.AddCommand(&echoCommand{name: "Boom", err: errors.New("nope")})

	e.Exec(context.Background(), common.Request{MsgType: "Echo"})
	e.Exec(context.Background(), common.Request{MsgType: "Boom"})
	e.Exec(context.Background(), common.Request{MsgType: "Missing"})

	// unknown types never reach a command and are not observed
	if diff := cmp.Diff([]string{"Echo", "Boom"}, obs.commands); diff != "" {
		t.Fatalf("observed commands mismatch (-want +got):\n%s", diff)
	}
	if obs.failures != 1 {
		t.Fatalf("failures = %d, want 1", obs.failures)
	}
}

type flagService struct {
	name    string
	started bool
}

func (s *flagService) Name() string { return s.name }
func (s *flagService) Start() error { s.started = true; return nil }
func (s *flagService) Stop() error  { s.started = false; return nil }

func TestStartStop(t *testing.T) {
	svc := &flagService{name: "probe"}
	e := New(context.Background())
	e.AddService(svc)

	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !svc.started {
		t.Fatal("service not started")
	}
	if err := e.Start(); err == nil {
		t.Fatal("double start must fail")
	}

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if svc.started {
		t.Fatal("service not stopped")
	}
	if err := e.Stop(); err == nil {
		t.Fatal("double stop must fail")
	}
}
