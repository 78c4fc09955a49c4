package logger

import (
	"encoding/json"
	"io"
	"time"

	"github.com/netprobe-io/netprobe/internal/env"
)

const cmd = "Log"

// streamLogger wraps log lines into the outbound stream envelope,
// so live connections can subscribe to engine logs.
type loggerMessage struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      struct {
		Type    string `json:"type"`
		Level   string `json:"severity"`
		Message string `json:"message"`
	} `json:"data"`
}

type streamLogger struct {
	wr    io.Writer
	level string
}

func (l *streamLogger) Write(b []byte) (n int, err error) {
	msg := loggerMessage{
		Success:   true,
		Timestamp: time.Now().Format(env.TimeFormat),
	}

	msg.Data.Type = cmd
	msg.Data.Message = string(b)
	msg.Data.Level = l.level
	raw, err := json.Marshal(msg)
	if err != nil {
		return 0, err
	}

	return l.wr.Write(raw)
}

// NewStreamWriter returns a writer suitable for passing to SetupGlobalLoger.
// Lines written to it are wrapped into stream envelopes and forwarded to w.
func NewStreamWriter(w io.Writer) io.Writer {
	return &streamLogger{wr: w}
}
