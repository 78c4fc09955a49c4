package common

import (
	"context"
	"encoding/json"
)

// Command executes one request kind. Implementations decode their own
// payload from the request data.
type Command interface {
	Name() string
	Exec(ctx context.Context, data json.RawMessage) (interface{}, error)
}

// Service describes background running instances owned by the engine.
type Service interface {
	Name() string
	Start() error
	Stop() error
}

// Observer is notified after every executed command. Used for metrics.
type Observer interface {
	Observe(command string, durationSeconds float64, err error)
}
