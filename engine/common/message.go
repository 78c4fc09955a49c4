package common

import (
	"encoding/json"
	"time"
)

// Request is the inbound message envelope: a type tag selecting the
// command plus that command's raw payload.
type Request struct {
	MsgType string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

// Response is the outbound envelope. Exactly one of Data and Error is
// meaningful, selected by Success.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func OkResponse(data interface{}) Response {
	return Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrResponse(err error) Response {
	return Response{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
