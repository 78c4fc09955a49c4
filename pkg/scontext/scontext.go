// Package scontext provides a restartable child context: a service can
// create a cancellable context on start, cancel it on stop, and start
// again later under the same parent.
package scontext

import (
	"context"
	"errors"
)

var (
	ErrRunning       = errors.New("already running")
	ErrStopped       = errors.New("not running")
	ErrParentStopped = errors.New("parent context stopped")
)

type StartStopContext struct {
	parentCtx, ctx context.Context
	cancel         context.CancelFunc
}

func New(ctx context.Context) StartStopContext {
	return StartStopContext{
		parentCtx: ctx,
	}
}

// Context returns the active child context, or the parent when not
// started. Callers must serialize this with Start/Stop themselves.
func (sc *StartStopContext) Context() context.Context {
	if sc.cancel == nil {
		return sc.parentCtx
	}
	return sc.ctx
}

// CreateContext starts a new cancellable child. Fails when already
// started or when the parent is gone.
func (sc *StartStopContext) CreateContext() (context.Context, error) {
	if sc.cancel != nil {
		return nil, ErrRunning
	}

	select {
	case <-sc.parentCtx.Done():
		return nil, ErrParentStopped
	default:
	}

	sc.ctx, sc.cancel = context.WithCancel(sc.parentCtx)
	return sc.ctx, nil
}

// CancelContext stops the active child and allows a later restart.
func (sc *StartStopContext) CancelContext() error {
	if sc.cancel == nil {
		return ErrStopped
	}

	defer func() { sc.cancel = nil }()
	select {
	case <-sc.ctx.Done():
		return ErrStopped
	default:
	}

	sc.cancel()
	return nil
}
