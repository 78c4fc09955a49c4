// Package slock guards service start/stop transitions with a single
// atomic word, so double starts and stops of a stopped service are
// cheap no-ops for the caller to detect.
package slock

import "sync/atomic"

const (
	stopped = iota
	running
)

// ServiceLocker is the minimal running-state guard.
type ServiceLocker interface {
	TryLock() bool
	TryUnlock() bool
	Running() bool
}

// AtomicServiceLock implements ServiceLocker on a CAS word. The zero
// value is a stopped lock, ready to use.
type AtomicServiceLock struct {
	state uint32
}

// TryLock moves stopped -> running. False means already running.
func (sl *AtomicServiceLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&sl.state, stopped, running)
}

// TryUnlock moves running -> stopped. False means not running.
func (sl *AtomicServiceLock) TryUnlock() bool {
	return atomic.CompareAndSwapUint32(&sl.state, running, stopped)
}

func (sl *AtomicServiceLock) Running() bool {
	return atomic.LoadUint32(&sl.state) == running
}
