package slock

import "testing"

func TestLockTransitions(t *testing.T) {
	var lock AtomicServiceLock

	if lock.Running() {
		t.Fatal("zero value must be stopped")
	}
	if !lock.TryLock() {
		t.Fatal("first lock must succeed")
	}
	if lock.TryLock() {
		t.Fatal("second lock must fail while running")
	}
	if !lock.Running() {
		t.Fatal("must report running after lock")
	}
	if !lock.TryUnlock() {
		t.Fatal("unlock of a running lock must succeed")
	}
	if lock.TryUnlock() {
		t.Fatal("unlock of a stopped lock must fail")
	}
	if !lock.TryLock() {
		t.Fatal("relock after unlock must succeed")
	}
}
