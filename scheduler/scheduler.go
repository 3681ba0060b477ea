// Package scheduler hands a *vm.VM to a background goroutine and
// returns a handle the caller can wait on for the resulting event
// list, the Go analogue of the original Rust scheduler's
// `thread::spawn(move || vm.run())`.
package scheduler

import "github.com/irvm/iridium/vm"

// Scheduler bounds how many VMs run concurrently via a buffered
// semaphore channel, generalizing the original's unbounded
// thread-per-VM model with a `MaxConcurrent` cap (the CLI's
// `-threads` override).
type Scheduler struct {
	sem chan struct{}
}

// New creates a Scheduler allowing up to maxConcurrent VMs to run at
// once. A non-positive maxConcurrent is treated as 1.
func New(maxConcurrent int) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Scheduler{sem: make(chan struct{}, maxConcurrent)}
}

// Handle is returned by Submit; Wait blocks until the VM has finished
// running and returns its event history.
type Handle struct {
	done chan []vm.VMEvent
}

// Wait blocks for the submitted VM's run to complete and returns its
// event list.
func (h *Handle) Wait() []vm.VMEvent {
	return <-h.done
}

// Submit takes ownership of v and runs it to completion on a
// background goroutine, respecting the scheduler's concurrency cap.
// The caller must not touch v again after calling Submit: ownership
// of a VM value transfers to the worker, matching the core's
// requirement that two VMs never share mutable state.
func (s *Scheduler) Submit(v *vm.VM) *Handle {
	h := &Handle{done: make(chan []vm.VMEvent, 1)}

	s.sem <- struct{}{}
	go func() {
		defer func() { <-s.sem }()
		h.done <- v.Run()
	}()

	return h
}
