/*
 * vr4300sim - Fixed-order cooperative scheduler.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package scheduler drives the CPU and its collaborator stand-ins one
// cycle at a time in a fixed order, replacing a goroutine-plus-channel
// core.Start loop with a single-threaded select-with-default shape:
// this core has no telnet client traffic to multiplex, so the
// master-channel machinery drops out, but the run/stop state machine
// and the shutdown timeout are kept.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/vr4300sim/emu/vr4300"
)

// Ticker is one slot in the fixed tick order: the CPU core and each of
// the collaborator stand-ins registered with emu/extdevice.
type Ticker interface {
	Cycle()
}

// Scheduler owns the cycle-stepped simulation: the CPU plus the
// fixed-order collaborator slots behind it (RSP, RDP, AI, VI, PI, SI),
// per spec.md section 5.
type Scheduler struct {
	cpu   *vr4300.CPU
	order []Ticker

	mu      sync.Mutex
	wg      sync.WaitGroup
	done    chan struct{}
	running bool
}

// New creates a scheduler for cpu, ticking the given collaborators
// (RSP-stub, RDP-stub, AI-stub, VI-stub, PI-stub, SI-stub, in that
// order) after the CPU on every cycle.
func New(cpu *vr4300.CPU, collaborators ...Ticker) *Scheduler {
	return &Scheduler{cpu: cpu, order: collaborators, done: make(chan struct{})}
}

// Step advances the simulation exactly one cycle: the CPU first, then
// each collaborator in registration order. It reports whether the CPU
// raised SignalForceExit, mirroring vr4300.CPU.Cycle's own contract.
func (s *Scheduler) Step() bool {
	exit := s.cpu.Cycle()
	for _, t := range s.order {
		t.Cycle()
	}
	return exit
}

// Run steps the simulation until Stop is called, maxCycles is reached
// (0 means unbounded), or the CPU signals ForceExit. It is meant to run
// in its own goroutine, the same habit core.Start followed.
func (s *Scheduler) Run(maxCycles uint64) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Warn("scheduler already running")
		return
	}
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.wg.Add(1)
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	slog.Info("scheduler started")
	var n uint64
	for {
		select {
		case <-done:
			slog.Info("scheduler stopped")
			return
		default:
		}

		if s.cpu.Signals&vr4300.SignalForceExit != 0 {
			slog.Info("scheduler observed ForceExit")
			return
		}
		if s.Step() {
			slog.Info("scheduler observed ForceExit")
			return
		}
		n++
		if maxCycles != 0 && n >= maxCycles {
			slog.Info("scheduler reached cycle bound", "cycles", n)
			return
		}
	}
}

// Stop signals Run to exit and waits for it to do so, up to a timeout.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	done := s.done
	s.mu.Unlock()

	close(done)
	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(time.Second):
		slog.Warn("timed out waiting for scheduler to stop")
	}
}

// CPU exposes the underlying core, for the debug console.
func (s *Scheduler) CPU() *vr4300.CPU {
	return s.cpu
}
