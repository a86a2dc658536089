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

package scheduler

import (
	"testing"
	"time"

	"github.com/rcornwell/vr4300sim/emu/bus"
	"github.com/rcornwell/vr4300sim/emu/mi"
	"github.com/rcornwell/vr4300sim/emu/vr4300"
)

type countingTicker struct {
	n int
}

func (c *countingTicker) Cycle() { c.n++ }

func newIdleCPU() *vr4300.CPU {
	return vr4300.New(bus.New(), mi.New())
}

func TestStepAdvancesCPUAndCollaborators(t *testing.T) {
	cpu := newIdleCPU()
	tick := &countingTicker{}
	s := New(cpu, tick)

	before := cpu.Cycles()
	s.Step()

	if cpu.Cycles() != before+1 {
		t.Fatalf("cpu cycles = %d, want %d", cpu.Cycles(), before+1)
	}
	if tick.n != 1 {
		t.Fatalf("collaborator ticked %d times, want 1", tick.n)
	}
}

func TestRunRespectsMaxCycles(t *testing.T) {
	cpu := newIdleCPU()
	tick := &countingTicker{}
	s := New(cpu, tick)

	s.Run(10)

	if tick.n != 10 {
		t.Fatalf("ticked %d times, want 10", tick.n)
	}
}

func TestStopInterruptsAFreeRun(t *testing.T) {
	cpu := newIdleCPU()
	s := New(cpu, &countingTicker{})

	done := make(chan struct{})
	go func() {
		s.Run(0)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cause a free-running Run to return")
	}
}

func TestRunCanBeRestartedAfterStop(t *testing.T) {
	cpu := newIdleCPU()
	s := New(cpu, &countingTicker{})

	go s.Run(0)
	time.Sleep(5 * time.Millisecond)
	s.Stop()

	// A second Run after Stop must not hang because of a stale closed
	// done channel.
	done := make(chan struct{})
	go func() {
		s.Run(5)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run after a prior Stop should complete its bounded cycle count")
	}
}
