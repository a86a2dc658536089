/*
 * vr4300sim - CPU register file and reset state.
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

// Package vr4300 implements the CPU state and behavior specified in
// spec.md: the 5-stage pipeline, CP0 system control, CP1 FPU hookup,
// and the I/D caches. The register numbering below mirrors the
// `enum vr4300_register` layout in original_source/vr4300/cpu.h so that
// a debug console addressing registers by number matches the reference
// implementation's own numbering.
package vr4300

import (
	"github.com/rcornwell/vr4300sim/emu/bus"
	"github.com/rcornwell/vr4300sim/emu/mi"
)

// Signal bits, adopted verbatim from cen64's enum vr4300_signals.
const (
	SignalForceExit uint32 = 0x00000001
	SignalColdReset uint32 = 0x00000002
)

// CP0 register indices, spec.md section 3.
const (
	CP0Index = iota
	CP0Random
	CP0EntryLo0
	CP0EntryLo1
	CP0Context
	CP0PageMask
	CP0Wired
	cp0Reserved7
	CP0BadVAddr
	CP0Count
	CP0EntryHi
	CP0Compare
	CP0Status
	CP0Cause
	CP0EPC
	CP0PRId
	CP0Config
	CP0LLAddr
	CP0WatchLo
	CP0WatchHi
	CP0XContext
	cp0Reserved21
	cp0Reserved22
	cp0Reserved23
	cp0Reserved24
	cp0Reserved25
	CP0ParityError
	CP0CacheErr
	CP0TagLo
	CP0TagHi
	CP0ErrorEPC
	cp0Reserved31
	numCP0Regs
)

// Status register field masks.
const (
	StatusIE  uint64 = 1 << 0
	StatusEXL uint64 = 1 << 1
	StatusERL uint64 = 1 << 2
	StatusKSUShift uint64 = 3
	StatusKSUMask  uint64 = 0x3 << StatusKSUShift
	StatusUX  uint64 = 1 << 5
	StatusSX  uint64 = 1 << 6
	StatusKX  uint64 = 1 << 7
	StatusIMShift uint64 = 8
	StatusIMMask  uint64 = 0xff << StatusIMShift
	StatusDS  uint64 = 0x1ff << 16
	StatusRE  uint64 = 1 << 25
	StatusFR  uint64 = 1 << 26
	StatusRP  uint64 = 1 << 27
	StatusCU0 uint64 = 1 << 28
	StatusCU1 uint64 = 1 << 29
	StatusCU2 uint64 = 1 << 30
	StatusCU3 uint64 = 1 << 31
	StatusBEV uint64 = 1 << 22
)

// Cause register field masks/shifts.
const (
	CauseExcCodeShift uint64 = 2
	CauseExcCodeMask  uint64 = 0x1f << CauseExcCodeShift
	CauseIPShift      uint64 = 8
	CauseIPMask       uint64 = 0xff << CauseIPShift
	CauseIP2          uint64 = 1 << (CauseIPShift + 2) // external MI line
	CauseCEShift      uint64 = 28
	CauseBD           uint64 = 1 << 31
)

// Exception codes, spec.md section 4.5.
const (
	ExcInt     = 0
	ExcMod     = 1
	ExcTLBL    = 2
	ExcTLBS    = 3
	ExcAdEL    = 4
	ExcAdES    = 5
	ExcIBE     = 6
	ExcDBE     = 7
	ExcSys     = 8
	ExcBp      = 9
	ExcRI      = 10
	ExcCpU     = 11
	ExcOv      = 12
	ExcTr      = 13
	ExcFPE     = 15
	ExcWatch   = 23
)

// Exception vectors, spec.md section 4.3.
const (
	VectorGeneral     uint64 = 0x8000_0180
	VectorGeneralBEV  uint64 = 0xBFC0_0380
	VectorTLBRefill   uint64 = 0x8000_0000
	VectorTLBRefillBV uint64 = 0xBFC0_0200
)

// ResetPC is the architectural reset vector, spec.md section 3.
const ResetPC uint64 = 0xBFC0_0000

// CPU holds the entire architectural and microarchitectural state of one
// VR4300 core: integer/FP register files, CP0, TLB, caches, and the
// pipeline. It is created once at reset and mutated only by Cycle.
type CPU struct {
	Regs [32]uint64
	HI   uint64
	LO   uint64
	PC   uint64

	CP0 [numCP0Regs]uint64

	FPRegs [32]uint64
	FCR0   uint32
	FCR31  uint32

	TLB TLB

	ICache ICache
	DCache DCache

	Signals uint32

	Bus *bus.Bus
	MI  *mi.MI

	pipeline pipeline

	// LLbit backs the LL/SC load-linked pair (cleared by ERET).
	LLbit bool

	// cycles is a free-running count of Cycle() invocations, used only
	// for debug-console reporting, never for architectural behavior.
	cycles uint64
}

// New creates a CPU wired to bus b and interrupt register m, and resets
// it to architectural defaults.
func New(b *bus.Bus, m *mi.MI) *CPU {
	c := &CPU{Bus: b, MI: m}
	c.Reset()
	return c
}

// Reset restores architectural reset state, spec.md sections 3 and 6:
// PC at the reset vector, Status.BEV and ERL set, Random at its maximum,
// caches invalidated, pipeline latches cleared.
func (c *CPU) Reset() {
	c.Regs = [32]uint64{}
	c.HI, c.LO = 0, 0
	c.PC = ResetPC
	c.CP0 = [numCP0Regs]uint64{}
	c.CP0[CP0Status] = StatusBEV | StatusERL
	c.CP0[CP0Random] = 31
	c.CP0[CP0Wired] = 0
	c.CP0[CP0PRId] = 0x0000_0B22 // VR4300 revision 2.2, per hardware.
	c.CP0[CP0Config] = 0x7006_6460
	c.CP0[CP0Compare] = 0xFFFF_FFFF
	c.FCR0 = 0x0000_0A00
	c.FCR31 = 0
	c.TLB = [TLBEntries]TLBEntry{}
	c.ICache.Invalidate()
	c.DCache.Invalidate()
	c.Signals = 0
	c.LLbit = false
	c.pipeline = pipeline{}
	c.cycles = 0
}

// GetReg reads GPR n. Register 0 always reads as zero, spec.md invariant
// (i) and testable property 1.
func (c *CPU) GetReg(n uint) uint64 {
	if n == 0 {
		return 0
	}
	return c.Regs[n]
}

// SetReg writes GPR n. Writes to register 0 are discarded.
func (c *CPU) SetReg(n uint, v uint64) {
	if n == 0 {
		return
	}
	c.Regs[n] = v
}

// Cycles reports how many times Cycle has run, for debug/reporting only.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}
