/*
 * vr4300sim - CP0 system control: Count/Compare, Status/Cause, and
 * exception entry/return.
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

package vr4300

import (
	"testing"

	"github.com/rcornwell/vr4300sim/emu/bus"
	"github.com/rcornwell/vr4300sim/emu/mi"
)

func newBareCPU() *CPU {
	return New(bus.New(), mi.New())
}

func TestWriteCompareClearsLatchedTimerInterrupt(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Cause] |= 1 << (CauseIPShift + 7)

	c.WriteCompare(100)

	if c.CP0[CP0Cause]&(1<<(CauseIPShift+7)) != 0 {
		t.Fatal("WriteCompare must clear the latched Compare interrupt")
	}
	if c.CP0[CP0Compare] != 100 {
		t.Fatalf("Compare = %d, want 100", c.CP0[CP0Compare])
	}
}

func TestTickTimerLatchesOnCountCompareMatch(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Count] = 0
	c.CP0[CP0Compare] = 1

	// Count>>1 reaches 1 once Count hits 2 or 3.
	for i := 0; i < 3; i++ {
		c.TickTimer()
	}

	if c.CP0[CP0Cause]&(1<<(CauseIPShift+7)) == 0 {
		t.Fatal("timer interrupt should be latched once Count>>1 == Compare")
	}
}

func TestSampleExternalIRQTracksMILine(t *testing.T) {
	m := mi.New()
	c := New(bus.New(), m)

	c.SampleExternalIRQ()
	if c.CP0[CP0Cause]&CauseIP2 != 0 {
		t.Fatal("Cause.IP2 should be clear while MI has nothing pending")
	}

	m.RaiseLine(mi.LineSI)
	m.WriteWord(mi.RegIntrMask*4, 1<<mi.LineSI, 0xFFFF_FFFF)
	c.SampleExternalIRQ()
	if c.CP0[CP0Cause]&CauseIP2 == 0 {
		t.Fatal("Cause.IP2 should be set once MI has an unmasked pending line")
	}
}

func TestInterruptPendingHonorsStatusGates(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Status] = StatusIE | (1 << (8 + 2)) // IM2 enabled
	c.CP0[CP0Cause] = CauseIP2

	if !c.InterruptPending() {
		t.Fatal("interrupt should be deliverable when IE set, EXL/ERL clear, and IP&IM overlap")
	}

	c.CP0[CP0Status] |= StatusEXL
	if c.InterruptPending() {
		t.Fatal("interrupt must not be deliverable while EXL is set")
	}
}

func TestRaiseExceptionSetsEPCAndVector(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Status] = 0

	vector := c.RaiseException(ExcTLBL, 0x8000_0100, false, false)

	if c.CP0[CP0EPC] != 0x8000_0100 {
		t.Fatalf("EPC = %#x, want 0x80000100", c.CP0[CP0EPC])
	}
	if c.CP0[CP0Status]&StatusEXL == 0 {
		t.Fatal("RaiseException must set Status.EXL")
	}
	if vector != VectorGeneral {
		t.Fatalf("vector = %#x, want VectorGeneral", vector)
	}
	excCode := (c.CP0[CP0Cause] & CauseExcCodeMask) >> CauseExcCodeShift
	if excCode != ExcTLBL {
		t.Fatalf("Cause.ExcCode = %d, want ExcTLBL", excCode)
	}
}

func TestRaiseExceptionInBranchDelaySetsBDAndBacksUpEPC(t *testing.T) {
	c := newBareCPU()

	c.RaiseException(ExcTLBL, 0x8000_0104, true, false)

	if c.CP0[CP0EPC] != 0x8000_0100 {
		t.Fatalf("EPC = %#x, want faultPC-4 when in a branch delay slot", c.CP0[CP0EPC])
	}
	if c.CP0[CP0Cause]&CauseBD == 0 {
		t.Fatal("Cause.BD must be set for a delay-slot exception")
	}
}

func TestRaiseExceptionDoesNotClobberEPCOnNestedException(t *testing.T) {
	c := newBareCPU()
	c.RaiseException(ExcTLBL, 0x8000_0100, false, false)
	c.RaiseException(ExcMod, 0x8000_0200, false, false)

	if c.CP0[CP0EPC] != 0x8000_0100 {
		t.Fatal("a second exception while EXL is already set must not overwrite EPC")
	}
}

func TestRaiseExceptionPicksRefillVector(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Status] = 0

	vector := c.RaiseException(ExcTLBL, 0x8000_0100, false, true)
	if vector != VectorTLBRefill {
		t.Fatalf("vector = %#x, want VectorTLBRefill", vector)
	}

	c2 := newBareCPU()
	c2.CP0[CP0Status] = StatusBEV
	vector = c2.RaiseException(ExcTLBL, 0x8000_0100, false, true)
	if vector != VectorTLBRefillBV {
		t.Fatalf("BEV vector = %#x, want VectorTLBRefillBV", vector)
	}
}

func TestERETClearsEXLAndJumpsToEPC(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Status] = StatusEXL
	c.CP0[CP0EPC] = 0x8000_2000
	c.LLbit = true

	pc := c.ERET()

	if pc != 0x8000_2000 {
		t.Fatalf("ERET returned %#x, want EPC", pc)
	}
	if c.CP0[CP0Status]&StatusEXL != 0 {
		t.Fatal("ERET must clear Status.EXL")
	}
	if c.LLbit {
		t.Fatal("ERET must clear LLbit")
	}
}

func TestWriteCP0CauseOnlyAcceptsSoftwareInterruptBits(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Cause] = CauseIP2

	c.WriteCP0(CP0Cause, 0x300|CauseIP2)

	if c.CP0[CP0Cause]&0x300 != 0x300 {
		t.Fatal("software IP[1:0] bits should be settable via MTC0")
	}
	if c.CP0[CP0Cause]&CauseIP2 == 0 {
		t.Fatal("MTC0 to Cause must not clear hardware-latched IP bits outside [1:0]")
	}
}

func TestTLBReadWriteIndexedRoundTrip(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0Index] = 3
	c.CP0[CP0EntryHi] = 0x0000_1000 | 7
	c.CP0[CP0EntryLo0] = entryLoBits(0x100, 2, true, true, false)
	c.CP0[CP0EntryLo1] = entryLoBits(0x200, 2, true, true, false)
	c.CP0[CP0PageMask] = 0

	c.TLBWriteIndexed()
	if c.TLB[3].PFN0 != 0x100 || c.TLB[3].ASID != 7 {
		t.Fatalf("TLB[3] not written correctly: %+v", c.TLB[3])
	}

	c.CP0[CP0EntryHi] = 0
	c.TLBRead()
	if c.CP0[CP0EntryHi]&0xFF != 7 {
		t.Fatal("TLBRead should reload EntryHi from the indexed entry")
	}
}

func TestTLBProbeSetsIndexSignBitOnMiss(t *testing.T) {
	c := newBareCPU()
	c.CP0[CP0EntryHi] = 0x0000_5000

	c.TLBProbe()

	if c.CP0[CP0Index]&0x8000_0000 == 0 {
		t.Fatal("TLBP on a miss must set the sign bit of Index")
	}
}
