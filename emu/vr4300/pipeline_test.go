/*
 * vr4300sim - the 5-stage IC/RF/EX/DC/WB pipeline.
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

	"github.com/rcornwell/vr4300sim/emu/mi"
)

const opBEQcode = 0o04

// reservedOpcode has no handler in primaryTable, so dispatch must treat
// it as a reserved instruction.
const reservedOpcode = 0o22

func TestBranchDelaySlotExecutesBeforeRedirect(t *testing.T) {
	prog := []uint32{
		encodeI(opADDIUcode, 0, 8, 1),    // 0: addiu $t0, $zero, 1
		encodeI(opBEQcode, 0, 0, 2),      // 1: beq $zero, $zero, +2  (target = word 4)
		encodeI(opADDIUcode, 0, 9, 0xAA), // 2: addiu $t1, $zero, 0xAA  (delay slot, must execute)
		encodeI(opADDIUcode, 0, 10, 0xBB), // 3: addiu $t2, $zero, 0xBB  (must be skipped)
		encodeI(opADDIUcode, 0, 11, 0xCC), // 4: addiu $t3, $zero, 0xCC  (branch target)
	}
	c := newTestCPU(t, prog)

	runCycles(c, 12)

	if got := c.GetReg(8); got != 1 {
		t.Fatalf("t0 = %#x, want 1", got)
	}
	if got := c.GetReg(9); got != 0xAA {
		t.Fatalf("t1 (delay slot) = %#x, want 0xAA", got)
	}
	if got := c.GetReg(10); got != 0 {
		t.Fatalf("t2 (should be squashed by the taken branch) = %#x, want 0", got)
	}
	if got := c.GetReg(11); got != 0xCC {
		t.Fatalf("t3 (branch target) = %#x, want 0xCC", got)
	}
}

func TestReservedInstructionRaisesExceptionWithBDBit(t *testing.T) {
	prog := []uint32{
		encodeI(opBEQcode, 0, 0, 1),       // 0: beq $zero, $zero, +1 (target = word 2)
		encodeI(reservedOpcode, 0, 0, 0),  // 1: delay slot: reserved instruction, must fault
		encodeI(opADDIUcode, 0, 8, 0x11),  // 2: never reached before the exception redirect
	}
	c := newTestCPU(t, prog)

	runCycles(c, 12)

	excCode := (c.CP0[CP0Cause] & CauseExcCodeMask) >> CauseExcCodeShift
	if excCode != ExcRI {
		t.Fatalf("Cause.ExcCode = %d, want ExcRI", excCode)
	}
	if c.CP0[CP0Cause]&CauseBD == 0 {
		t.Fatal("a faulting instruction in a branch delay slot must set Cause.BD")
	}
	if c.CP0[CP0Status]&StatusEXL == 0 {
		t.Fatal("Status.EXL must be set once the exception is taken")
	}
	// EPC must point at the branch itself (delay slot PC - 4), not the
	// delay slot instruction.
	if c.CP0[CP0EPC] != kseg0 {
		t.Fatalf("EPC = %#x, want %#x (the branch, not its delay slot)", c.CP0[CP0EPC], kseg0)
	}
}

func TestExternalInterruptRedirectsAtFetchBoundary(t *testing.T) {
	// A tight loop of independent ADDIUs: nothing here should observably
	// change except that fetch eventually redirects to the interrupt
	// vector once MI raises a line and Status enables it.
	prog := []uint32{
		encodeI(opADDIUcode, 0, 8, 1),
		encodeI(opADDIUcode, 0, 8, 1),
		encodeI(opADDIUcode, 0, 8, 1),
		encodeI(opADDIUcode, 0, 8, 1),
	}
	c := newTestCPU(t, prog)
	c.CP0[CP0Status] = StatusIE | (1 << (8 + 2)) // IM2 enabled, BEV clear

	c.MI.RaiseLine(mi.LineVI)
	c.MI.WriteWord(mi.RegIntrMask*4, 1<<mi.LineVI, 0xFFFF_FFFF)

	runCycles(c, 6)

	if c.CP0[CP0Status]&StatusEXL == 0 {
		t.Fatal("an unmasked pending MI line should have been delivered as Cause.ExcInt")
	}
	excCode := (c.CP0[CP0Cause] & CauseExcCodeMask) >> CauseExcCodeShift
	if excCode != ExcInt {
		t.Fatalf("Cause.ExcCode = %d, want ExcInt", excCode)
	}
}
