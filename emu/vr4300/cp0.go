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

// TickTimer advances the Count/Compare timer by one CPU cycle and
// latches the timer interrupt (Cause.IP7) on a match. Count increments every cycle but is compared against Compare
// only after a right-shift by one, the literal form cen64's
// vr4300_cycle uses of spec.md's "Count increments every other cycle":
// (Count>>1) == Compare.
func (c *CPU) TickTimer() {
	c.CP0[CP0Count] = uint64(uint32(c.CP0[CP0Count]) + 1)
	if uint32(c.CP0[CP0Count]>>1) == uint32(c.CP0[CP0Compare]) {
		c.CP0[CP0Cause] |= 1 << (CauseIPShift + 7)
	}
}

// WriteCompare rewrites Compare and, per real hardware and spec.md
// section 4.3, clears the latched timer interrupt until Count next
// matches the new value.
func (c *CPU) WriteCompare(v uint64) {
	c.CP0[CP0Compare] = v
	c.CP0[CP0Cause] &^= 1 << (CauseIPShift + 7)
}

// SampleExternalIRQ OR-reduces the MI interrupt line into Cause.IP2,
// spec.md section 4.2/4.3.
func (c *CPU) SampleExternalIRQ() {
	if c.MI != nil && c.MI.Pending() {
		c.CP0[CP0Cause] |= CauseIP2
	} else {
		c.CP0[CP0Cause] &^= CauseIP2
	}
}

// InterruptPending reports whether an interrupt is deliverable this
// cycle, spec.md section 4.3: IE && !EXL && !ERL && (Cause.IP &
// Status.IM) != 0.
func (c *CPU) InterruptPending() bool {
	status := c.CP0[CP0Status]
	if status&StatusIE == 0 || status&StatusEXL != 0 || status&StatusERL != 0 {
		return false
	}
	ip := (c.CP0[CP0Cause] & CauseIPMask) >> CauseIPShift
	im := (status & StatusIMMask) >> StatusIMShift
	return ip&im != 0
}

// RaiseException delivers an exception: saves PC (or PC-4 with Cause.BD
// set if the faulting instruction was in a branch delay slot) into EPC,
// sets Cause.ExcCode, sets Status.EXL, and returns the vector PC, per
// spec.md section 4.3.
func (c *CPU) RaiseException(excCode int, faultPC uint64, branchDelay bool, useRefillVector bool) uint64 {
	epc := faultPC
	cause := c.CP0[CP0Cause] &^ (CauseExcCodeMask | CauseBD)
	if branchDelay {
		epc -= 4
		cause |= CauseBD
	}
	if c.CP0[CP0Status]&StatusEXL == 0 {
		c.CP0[CP0EPC] = epc
	}
	cause |= uint64(excCode) << CauseExcCodeShift
	c.CP0[CP0Cause] = cause
	c.CP0[CP0Status] |= StatusEXL

	bev := c.CP0[CP0Status]&StatusBEV != 0
	switch {
	case useRefillVector && bev:
		return VectorTLBRefillBV
	case useRefillVector:
		return VectorTLBRefill
	case bev:
		return VectorGeneralBEV
	default:
		return VectorGeneral
	}
}

// ERET implements the ERET instruction: clears EXL, jumps to EPC, clears
// LLbit, per spec.md section 4.3.
func (c *CPU) ERET() uint64 {
	c.CP0[CP0Status] &^= StatusEXL
	c.LLbit = false
	return c.CP0[CP0EPC]
}

// ASID returns the current address space identifier from EntryHi.
func (c *CPU) ASID() uint8 {
	return uint8(c.CP0[CP0EntryHi] & 0xFF)
}

// ReadCP0 implements MFC0, applying the read-only/volatile behavior of
// a few registers (Random decrements towards Wired in real hardware;
// this core never decrements it and returns the stored value, 31 after
// reset).
func (c *CPU) ReadCP0(reg uint) uint64 {
	return c.CP0[reg]
}

// WriteCP0 implements MTC0.
func (c *CPU) WriteCP0(reg uint, v uint64) {
	switch reg {
	case CP0Compare:
		c.WriteCompare(v)
	case CP0Cause:
		// Software may only write the IP[1:0] (software interrupt) bits.
		c.CP0[CP0Cause] = (c.CP0[CP0Cause] &^ 0x300) | (v & 0x300)
	case CP0PRId, CP0Config:
		// Mostly read-only; real hardware allows a few Config bits to be
		// written, which this core does not model.
	default:
		c.CP0[reg] = v
	}
}

// TLBRead implements TLBR: load EntryHi/EntryLo0/EntryLo1/PageMask from
// the entry selected by Index.
func (c *CPU) TLBRead() {
	idx := c.CP0[CP0Index] & 0x3F
	if int(idx) >= TLBEntries {
		return
	}
	e := &c.TLB[idx]
	c.CP0[CP0EntryHi] = e.EntryHi()
	c.CP0[CP0EntryLo0] = e.EntryLo0()
	c.CP0[CP0EntryLo1] = e.EntryLo1()
	c.CP0[CP0PageMask] = uint64(e.PageMask) << 13
}

// TLBWriteIndexed implements TLBWI: store EntryHi/Lo0/Lo1/PageMask into
// the entry selected by Index.
func (c *CPU) TLBWriteIndexed() {
	idx := c.CP0[CP0Index] & 0x3F
	if int(idx) >= TLBEntries {
		return
	}
	c.TLB[idx].SetFromHiLoMask(c.CP0[CP0EntryHi], c.CP0[CP0EntryLo0], c.CP0[CP0EntryLo1], c.CP0[CP0PageMask])
}

// TLBWriteRandom implements TLBWR: store into the entry selected by
// Random.
func (c *CPU) TLBWriteRandom() {
	idx := c.CP0[CP0Random] & 0x3F
	if int(idx) >= TLBEntries {
		return
	}
	c.TLB[idx].SetFromHiLoMask(c.CP0[CP0EntryHi], c.CP0[CP0EntryLo0], c.CP0[CP0EntryLo1], c.CP0[CP0PageMask])
}

// TLBProbe implements TLBP: set Index to the matching entry, or set its
// sign bit if none matched.
func (c *CPU) TLBProbe() {
	idx := c.TLB.Probe(c.CP0[CP0EntryHi])
	if idx < 0 {
		c.CP0[CP0Index] = 0x8000_0000
		return
	}
	c.CP0[CP0Index] = uint64(idx)
}
