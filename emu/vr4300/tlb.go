/*
 * vr4300sim - Translation lookaside buffer.
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

import "github.com/rcornwell/vr4300sim/emu/hosterr"

// TLBEntries is the number of software-managed TLB slots, spec.md
// section 3.
const TLBEntries = 48

// TLB is the full set of TLBEntries slots.
type TLB [TLBEntries]TLBEntry

// TLBEntry mirrors one hardware TLB slot: a VPN2/ASID/G key plus two
// (PFN, C, D, V) halves selected by the virtual address's "odd page"
// bit, and a PageMask controlling the page size. Addressing is kept to
// 32 bits throughout (virtual and physical), matching how N64 software
// runs the VR4300 and matching spec.md section 3's "P lies in the
// 32-bit physical space" invariant.
type TLBEntry struct {
	VPN2     uint32 // raw EntryHi bits 31:13, unmasked by page size until lookup time.
	ASID     uint8
	G        bool
	PageMask uint32 // raw PageMask register bits 24:13, right-shifted to start at bit 0.
	PFN0     uint32 // physical frame number (phys_addr >> 12) for the even page.
	PFN1     uint32
	C0, C1   uint8
	D0, D1   bool
	V0, V1   bool
}

func (e *TLBEntry) offsetMask() uint32 {
	return (e.PageMask << 13) | 0x1FFF
}

// EntryHi reconstructs the CP0 EntryHi bit pattern for this entry.
func (e TLBEntry) EntryHi() uint64 {
	v := uint64(e.VPN2) | uint64(e.ASID)
	return v
}

// EntryLo0/EntryLo1 reconstruct the CP0 EntryLo{0,1} bit patterns.
func (e *TLBEntry) EntryLo0() uint64 { return entryLoBits(e.PFN0, e.C0, e.D0, e.V0, e.G) }
func (e *TLBEntry) EntryLo1() uint64 { return entryLoBits(e.PFN1, e.C1, e.D1, e.V1, e.G) }

func entryLoBits(pfn uint32, c uint8, d, v, g bool) uint64 {
	val := uint64(pfn&0x00FF_FFFF) << 6
	val |= uint64(c&0x7) << 3
	if d {
		val |= 1 << 2
	}
	if v {
		val |= 1 << 1
	}
	if g {
		val |= 1
	}
	return val
}

// SetFromHiLoMask loads an entry's fields from the CP0 EntryHi/EntryLo0/
// EntryLo1/PageMask register bit patterns, as TLBWI/TLBWR do.
func (e *TLBEntry) SetFromHiLoMask(entryHi, lo0, lo1, pageMask uint64) {
	e.ASID = uint8(entryHi & 0xFF)
	e.VPN2 = uint32(entryHi) &^ 0xFF
	e.PageMask = uint32(pageMask>>13) & 0xFFF
	e.PFN0 = uint32((lo0 >> 6) & 0x00FF_FFFF)
	e.C0 = uint8((lo0 >> 3) & 0x7)
	e.D0 = lo0&0x4 != 0
	e.V0 = lo0&0x2 != 0
	g0 := lo0&0x1 != 0
	e.PFN1 = uint32((lo1 >> 6) & 0x00FF_FFFF)
	e.C1 = uint8((lo1 >> 3) & 0x7)
	e.D1 = lo1&0x4 != 0
	e.V1 = lo1&0x2 != 0
	g1 := lo1&0x1 != 0
	e.G = g0 && g1
}

// Translate finds the TLB entry matching vaddr under asid, per spec.md
// section 4.3: match on (V>>(12+maskshift))==VPN2 and (G || ASID==asid),
// select the even/odd half by the low VPN bit, check V then D-on-store,
// else produce PFN|offset.
//
// Returns the physical address and, on failure, the exception code to
// raise (ExcTLBL/ExcTLBS on Invalid, ExcMod on Modified) together with
// whether the miss should use the TLB-Refill vector (no entry matched
// at all) versus the general vector (entry matched but disallowed).
func (tlb *TLB) Translate(vaddr uint32, asid uint8, store bool) (paddr uint32, excCode int, refill bool, ok bool) {
	var match *TLBEntry
	matches := 0
	for i := range tlb {
		e := &tlb[i]
		// A slot left all-zero since reset holds no mapping.
		if *e == (TLBEntry{}) {
			continue
		}
		if !e.G && e.ASID != asid {
			continue
		}
		mask := e.offsetMask()
		cmpMask := ^mask
		if (vaddr & cmpMask) == (e.VPN2 & cmpMask) {
			match = e
			matches++
		}
	}
	if matches > 1 {
		hosterr.Fatal("TLB: multiple entries matched the same virtual address (TLB shutdown condition)")
	}
	if match == nil {
		code := ExcTLBL
		if store {
			code = ExcTLBS
		}
		return 0, code, true, false
	}

	pageMask := match.offsetMask() >> 1
	selectBit := pageMask + 1
	odd := vaddr&selectBit != 0

	var pfn uint32
	var valid, dirty bool
	if odd {
		pfn, valid, dirty = match.PFN1, match.V1, match.D1
	} else {
		pfn, valid, dirty = match.PFN0, match.V0, match.D0
	}

	if !valid {
		code := ExcTLBL
		if store {
			code = ExcTLBS
		}
		return 0, code, false, false
	}
	if store && !dirty {
		return 0, ExcMod, false, false
	}

	paddr = (pfn << 12) | (vaddr & pageMask)
	return paddr, 0, false, true
}

// Probe implements TLBP: find the index of the entry matching the
// current EntryHi, or -1 with the not-found bit semantics handled by
// the caller (Index bit 31 set).
func (tlb *TLB) Probe(entryHi uint64) int {
	asid := uint8(entryHi & 0xFF)
	vpn2 := uint32(entryHi) &^ 0xFF
	for i := range tlb {
		e := &tlb[i]
		if *e == (TLBEntry{}) {
			continue
		}
		if !e.G && e.ASID != asid {
			continue
		}
		mask := e.offsetMask()
		cmpMask := ^mask
		if (vpn2 & cmpMask) == (e.VPN2 & cmpMask) {
			return i
		}
	}
	return -1
}
