/*
 * vr4300sim - virtual address translation for the fixed KSEG0/KSEG1
 * direct-mapped windows and the TLB-mapped remainder.
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

// Segment bases, spec.md section 3. Addressing is scoped to 32 bits
// throughout (see tlb.go); KSEG0/KSEG1 give a fixed, TLB-free mapping
// onto the low 512MB of physical space, cached and uncached
// respectively, and everything else (KUSEG, KSEG2/KSEG3) is routed
// through the software TLB.
const (
	kseg0Base uint32 = 0x8000_0000
	kseg1Base uint32 = 0xA000_0000
	kseg2Base uint32 = 0xC000_0000
)

// translateAddress resolves vaddr to a physical address, reporting
// whether the result should be cached and, on failure, the exception
// to raise (TLB refill vs general, per spec.md section 4.3).
func translateAddress(c *CPU, vaddr uint32, store bool) (paddr uint32, cached bool, excCode int, refill bool, ok bool) {
	switch {
	case vaddr >= kseg2Base:
		return tlbTranslate(c, vaddr, store)
	case vaddr >= kseg1Base:
		return vaddr - kseg1Base, false, 0, false, true
	case vaddr >= kseg0Base:
		return vaddr - kseg0Base, true, 0, false, true
	default:
		return tlbTranslate(c, vaddr, store)
	}
}

func tlbTranslate(c *CPU, vaddr uint32, store bool) (uint32, bool, int, bool, bool) {
	paddr, exc, refill, ok := c.TLB.Translate(vaddr, c.ASID(), store)
	return paddr, true, exc, refill, ok
}
