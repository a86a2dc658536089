/*
 * vr4300sim - MI: the interrupt register.
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

// Package mi implements the MIPS Interface interrupt register described
// in spec.md section 4.2: it latches level-sensitive device interrupt
// lines and projects their OR-with-mask reduction as a single line into
// CP0's Cause register. The register bank shape (a contiguous array of
// 32-bit registers addressed by base+4*index, masked writes) is the same
// pattern emu/memory.PutWordMask and sys_channel use, and matches
// cen64's vi/controller.c read_vi_regs/write_vi_regs exactly:
// "regs[reg] &= ~dqm; regs[reg] |= word".
package mi

// Device interrupt lines, spec.md section 4.2.
const (
	LineSP = iota
	LineSI
	LineAI
	LineVI
	LinePI
	LineDP
	// Remaining bits (6, 7) are reserved, matching real MI hardware.
)

// Register indices within the MI MMIO block.
const (
	RegInitMode = iota
	RegVersion
	RegIntr
	RegIntrMask
)

const numRegs = 4

// MI is the interrupt register block.
type MI struct {
	regs [numRegs]uint32
}

// New creates an MI block with architectural reset defaults.
func New() *MI {
	m := &MI{}
	m.regs[RegVersion] = 0x0202_0102
	return m
}

// RaiseLine latches a device interrupt line. It stays asserted
// (level-sensitive) until the device clears it via ClearLine, per
// spec.md section 4.2.
func (m *MI) RaiseLine(line uint) {
	m.regs[RegIntr] |= 1 << line
}

// ClearLine deasserts a device interrupt line. Writes to MI_INTR never
// clear a line, and no device register write handler in this module
// calls ClearLine: a raised line stays asserted until ClearLine is
// called directly.
func (m *MI) ClearLine(line uint) {
	m.regs[RegIntr] &^= 1 << line
}

// Pending returns the OR-reduction of asserted-and-masked lines, the
// value that drives CP0 Cause.IP2.
func (m *MI) Pending() bool {
	return (m.regs[RegIntr] & m.regs[RegIntrMask]) != 0
}

// ReadWord implements bus.Device.
func (m *MI) ReadWord(offset uint32) uint32 {
	idx := offset / 4
	if int(idx) >= numRegs {
		return 0
	}
	return m.regs[idx]
}

// WriteWord implements bus.Device. MI_INTR is read-only from software
// (real hardware clears individual lines through each device's own
// register, not through MI itself); all other registers accept the
// standard mask-write.
func (m *MI) WriteWord(offset uint32, value, mask uint32) {
	idx := offset / 4
	if int(idx) >= numRegs || idx == RegIntr {
		return
	}
	m.regs[idx] = (m.regs[idx] &^ mask) | (value & mask)
}
