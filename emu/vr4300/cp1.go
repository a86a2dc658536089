/*
 * vr4300sim - CP1: the floating point unit.
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

// CP1 register access and the handful of IEEE-754 arithmetic/compare/
// convert operations dispatched from EX. cpu_float.go keeps one 64-bit
// slot per logical FP register and manipulates the sign/exponent/
// mantissa fields directly for IBM hexadecimal floating point; this
// core keeps the same one-slot-per-register shape (here, Status.FR=1
// semantics: 32 independent 64-bit registers rather than 16 even/odd
// double pairs) but leans on Go's math package for the IEEE-754 binary
// arithmetic itself, since the domain's number format is wholly
// different.
package vr4300

import "math"

// FCR31 field layout (simplified from the real VR4300: this core keeps
// only rounding mode and the five IEEE flag/cause/enable bits, not the
// full per-exception enable matrix).
const (
	FCR31RoundMask uint32 = 0x3
	FCR31FlagShift uint32 = 2
	FCR31Inexact   uint32 = 1 << (FCR31FlagShift + 0)
	FCR31Underflow uint32 = 1 << (FCR31FlagShift + 1)
	FCR31Overflow  uint32 = 1 << (FCR31FlagShift + 2)
	FCR31DivZero   uint32 = 1 << (FCR31FlagShift + 3)
	FCR31Invalid   uint32 = 1 << (FCR31FlagShift + 4)
	FCR31Condition uint32 = 1 << 23
)

const (
	RoundNearest = 0
	RoundZero    = 1
	RoundPlusInf = 2
	RoundMinusInf = 3
)

// GetFPDouble/SetFPDouble read/write a register as a float64.
func (c *CPU) GetFPDouble(n uint) float64 {
	return math.Float64frombits(c.FPRegs[n&0x1F])
}

func (c *CPU) SetFPDouble(n uint, v float64) {
	c.FPRegs[n&0x1F] = math.Float64bits(v)
}

// GetFPSingle/SetFPSingle read/write a register as a float32, stored in
// the low 32 bits.
func (c *CPU) GetFPSingle(n uint) float32 {
	return math.Float32frombits(uint32(c.FPRegs[n&0x1F]))
}

func (c *CPU) SetFPSingle(n uint, v float32) {
	c.FPRegs[n&0x1F] = uint64(math.Float32bits(v))
}

// GetFPWord/SetFPWord access a register as a 32-bit integer, used by
// CVT.*.W/CVT.W.* and MTC1/MFC1.
func (c *CPU) GetFPWord(n uint) int32 {
	return int32(uint32(c.FPRegs[n&0x1F]))
}

func (c *CPU) SetFPWord(n uint, v int32) {
	c.FPRegs[n&0x1F] = uint64(uint32(v))
}

// fpCondition reads/sets the single FP condition code bit used by
// C.cond.fmt and tested by BC1T/BC1F.
func (c *CPU) fpCondition() bool {
	return c.FCR31&FCR31Condition != 0
}

func (c *CPU) setFPCondition(v bool) {
	if v {
		c.FCR31 |= FCR31Condition
	} else {
		c.FCR31 &^= FCR31Condition
	}
}

// FPCondition exports the condition bit for the pipeline's branch
// resolution (BC1T/BC1F).
func (c *CPU) FPCondition() bool { return c.fpCondition() }

func (c *CPU) flagSpecial(v float64) {
	switch {
	case math.IsNaN(v):
		c.FCR31 |= FCR31Invalid
	case math.IsInf(v, 0):
		c.FCR31 |= FCR31Overflow
	case v == 0:
	}
}

// FPAddD/FPSubD/FPMulD/FPDivD/FPSqrtD/FPAbsD/FPNegD/FPMovD implement the
// double-precision arithmetic group dispatched from EX.
func (c *CPU) FPAddD(fd, fs, ft uint) {
	r := c.GetFPDouble(fs) + c.GetFPDouble(ft)
	c.flagSpecial(r)
	c.SetFPDouble(fd, r)
}

func (c *CPU) FPSubD(fd, fs, ft uint) {
	r := c.GetFPDouble(fs) - c.GetFPDouble(ft)
	c.flagSpecial(r)
	c.SetFPDouble(fd, r)
}

func (c *CPU) FPMulD(fd, fs, ft uint) {
	r := c.GetFPDouble(fs) * c.GetFPDouble(ft)
	c.flagSpecial(r)
	c.SetFPDouble(fd, r)
}

func (c *CPU) FPDivD(fd, fs, ft uint) {
	divisor := c.GetFPDouble(ft)
	if divisor == 0 {
		c.FCR31 |= FCR31DivZero
	}
	r := c.GetFPDouble(fs) / divisor
	c.flagSpecial(r)
	c.SetFPDouble(fd, r)
}

func (c *CPU) FPSqrtD(fd, fs uint) {
	v := c.GetFPDouble(fs)
	if v < 0 {
		c.FCR31 |= FCR31Invalid
	}
	c.SetFPDouble(fd, math.Sqrt(v))
}

func (c *CPU) FPAbsD(fd, fs uint) { c.SetFPDouble(fd, math.Abs(c.GetFPDouble(fs))) }
func (c *CPU) FPNegD(fd, fs uint) { c.SetFPDouble(fd, -c.GetFPDouble(fs)) }
func (c *CPU) FPMovD(fd, fs uint) { c.SetFPDouble(fd, c.GetFPDouble(fs)) }

// Single-precision mirrors of the double group.
func (c *CPU) FPAddS(fd, fs, ft uint) { c.SetFPSingle(fd, c.GetFPSingle(fs)+c.GetFPSingle(ft)) }
func (c *CPU) FPSubS(fd, fs, ft uint) { c.SetFPSingle(fd, c.GetFPSingle(fs)-c.GetFPSingle(ft)) }
func (c *CPU) FPMulS(fd, fs, ft uint) { c.SetFPSingle(fd, c.GetFPSingle(fs)*c.GetFPSingle(ft)) }
func (c *CPU) FPDivS(fd, fs, ft uint) { c.SetFPSingle(fd, c.GetFPSingle(fs)/c.GetFPSingle(ft)) }
func (c *CPU) FPAbsS(fd, fs uint)     { c.SetFPSingle(fd, float32(math.Abs(float64(c.GetFPSingle(fs))))) }
func (c *CPU) FPNegS(fd, fs uint)     { c.SetFPSingle(fd, -c.GetFPSingle(fs)) }
func (c *CPU) FPMovS(fd, fs uint)     { c.SetFPSingle(fd, c.GetFPSingle(fs)) }

// Conversions.
func (c *CPU) FPCvtDS(fd, fs uint) { c.SetFPDouble(fd, float64(c.GetFPSingle(fs))) }
func (c *CPU) FPCvtSD(fd, fs uint) { c.SetFPSingle(fd, float32(c.GetFPDouble(fs))) }
func (c *CPU) FPCvtWD(fd, fs uint) { c.SetFPWord(fd, c.roundToInt(c.GetFPDouble(fs))) }
func (c *CPU) FPCvtDW(fd, fs uint) { c.SetFPDouble(fd, float64(c.GetFPWord(fs))) }
func (c *CPU) FPCvtWS(fd, fs uint) { c.SetFPWord(fd, c.roundToInt(float64(c.GetFPSingle(fs)))) }
func (c *CPU) FPCvtSW(fd, fs uint) { c.SetFPSingle(fd, float32(c.GetFPWord(fs))) }

func (c *CPU) roundToInt(v float64) int32 {
	switch c.FCR31 & FCR31RoundMask {
	case RoundZero:
		return int32(math.Trunc(v))
	case RoundPlusInf:
		return int32(math.Ceil(v))
	case RoundMinusInf:
		return int32(math.Floor(v))
	default:
		return int32(math.RoundToEven(v))
	}
}

// FPCompareD/FPCompareS implement C.cond.fmt for the subset of conditions exercised
// by this core (EQ, LT, LE — the ones generated by a typical compiler's
// branch-on-FP-compare idiom).
func (c *CPU) FPCompareD(cond string, fs, ft uint) {
	a, b := c.GetFPDouble(fs), c.GetFPDouble(ft)
	c.setFPCondition(evalCompare(cond, a, b))
}

func (c *CPU) FPCompareS(cond string, fs, ft uint) {
	a, b := float64(c.GetFPSingle(fs)), float64(c.GetFPSingle(ft))
	c.setFPCondition(evalCompare(cond, a, b))
}

func evalCompare(cond string, a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	switch cond {
	case "eq":
		return a == b
	case "lt":
		return a < b
	case "le":
		return a <= b
	default:
		return false
	}
}
