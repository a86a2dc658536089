/*
 * vr4300sim - COP0 and COP1 instruction dispatch.
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

// execCP0 dispatches the COP0 opcode group (MFC0/MTC0 and, under the CO
// sub-format, the TLB maintenance instructions and ERET), spec.md
// section 4.3.
func execCP0(c *CPU, d decoded, pc uint64) outcome {
	if !kernelMode(c) && c.CP0[CP0Status]&StatusCU0 == 0 {
		return cpUnusable(0)
	}
	switch d.rs {
	case 0x00: // MFC0
		return writeOutcome(d.rt, uint64(uint32(c.ReadCP0(d.rd))))
	case 0x04: // MTC0
		return outcome{hasCP0Write: true, cp0Reg: d.rd, cp0Val: c.GetReg(d.rt)}
	case 0x10: // CO: TLB ops / ERET, selected by funct
		switch d.funct {
		case 0x01:
			return outcome{tlb: tlbOpRead}
		case 0x02:
			return outcome{tlb: tlbOpWriteIndexed}
		case 0x06:
			return outcome{tlb: tlbOpWriteRandom}
		case 0x08:
			return outcome{tlb: tlbOpProbe}
		case 0x18:
			// The branch target (EPC) is a plain read, safe to resolve in
			// EX like any other branch; clearing EXL/LLbit is a commit
			// deferred to retireDC via hasERET.
			return outcome{branch: true, branchTarget: c.CP0[CP0EPC], hasERET: true}
		}
		return outcome{}
	}
	return excOutcome(ExcRI)
}

func kernelMode(c *CPU) bool {
	status := c.CP0[CP0Status]
	if status&StatusEXL != 0 || status&StatusERL != 0 {
		return true
	}
	return (status&StatusKSUMask)>>StatusKSUShift == 0
}

func cpUnusable(unit uint64) outcome {
	return outcome{hasExc: true, excCode: ExcCpU, coUnit: unit}
}

// execCP1 dispatches the COP1 opcode group: MFC1/MTC1/CFC1/CTC1, the
// BC1 branch-on-FP-condition forms, and the single/double arithmetic,
// compare and convert groups implemented in cp1.go.
func execCP1(c *CPU, d decoded, pc uint64) outcome {
	if c.CP0[CP0Status]&StatusCU1 == 0 {
		return cpUnusable(1)
	}
	switch d.rs {
	case 0x00: // MFC1
		return writeOutcome(d.rt, uint64(uint32(c.FPRegs[d.rd&0x1F])))
	case 0x02: // CFC1
		v := uint32(0)
		if d.rd == 31 {
			v = c.FCR31
		} else if d.rd == 0 {
			v = c.FCR0
		}
		return writeOutcome(d.rt, uint64(v))
	case 0x04: // MTC1
		return outcome{hasWrite: true, writeReg: d.rd, writeVal: uint64(uint32(c.GetReg(d.rt))), writeIsFP: true}
	case 0x06: // CTC1
		if d.rd != 31 {
			return outcome{}
		}
		return outcome{hasFCR31Write: true, fcr31Val: uint32(c.GetReg(d.rt))}
	case 0x08: // BC1[F|T][L]
		taken := c.FPCondition()
		if d.rt&0x1 == 0 {
			taken = !taken
		}
		likely := d.rt&0x2 != 0
		return outcome{branch: taken, isBranchClass: true, branchLikely: likely, branchTarget: branchTargetFrom(pc, d.imm)}
	case 0x10: // fmt=S
		return execCP1ArithS(c, d)
	case 0x11: // fmt=D
		return execCP1ArithD(c, d)
	case 0x14: // fmt=W, CVT.*.W
		return execCP1CvtW(c, d)
	}
	return excOutcome(ExcRI)
}

func execCP1ArithD(c *CPU, d decoded) outcome {
	fd, fs, ft := d.rd, d.shamt, d.rt
	switch d.funct {
	case 0x00:
		c.FPAddD(fd, fs, ft)
	case 0x01:
		c.FPSubD(fd, fs, ft)
	case 0x02:
		c.FPMulD(fd, fs, ft)
	case 0x03:
		c.FPDivD(fd, fs, ft)
	case 0x04:
		c.FPSqrtD(fd, fs)
	case 0x05:
		c.FPAbsD(fd, fs)
	case 0x06:
		c.FPMovD(fd, fs)
	case 0x07:
		c.FPNegD(fd, fs)
	case 0x20:
		c.FPCvtSD(fd, fs)
	case 0x24:
		c.FPCvtWD(fd, fs)
	case 0x32:
		c.FPCompareD("eq", fs, ft)
	case 0x3C:
		c.FPCompareD("lt", fs, ft)
	case 0x3E:
		c.FPCompareD("le", fs, ft)
	default:
		return excOutcome(ExcRI)
	}
	return outcome{}
}

func execCP1ArithS(c *CPU, d decoded) outcome {
	fd, fs, ft := d.rd, d.shamt, d.rt
	switch d.funct {
	case 0x00:
		c.FPAddS(fd, fs, ft)
	case 0x01:
		c.FPSubS(fd, fs, ft)
	case 0x02:
		c.FPMulS(fd, fs, ft)
	case 0x03:
		c.FPDivS(fd, fs, ft)
	case 0x05:
		c.FPAbsS(fd, fs)
	case 0x06:
		c.FPMovS(fd, fs)
	case 0x07:
		c.FPNegS(fd, fs)
	case 0x21:
		c.FPCvtDS(fd, fs)
	case 0x24:
		c.FPCvtWS(fd, fs)
	case 0x32:
		c.FPCompareS("eq", fs, ft)
	case 0x3C:
		c.FPCompareS("lt", fs, ft)
	case 0x3E:
		c.FPCompareS("le", fs, ft)
	default:
		return excOutcome(ExcRI)
	}
	return outcome{}
}

func execCP1CvtW(c *CPU, d decoded) outcome {
	fd, fs := d.rd, d.shamt
	switch d.funct {
	case 0x20:
		c.FPCvtSW(fd, fs)
	case 0x21:
		c.FPCvtDW(fd, fs)
	default:
		return excOutcome(ExcRI)
	}
	return outcome{}
}
