/*
 * vr4300sim - instruction decode and the tag-dispatched opcode table.
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

// Instruction decode and dispatch. Rather than a long if/switch chain
// over the opcode the way a naive interpreter would, dispatch looks
// each decoded instruction's handler up in one of three tables (primary
// opcode, SPECIAL funct, REGIMM rt) built once at init time; COP0 and
// COP1 instructions are decoded further by execCP0/execCP1. This mirrors emu/opcodemap's table-of-handlers idiom,
// generalized from EBCDIC-era channel commands to MIPS instruction
// words.
package vr4300

// decoded holds every field a MIPS-I/II instruction word might carry;
// unused fields for a given opcode are simply ignored by its handler.
type decoded struct {
	raw    uint32
	opcode uint32
	rs     uint
	rt     uint
	rd     uint
	shamt  uint
	funct  uint32
	imm    int32  // sign-extended 16-bit immediate
	uimm   uint32 // zero-extended 16-bit immediate
	target uint32 // 26-bit jump target field
}

func decode(raw uint32) decoded {
	d := decoded{raw: raw}
	d.opcode = raw >> 26
	d.rs = uint((raw >> 21) & 0x1F)
	d.rt = uint((raw >> 16) & 0x1F)
	d.rd = uint((raw >> 11) & 0x1F)
	d.shamt = uint((raw >> 6) & 0x1F)
	d.funct = raw & 0x3F
	d.uimm = raw & 0xFFFF
	d.imm = int32(int16(raw & 0xFFFF))
	d.target = raw & 0x03FF_FFFF
	return d
}

// memKind identifies the width/sign of a load or store, dispatched from
// EX and carried to DC for the actual cache/bus access.
type memKind int

const (
	memNone memKind = iota
	memByte
	memByteU
	memHalf
	memHalfU
	memWord
	memWordU
	memDouble
)

func (k memKind) size() uint32 {
	switch k {
	case memByte, memByteU:
		return 1
	case memHalf, memHalfU:
		return 2
	case memDouble:
		return 8
	default:
		return 4
	}
}

// outcome is what EX produces for one instruction: at most one register
// write, at most one memory access request, at most one control-flow
// change, and an optional exception. DC/WB consume it in later cycles.
type outcome struct {
	hasWrite  bool
	writeReg  uint
	writeVal  uint64
	writeIsFP bool

	mem      memKind
	memStore bool
	memAddr  uint32
	storeVal uint64

	branch        bool
	isBranchClass bool // true for any branch/jump opcode, taken or not
	branchLikely  bool
	branchTarget  uint64

	hasExc       bool
	excCode      int
	coUnit       uint64
	refillVector bool
	badVAddr     uint32

	// multi-cycle functional unit latency, in cycles, applied as a stall
	// on the EX stage (models MULT/DIV/FP taking longer than one cycle).
	latency int

	// Deferred CP0/TLB/HI-LO/FCR31 commits. Like hasWrite above, these
	// are computed in EX but applied by retireDC, so an older
	// instruction's exception can still squash them before they touch
	// architectural state.
	hasHI bool
	hiVal uint64
	hasLO bool
	loVal uint64

	hasCP0Write bool
	cp0Reg      uint
	cp0Val      uint64

	tlb tlbOp

	hasERET bool

	hasFCR31Write bool
	fcr31Val      uint32
}

// tlbOp identifies a deferred TLB maintenance instruction (TLBR/TLBWI/
// TLBWR/TLBP), applied at DC-retire alongside every other commit.
type tlbOp int

const (
	tlbOpNone tlbOp = iota
	tlbOpRead
	tlbOpWriteIndexed
	tlbOpWriteRandom
	tlbOpProbe
)

type execFunc func(c *CPU, d decoded, pc uint64) outcome

var primaryTable [64]execFunc
var specialTable [64]execFunc
var regimmTable [32]execFunc

func init() {
	primaryTable[0o00] = execSpecial
	primaryTable[0o01] = execRegimm
	primaryTable[0o02] = opJ
	primaryTable[0o03] = opJAL
	primaryTable[0o04] = opBEQ
	primaryTable[0o05] = opBNE
	primaryTable[0o06] = opBLEZ
	primaryTable[0o07] = opBGTZ
	primaryTable[0o10] = opADDI
	primaryTable[0o11] = opADDIU
	primaryTable[0o12] = opSLTI
	primaryTable[0o13] = opSLTIU
	primaryTable[0o14] = opANDI
	primaryTable[0o15] = opORI
	primaryTable[0o16] = opXORI
	primaryTable[0o17] = opLUI
	primaryTable[020] = execCP0
	primaryTable[021] = execCP1
	primaryTable[024] = opBEQL
	primaryTable[025] = opBNEL
	primaryTable[026] = opBLEZL
	primaryTable[027] = opBGTZL
	primaryTable[040] = opLB
	primaryTable[041] = opLH
	primaryTable[043] = opLW
	primaryTable[044] = opLBU
	primaryTable[045] = opLHU
	primaryTable[047] = opLWU
	primaryTable[050] = opSB
	primaryTable[051] = opSH
	primaryTable[053] = opSW
	primaryTable[057] = opCACHE
	primaryTable[061] = opLWC1
	primaryTable[065] = opLDC1
	primaryTable[067] = opLD
	primaryTable[071] = opSWC1
	primaryTable[075] = opSDC1
	primaryTable[077] = opSD

	specialTable[0o00] = opSLL
	specialTable[0o02] = opSRL
	specialTable[0o03] = opSRA
	specialTable[0o04] = opSLLV
	specialTable[0o06] = opSRLV
	specialTable[0o07] = opSRAV
	specialTable[0o10] = opJR
	specialTable[0o11] = opJALR
	specialTable[0o14] = opSYSCALL
	specialTable[0o15] = opBREAK
	specialTable[020] = opMFHI
	specialTable[021] = opMTHI
	specialTable[022] = opMFLO
	specialTable[023] = opMTLO
	specialTable[030] = opMULT
	specialTable[031] = opMULTU
	specialTable[032] = opDIV
	specialTable[033] = opDIVU
	specialTable[040] = opADD
	specialTable[041] = opADDU
	specialTable[042] = opSUB
	specialTable[043] = opSUBU
	specialTable[044] = opAND
	specialTable[045] = opOR
	specialTable[046] = opXOR
	specialTable[047] = opNOR
	specialTable[052] = opSLT
	specialTable[053] = opSLTU

	regimmTable[0o00] = opBLTZ
	regimmTable[0o01] = opBGEZ
	regimmTable[0o02] = opBLTZL
	regimmTable[0o03] = opBGEZL
}

func execSpecial(c *CPU, d decoded, pc uint64) outcome {
	if h := specialTable[d.funct]; h != nil {
		return h(c, d, pc)
	}
	return excOutcome(ExcRI)
}

func execRegimm(c *CPU, d decoded, pc uint64) outcome {
	if h := regimmTable[d.rt]; h != nil {
		return h(c, d, pc)
	}
	return excOutcome(ExcRI)
}

func excOutcome(code int) outcome {
	return outcome{hasExc: true, excCode: code}
}

func reg(c *CPU, d decoded) (rs, rt uint64) {
	return c.GetReg(d.rs), c.GetReg(d.rt)
}

func writeOutcome(reg uint, val uint64) outcome {
	return outcome{hasWrite: true, writeReg: reg, writeVal: val}
}

// Arithmetic, spec.md section 4.1's overflow-detecting ADD/SUB family.
func opADD(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	sum := int32(rs) + int32(rt)
	if overflowsAdd(int32(rs), int32(rt), sum) {
		return excOutcome(ExcOv)
	}
	return writeOutcome(d.rd, uint64(uint32(sum)))
}

func opADDU(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return writeOutcome(d.rd, uint64(uint32(rs)+uint32(rt)))
}

func opSUB(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	diff := int32(rs) - int32(rt)
	if overflowsSub(int32(rs), int32(rt), diff) {
		return excOutcome(ExcOv)
	}
	return writeOutcome(d.rd, uint64(uint32(diff)))
}

func opSUBU(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return writeOutcome(d.rd, uint64(uint32(rs)-uint32(rt)))
}

func opADDI(c *CPU, d decoded, pc uint64) outcome {
	rs := c.GetReg(d.rs)
	sum := int32(rs) + d.imm
	if overflowsAdd(int32(rs), d.imm, sum) {
		return excOutcome(ExcOv)
	}
	return writeOutcome(d.rt, uint64(uint32(sum)))
}

func opADDIU(c *CPU, d decoded, pc uint64) outcome {
	rs := c.GetReg(d.rs)
	return writeOutcome(d.rt, uint64(uint32(rs)+uint32(d.imm)))
}

func overflowsAdd(a, b, sum int32) bool {
	return (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum > 0)
}

func overflowsSub(a, b, diff int32) bool {
	return (a >= 0 && b < 0 && diff < 0) || (a < 0 && b >= 0 && diff >= 0)
}

// Logic.
func opAND(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return writeOutcome(d.rd, rs&rt)
}
func opOR(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return writeOutcome(d.rd, rs|rt)
}
func opXOR(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return writeOutcome(d.rd, rs^rt)
}
func opNOR(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return writeOutcome(d.rd, ^(rs | rt))
}
func opANDI(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rt, c.GetReg(d.rs)&uint64(d.uimm))
}
func opORI(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rt, c.GetReg(d.rs)|uint64(d.uimm))
}
func opXORI(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rt, c.GetReg(d.rs)^uint64(d.uimm))
}
func opLUI(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rt, uint64(uint32(d.uimm)<<16))
}

// Shifts.
func opSLL(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rd, uint64(uint32(c.GetReg(d.rt))<<d.shamt))
}
func opSRL(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rd, uint64(uint32(c.GetReg(d.rt))>>d.shamt))
}
func opSRA(c *CPU, d decoded, pc uint64) outcome {
	return writeOutcome(d.rd, uint64(uint32(int32(uint32(c.GetReg(d.rt)))>>d.shamt)))
}
func opSLLV(c *CPU, d decoded, pc uint64) outcome {
	sh := uint(c.GetReg(d.rs) & 0x1F)
	return writeOutcome(d.rd, uint64(uint32(c.GetReg(d.rt))<<sh))
}
func opSRLV(c *CPU, d decoded, pc uint64) outcome {
	sh := uint(c.GetReg(d.rs) & 0x1F)
	return writeOutcome(d.rd, uint64(uint32(c.GetReg(d.rt))>>sh))
}
func opSRAV(c *CPU, d decoded, pc uint64) outcome {
	sh := uint(c.GetReg(d.rs) & 0x1F)
	return writeOutcome(d.rd, uint64(uint32(int32(uint32(c.GetReg(d.rt)))>>sh)))
}

// Compares.
func opSLT(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	v := uint64(0)
	if int64(rs) < int64(rt) {
		v = 1
	}
	return writeOutcome(d.rd, v)
}
func opSLTU(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	v := uint64(0)
	if rs < rt {
		v = 1
	}
	return writeOutcome(d.rd, v)
}
func opSLTI(c *CPU, d decoded, pc uint64) outcome {
	v := uint64(0)
	if int64(c.GetReg(d.rs)) < int64(d.imm) {
		v = 1
	}
	return writeOutcome(d.rt, v)
}
func opSLTIU(c *CPU, d decoded, pc uint64) outcome {
	v := uint64(0)
	if c.GetReg(d.rs) < uint64(uint32(d.imm)) {
		v = 1
	}
	return writeOutcome(d.rt, v)
}

// Multiply/divide, spec.md's HI/LO functional unit.
func opMULT(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	p := int64(int32(rs)) * int64(int32(rt))
	return outcome{hasLO: true, loVal: uint64(uint32(p)), hasHI: true, hiVal: uint64(uint32(p >> 32)), latency: mulLatency}
}

// mulLatency/divLatency model the VR4300's multi-cycle multiply/divide
// pipe as a fixed EX-stage stall rather than a fully decoupled unit.
const (
	mulLatency = 4
	divLatency = 36
)

func opMULTU(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	p := uint64(uint32(rs)) * uint64(uint32(rt))
	return outcome{hasLO: true, loVal: uint64(uint32(p)), hasHI: true, hiVal: uint64(uint32(p >> 32)), latency: mulLatency}
}

func opDIV(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	a, b := int32(rs), int32(rt)
	if b == 0 {
		return outcome{latency: divLatency}
	}
	return outcome{hasLO: true, loVal: uint64(uint32(a / b)), hasHI: true, hiVal: uint64(uint32(a % b)), latency: divLatency}
}

func opDIVU(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	a, b := uint32(rs), uint32(rt)
	if b == 0 {
		return outcome{latency: divLatency}
	}
	return outcome{hasLO: true, loVal: uint64(a / b), hasHI: true, hiVal: uint64(a % b), latency: divLatency}
}

func opMFHI(c *CPU, d decoded, pc uint64) outcome { return writeOutcome(d.rd, c.HI) }
func opMFLO(c *CPU, d decoded, pc uint64) outcome { return writeOutcome(d.rd, c.LO) }
func opMTHI(c *CPU, d decoded, pc uint64) outcome { return outcome{hasHI: true, hiVal: c.GetReg(d.rs)} }
func opMTLO(c *CPU, d decoded, pc uint64) outcome { return outcome{hasLO: true, loVal: c.GetReg(d.rs)} }

// Jumps and branches. Targets are computed here in EX; the pipeline
// applies them after the delay slot has fetched, per spec.md section
// 4.2.
func opJ(c *CPU, d decoded, pc uint64) outcome {
	target := (pc & 0xFFFF_FFFF_F000_0000) | (uint64(d.target) << 2)
	return outcome{branch: true, isBranchClass: true, branchTarget: target}
}

func opJAL(c *CPU, d decoded, pc uint64) outcome {
	target := (pc & 0xFFFF_FFFF_F000_0000) | (uint64(d.target) << 2)
	return outcome{branch: true, isBranchClass: true, branchTarget: target, hasWrite: true, writeReg: 31, writeVal: pc + 8}
}

func opJR(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: true, isBranchClass: true, branchTarget: c.GetReg(d.rs)}
}

func opJALR(c *CPU, d decoded, pc uint64) outcome {
	dest := d.rd
	if dest == 0 {
		dest = 31
	}
	return outcome{branch: true, isBranchClass: true, branchTarget: c.GetReg(d.rs), hasWrite: true, writeReg: dest, writeVal: pc + 8}
}

func branchTargetFrom(pc uint64, imm int32) uint64 {
	return uint64(uint32(pc) + 4 + uint32(imm<<2))
}

func opBEQ(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return outcome{branch: rs == rt, isBranchClass: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBNE(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return outcome{branch: rs != rt, isBranchClass: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBLEZ(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) <= 0, isBranchClass: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBGTZ(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) > 0, isBranchClass: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBLTZ(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) < 0, isBranchClass: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBGEZ(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) >= 0, isBranchClass: true, branchTarget: branchTargetFrom(pc, d.imm)}
}

// The *L "likely" forms squash their delay slot when not taken, spec.md
// section 4.2's second branch invariant.
func opBEQL(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return outcome{branch: rs == rt, isBranchClass: true, branchLikely: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBNEL(c *CPU, d decoded, pc uint64) outcome {
	rs, rt := reg(c, d)
	return outcome{branch: rs != rt, isBranchClass: true, branchLikely: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBLEZL(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) <= 0, isBranchClass: true, branchLikely: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBGTZL(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) > 0, isBranchClass: true, branchLikely: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBLTZL(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) < 0, isBranchClass: true, branchLikely: true, branchTarget: branchTargetFrom(pc, d.imm)}
}
func opBGEZL(c *CPU, d decoded, pc uint64) outcome {
	return outcome{branch: int64(c.GetReg(d.rs)) >= 0, isBranchClass: true, branchLikely: true, branchTarget: branchTargetFrom(pc, d.imm)}
}

// Loads and stores. Address is computed in EX; DC performs the cache
// access, per spec.md section 4.1's stage list.
func memAddrOf(c *CPU, d decoded) uint64 {
	return c.GetReg(d.rs) + uint64(d.imm)
}

func opLB(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memByte, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opLBU(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memByteU, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opLH(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memHalf, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opLHU(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memHalfU, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opLW(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memWord, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opLWU(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memWordU, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opLD(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memDouble, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt}
}
func opSB(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memByte, memStore: true, memAddr: uint32(memAddrOf(c, d)), storeVal: c.GetReg(d.rt)}
}
func opSH(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memHalf, memStore: true, memAddr: uint32(memAddrOf(c, d)), storeVal: c.GetReg(d.rt)}
}
func opSW(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memWord, memStore: true, memAddr: uint32(memAddrOf(c, d)), storeVal: c.GetReg(d.rt)}
}
func opSD(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memDouble, memStore: true, memAddr: uint32(memAddrOf(c, d)), storeVal: c.GetReg(d.rt)}
}

// FP loads/stores move a full GPR-sized value between memory and an FP
// register; the actual FPRegs write happens in WB via writeIsFP.
func opLWC1(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memWord, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt, writeIsFP: true}
}
func opLDC1(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memDouble, memAddr: uint32(memAddrOf(c, d)), writeReg: d.rt, writeIsFP: true}
}
func opSWC1(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memWord, memStore: true, memAddr: uint32(memAddrOf(c, d)), storeVal: c.FPRegs[d.rt&0x1F]}
}
func opSDC1(c *CPU, d decoded, pc uint64) outcome {
	return outcome{mem: memDouble, memStore: true, memAddr: uint32(memAddrOf(c, d)), storeVal: c.FPRegs[d.rt&0x1F]}
}

// CACHE implements the eight cache-maintenance variants of spec.md
// section 4.4, selected by the rt field the way real hardware encodes
// the cache-op/cache-select pair.
func opCACHE(c *CPU, d decoded, pc uint64) outcome {
	vaddr := uint32(memAddrOf(c, d))
	op := d.rt >> 2
	isData := d.rt&0x3 == 1 || d.rt&0x3 == 3
	switch op {
	case 0: // Index Invalidate
		if isData {
			c.DCache.IndexInvalidate(vaddr)
		} else {
			c.ICache.IndexInvalidate(vaddr)
		}
	case 1: // Index Load Tag (debug-console only consumer; no-op here)
	case 2: // Index Store Tag
	case 3: // Fill / Create Dirty Exclusive
		if isData {
			c.DCache.Fill(vaddr, c.Bus)
		} else {
			c.ICache.Fill(vaddr, vaddr, c.Bus)
		}
	case 4: // Hit Invalidate
		if isData {
			c.DCache.HitInvalidate(vaddr)
		} else {
			c.ICache.HitInvalidate(vaddr)
		}
	case 5: // Hit Writeback Invalidate
		if isData {
			c.DCache.HitWritebackInvalidate(vaddr, c.Bus)
		}
	case 6: // Hit Writeback
		if isData {
			c.DCache.HitWriteback(vaddr, c.Bus)
		}
	}
	return outcome{}
}

func opSYSCALL(c *CPU, d decoded, pc uint64) outcome { return excOutcome(ExcSys) }
func opBREAK(c *CPU, d decoded, pc uint64) outcome   { return excOutcome(ExcBp) }
