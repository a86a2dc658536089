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

// The pipeline: one instruction occupies each of IC/RF/EX/DC at a time,
// advancing a stage per Cycle. WB carries no timing-visible effect of
// its own in a single-issue in-order core, so it is folded into DC's
// retire step rather than kept as a fifth latch; the stage is still
// named in comments and reporting to match spec.md's stage list.
//
// Register writes commit when the instruction retires from DC (the
// cycle after EX for ALU/branch results, once the access has drained
// for loads) rather than being
// buffered in an explicit bypass network: since only one instruction
// occupies each stage per cycle, and stages are processed oldest-first
// within a single Advance call, a later instruction's EX always
// observes an already-committed value from anything ahead of it in the
// pipe except a load immediately behind it — exactly the one case
// spec.md calls out as needing an explicit 1-cycle stall.
package vr4300

type instr struct {
	valid       bool
	pc          uint64
	raw         uint32
	d           decoded
	isDelaySlot bool

	// fetchExc marks an IC-stage address error (unaligned PC), detected
	// before there is anything to decode; resolveEX synthesizes the
	// exception outcome directly instead of calling dispatch.
	fetchExc bool
}

type exSlot struct {
	instr
	o     outcome
	stall int
	ready bool // o has been computed
}

type dcSlot struct {
	instr
	o       outcome
	stall   int
	loadVal uint64
	busErr  bool
	ready   bool
}

type pipeline struct {
	fetchPC uint64
	primed  bool

	rf instr
	ex exSlot
	dc dcSlot

	squashRF bool // set by a not-taken branch-likely resolving in EX

	// pendingDelaySlot is set whenever a branch/jump-class instruction is
	// fetched, and consumed by the very next fetch to mark that
	// instruction's isDelaySlot bit for Cause.BD bookkeeping.
	pendingDelaySlot bool
}

// Advance runs exactly one cycle of the pipeline. It returns true if
// SignalForceExit was observed and the caller should stop simulating.
func (c *CPU) Advance() bool {
	if c.Signals&SignalForceExit != 0 {
		return true
	}
	if c.Signals&SignalColdReset != 0 {
		c.Reset()
		return false
	}

	p := &c.pipeline
	if !p.primed {
		p.fetchPC = c.PC
		p.primed = true
	}

	flush, redirectPC, hasRedirect := c.retireDC(p)

	if !flush {
		c.resolveEX(p)
	}

	if flush {
		p.ex = exSlot{}
		p.rf = instr{}
		c.PC = redirectPC
		p.fetchPC = redirectPC
	} else if hasRedirect {
		p.fetchPC = redirectPC
	}

	c.shiftStages(p, flush)
	return false
}

// retireDC completes the instruction sitting in DC, if its access (if
// any) has finished draining. It performs the actual register/CP0
// commit and, for an instruction carrying an exception, computes the
// vector PC and reports that everything younger must be flushed.
func (c *CPU) retireDC(p *pipeline) (flush bool, vectorPC uint64, hasVector bool) {
	if !p.dc.valid {
		return false, 0, false
	}
	if p.dc.stall > 0 {
		p.dc.stall--
		return false, 0, false
	}

	o := p.dc.o
	if o.hasExc {
		if o.excCode == ExcCpU {
			c.CP0[CP0Cause] = (c.CP0[CP0Cause] &^ (0x3 << CauseCEShift)) | (o.coUnit << CauseCEShift)
		}
		if o.badVAddr != 0 {
			c.CP0[CP0BadVAddr] = uint64(o.badVAddr)
		}
		vec := c.RaiseException(o.excCode, p.dc.pc, p.dc.isDelaySlot, o.refillVector)
		p.dc = dcSlot{}
		return true, vec, true
	}

	if o.mem != memNone && !o.memStore {
		if o.writeIsFP {
			c.FPRegs[o.writeReg&0x1F] = p.dc.loadVal
		} else {
			c.SetReg(o.writeReg, p.dc.loadVal)
		}
	} else if o.hasWrite {
		if o.writeIsFP {
			c.FPRegs[o.writeReg&0x1F] = o.writeVal
		} else {
			c.SetReg(o.writeReg, o.writeVal)
		}
	}

	if o.hasHI {
		c.HI = o.hiVal
	}
	if o.hasLO {
		c.LO = o.loVal
	}
	if o.hasCP0Write {
		c.WriteCP0(o.cp0Reg, o.cp0Val)
	}
	switch o.tlb {
	case tlbOpRead:
		c.TLBRead()
	case tlbOpWriteIndexed:
		c.TLBWriteIndexed()
	case tlbOpWriteRandom:
		c.TLBWriteRandom()
	case tlbOpProbe:
		c.TLBProbe()
	}
	if o.hasERET {
		c.CP0[CP0Status] &^= StatusEXL
		c.LLbit = false
	}
	if o.hasFCR31Write {
		c.FCR31 = o.fcr31Val
	}

	p.dc = dcSlot{}
	return false, 0, false
}

// resolveEX executes the instruction sitting in EX (once, the first
// cycle it is seen there) and, for a load/store, kicks off the DC
// access immediately so that dcSlot.stall reflects any cache-miss
// latency from the moment DC is entered.
func (c *CPU) resolveEX(p *pipeline) {
	p.squashRF = false
	if !p.ex.valid {
		return
	}
	if !p.ex.ready {
		if p.ex.fetchExc {
			p.ex.o = outcome{hasExc: true, excCode: ExcAdEL, badVAddr: uint32(p.ex.pc)}
		} else {
			p.ex.o = dispatch(c, p.ex.d, p.ex.pc)
		}
		p.ex.stall = p.ex.o.latency
		p.ex.ready = true

		switch {
		case p.ex.o.branchLikely && !branchTaken(p.ex.o):
			p.squashRF = true
		case branchTaken(p.ex.o):
			p.fetchPC = p.ex.o.branchTarget
		}
	} else if p.ex.stall > 0 {
		p.ex.stall--
	}
}

func branchTaken(o outcome) bool { return o.branch }

// shiftStages moves instructions one stage forward where downstream
// capacity allows, and fetches a new instruction into RF when it is
// empty. Stalls propagate backward: DC busy holds EX in place, EX busy
// (multi-cycle latency) holds RF in place.
func (c *CPU) shiftStages(p *pipeline, flushed bool) {
	if flushed {
		return
	}
	// retireDC always clears p.dc when it is no longer draining, so
	// remaining validity means it is still mid-access.
	dcBusy := p.dc.valid

	exReadyToLeave := p.ex.valid && p.ex.ready && p.ex.stall == 0
	if !dcBusy && exReadyToLeave {
		p.dc = c.enterDC(p.ex.instr, p.ex.o)
	}

	exBusy := p.ex.valid && (!p.ex.ready || p.ex.stall > 0)
	hazard := loadUseHazard(p)
	if !exBusy && !dcBusy {
		switch {
		case p.squashRF:
			p.ex = exSlot{}
		case hazard:
			p.ex = exSlot{}
		case p.rf.valid:
			p.ex = exSlot{instr: p.rf}
			p.rf = instr{}
		default:
			p.ex = exSlot{}
		}
	}

	if !exBusy && !dcBusy && !hazard && !p.rf.valid {
		if c.InterruptPending() {
			c.deliverInterrupt(p)
		} else {
			p.rf = c.fetch(p)
		}
	}
}

// deliverInterrupt is sampled at the fetch boundary: rather than
// fetching the next sequential instruction, redirect to the interrupt
// vector. Instructions already in flight in EX/DC complete normally,
// an approximation of precise interrupt delivery that is exact for the
// common case of no in-flight exception racing the same cycle.
func (c *CPU) deliverInterrupt(p *pipeline) {
	epc := p.fetchPC
	delaySlot := p.pendingDelaySlot
	p.pendingDelaySlot = false
	vec := c.RaiseException(ExcInt, epc, delaySlot, false)
	c.PC = vec
	p.fetchPC = vec
}

// loadUseHazard reports whether the instruction in EX is a load whose
// destination register the instruction waiting in RF needs, per
// spec.md's 1-cycle load-use stall. The check is structural (it fires
// regardless of whether the load ultimately hits or misses the cache).
func loadUseHazard(p *pipeline) bool {
	if !p.ex.valid || !p.ex.ready || p.ex.o.mem == memNone || p.ex.o.memStore {
		return false
	}
	if p.ex.o.writeIsFP || !p.rf.valid {
		return false
	}
	dest := p.ex.o.writeReg
	if dest == 0 {
		return false
	}
	rs, rt := readsGPR(p.rf.d)
	return (rs && p.rf.d.rs == dest) || (rt && p.rf.d.rt == dest)
}

// readsGPR reports whether an instruction's rs/rt fields are register
// reads (as opposed to, for rt, a destination register field).
func readsGPR(d decoded) (readsRS, readsRT bool) {
	readsRS = true
	switch d.opcode {
	case 0o17, 0o02, 0o03: // LUI, J, JAL
		readsRS = false
	}
	switch d.opcode {
	case 0o10, 0o11, 0o12, 0o13, 0o14, 0o15, 0o16, 0o17, // ADDI..LUI
		040, 041, 043, 044, 045, 047, 067, 061, 065: // loads
		readsRT = false
	default:
		readsRT = true
	}
	return
}

func (c *CPU) enterDC(in instr, o outcome) dcSlot {
	d := dcSlot{instr: in, o: o, ready: true}
	if o.hasExc || o.mem == memNone {
		return d
	}

	size := o.mem.size()
	if o.memAddr%size != 0 {
		excCode := ExcAdEL
		if o.memStore {
			excCode = ExcAdES
		}
		d.o = outcome{hasExc: true, excCode: excCode, badVAddr: o.memAddr}
		return d
	}

	paddr, cached, excCode, refill, ok := translateAddress(c, o.memAddr, o.memStore)
	if !ok {
		d.o = outcome{hasExc: true, excCode: excCode, refillVector: refill, badVAddr: o.memAddr}
		return d
	}

	if o.memStore {
		stall, busErr := c.storeMem(paddr, o, cached)
		d.stall, d.busErr = stall, busErr
		if busErr {
			d.o = outcome{hasExc: true, excCode: ExcDBE, badVAddr: o.memAddr}
		}
		return d
	}

	val, stall, busErr := c.loadMem(paddr, o.mem, cached)
	d.loadVal, d.stall, d.busErr = val, stall, busErr
	if busErr {
		d.o = outcome{hasExc: true, excCode: ExcDBE, badVAddr: o.memAddr}
	}
	return d
}

func (c *CPU) loadMem(paddr uint32, kind memKind, cached bool) (uint64, int, bool) {
	aligned := paddr &^ 0x3
	word, stall, busErr := c.DCache.Load(aligned, c.Bus, !cached)
	if busErr {
		return 0, stall, true
	}
	switch kind {
	case memByte:
		shift := (3 - (paddr & 0x3)) * 8
		return uint64(int64(int8(byte(word >> shift)))), stall, false
	case memByteU:
		shift := (3 - (paddr & 0x3)) * 8
		return uint64(byte(word >> shift)), stall, false
	case memHalf:
		shift := (2 - (paddr & 0x2)) * 8
		return uint64(int64(int16(uint16(word >> shift)))), stall, false
	case memHalfU:
		shift := (2 - (paddr & 0x2)) * 8
		return uint64(uint16(word >> shift)), stall, false
	case memWordU:
		return uint64(word), stall, false
	case memDouble:
		hi, s2, err2 := c.DCache.Load(aligned+4, c.Bus, !cached)
		if err2 {
			return 0, stall + s2, true
		}
		return uint64(word)<<32 | uint64(hi), stall + s2, false
	default:
		return uint64(int64(int32(word))), stall, false
	}
}

func (c *CPU) storeMem(paddr uint32, o outcome, cached bool) (int, bool) {
	aligned := paddr &^ 0x3
	switch o.mem {
	case memByte:
		shift := (3 - (paddr & 0x3)) * 8
		mask := uint32(0xFF) << shift
		return c.DCache.Store(aligned, uint32(o.storeVal)<<shift, mask, c.Bus, !cached)
	case memHalf:
		shift := (2 - (paddr & 0x2)) * 8
		mask := uint32(0xFFFF) << shift
		return c.DCache.Store(aligned, uint32(o.storeVal)<<shift, mask, c.Bus, !cached)
	case memDouble:
		s1, e1 := c.DCache.Store(aligned, uint32(o.storeVal>>32), 0xFFFF_FFFF, c.Bus, !cached)
		if e1 {
			return s1, true
		}
		s2, e2 := c.DCache.Store(aligned+4, uint32(o.storeVal), 0xFFFF_FFFF, c.Bus, !cached)
		return s1 + s2, e2
	default:
		return c.DCache.Store(aligned, uint32(o.storeVal), 0xFFFF_FFFF, c.Bus, !cached)
	}
}

// fetch reads the next instruction word through the I-cache. A fetch
// that finds the bus unmapped simply returns a zero (NOP) word; the
// resulting garbage instruction is harmless since real N64 software
// never branches into unmapped space, and spec.md scopes bus-error
// delivery to data accesses and explicit CACHE/load/store traffic. An
// unaligned fetch PC, reachable via JR/JALR to a misaligned register
// value, is an IC-stage address error and is tagged here for EX to
// raise ExcAdEL, mirroring enterDC's equivalent check on the data side.
func (c *CPU) fetch(p *pipeline) instr {
	vaddr := uint32(p.fetchPC)
	delaySlot := p.pendingDelaySlot
	p.pendingDelaySlot = false

	if vaddr%4 != 0 {
		p.fetchPC += 4
		return instr{valid: true, pc: uint64(vaddr), isDelaySlot: delaySlot, fetchExc: true}
	}

	paddr, _, _, _, ok := translateAddress(c, vaddr, false)
	var raw uint32
	if ok {
		w, _, busErr := c.ICache.Fetch(vaddr, paddr, c.Bus)
		if !busErr {
			raw = w
		}
	}

	d := decode(raw)
	p.pendingDelaySlot = isBranchOpcode(d)
	p.fetchPC += 4
	return instr{valid: true, pc: uint64(vaddr), raw: raw, d: d, isDelaySlot: delaySlot}
}

// isBranchOpcode recognizes branch/jump encodings statically, from the
// decoded opcode/funct/rt fields alone, so the delay slot that follows
// can be tagged at fetch time without waiting for EX to resolve it.
func isBranchOpcode(d decoded) bool {
	switch d.opcode {
	case 0o02, 0o03, 0o04, 0o05, 0o06, 0o07, 024, 025, 026, 027:
		return true
	case 0o01: // REGIMM: BLTZ/BGEZ/BLTZL/BGEZL
		return d.rt <= 3
	case 0o00: // SPECIAL: JR/JALR
		return d.funct == 0o10 || d.funct == 0o11
	case 021: // COP1: BC1[F|T][L]
		return d.rs == 0x08
	}
	return false
}

func dispatch(c *CPU, d decoded, pc uint64) outcome {
	if h := primaryTable[d.opcode]; h != nil {
		return h(c, d, pc)
	}
	return excOutcome(ExcRI)
}
