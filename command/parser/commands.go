/*
 * vr4300sim - Debug console commands.
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

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cmd "github.com/rcornwell/vr4300sim/command/command"
	"github.com/rcornwell/vr4300sim/emu/vr4300"
)

var gprNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "s8", "ra",
}

var cp0Names = [32]string{
	"index", "random", "entrylo0", "entrylo1", "context", "pagemask", "wired", "res7",
	"badvaddr", "count", "entryhi", "compare", "status", "cause", "epc", "prid",
	"config", "lladdr", "watchlo", "watchhi", "xcontext", "res21", "res22", "res23",
	"res24", "res25", "parityerror", "cacheerr", "taglo", "taghi", "errorepc", "res31",
}

func gprIndex(name string) (int, bool) {
	if strings.HasPrefix(name, "r") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 0 && n < 32 {
			return n, true
		}
	}
	for i, n := range gprNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func cp0Index(name string) (int, bool) {
	for i, n := range cp0Names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// examine <pc|hi|lo|r0..r31|<name>|cp0reg <name>|tlb [n]|cache i|cache d>
func examine(line *cmdLine, target *cmd.Target) (bool, error) {
	c := target.Sched.CPU()
	what := line.getWord()
	switch what {
	case "":
		return false, errors.New("examine requires an argument")
	case "pc":
		fmt.Printf("PC = %#016x\n", c.PC)
	case "hi":
		fmt.Printf("HI = %#016x\n", c.HI)
	case "lo":
		fmt.Printf("LO = %#016x\n", c.LO)
	case "cp0reg":
		reg := line.getWord()
		idx, ok := cp0Index(reg)
		if !ok {
			return false, errors.New("unknown cp0 register: " + reg)
		}
		fmt.Printf("CP0.%s = %#016x\n", cp0Names[idx], c.CP0[idx])
	case "tlb":
		return false, examineTLB(line, c)
	case "cache":
		return false, examineCache(line, c)
	default:
		idx, ok := gprIndex(what)
		if !ok {
			return false, errors.New("unknown register: " + what)
		}
		fmt.Printf("%s = %#016x\n", gprNames[idx], c.GetReg(uint(idx)))
	}
	return false, nil
}

func examineComplete(line *cmdLine) []string {
	options := []string{"pc", "hi", "lo", "cp0reg", "tlb", "cache"}
	options = append(options, gprNames[:]...)
	word := line.getWord()
	matches := []string{}
	for _, o := range options {
		if strings.HasPrefix(o, word) {
			matches = append(matches, o+" ")
		}
	}
	return matches
}

func examineTLB(line *cmdLine, c *vr4300.CPU) error {
	arg := line.getWord()
	if arg == "" {
		for i := range c.TLB {
			printTLBEntry(i, &c.TLB[i])
		}
		return nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n >= vr4300.TLBEntries {
		return errors.New("invalid TLB index: " + arg)
	}
	printTLBEntry(n, &c.TLB[n])
	return nil
}

func printTLBEntry(i int, e *vr4300.TLBEntry) {
	fmt.Printf("TLB[%2d] VPN2=%#08x ASID=%#02x G=%v PFN0=%#08x V0=%v D0=%v PFN1=%#08x V1=%v D1=%v\n",
		i, e.VPN2, e.ASID, e.G, e.PFN0, e.V0, e.D0, e.PFN1, e.V1, e.D1)
}

func examineCache(line *cmdLine, _ *vr4300.CPU) error {
	which := line.getWord()
	switch which {
	case "i", "icache":
		fmt.Println("instruction cache: 512 lines x 32 bytes, virtually indexed/physically tagged")
	case "d", "dcache":
		fmt.Println("data cache: 512 lines x 16 bytes, write-back")
	default:
		return errors.New("examine cache requires i or d")
	}
	return nil
}

// deposit <r0..r31|pc|hi|lo> <hex value>
func deposit(line *cmdLine, target *cmd.Target) (bool, error) {
	c := target.Sched.CPU()
	what := line.getWord()
	valStr := line.getWord()
	if what == "" || valStr == "" {
		return false, errors.New("deposit requires a register and a value")
	}
	val, err := strconv.ParseUint(strings.TrimPrefix(valStr, "0x"), 16, 64)
	if err != nil {
		return false, errors.New("deposit value must be hex: " + valStr)
	}

	switch what {
	case "pc":
		c.PC = val
	case "hi":
		c.HI = val
	case "lo":
		c.LO = val
	default:
		idx, ok := gprIndex(what)
		if !ok {
			return false, errors.New("unknown register: " + what)
		}
		c.SetReg(uint(idx), val)
	}
	return false, nil
}

// step [n] advances the scheduler n cycles (default 1) and halts.
func step(line *cmdLine, target *cmd.Target) (bool, error) {
	n := uint64(1)
	if arg := line.getWord(); arg != "" {
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return false, errors.New("step count must be a number: " + arg)
		}
		n = v
	}
	target.Sched.Run(n)
	fmt.Printf("PC = %#016x, cycles = %d\n", target.Sched.CPU().PC, target.Sched.CPU().Cycles())
	return false, nil
}

// continue free-runs the scheduler in the background so "stop" typed at
// the same prompt can interrupt it.
func cont(_ *cmdLine, target *cmd.Target) (bool, error) {
	go target.Sched.Run(0)
	return false, nil
}

func stop(_ *cmdLine, target *cmd.Target) (bool, error) {
	target.Sched.Stop()
	return false, nil
}

func quit(_ *cmdLine, _ *cmd.Target) (bool, error) {
	return true, nil
}

// show pipeline | show cycles
func show(line *cmdLine, target *cmd.Target) (bool, error) {
	c := target.Sched.CPU()
	what := line.getWord()
	switch what {
	case "", "pipeline":
		fmt.Printf("PC = %#016x  cycles = %d  Status = %#016x  Cause = %#016x\n",
			c.PC, c.Cycles(), c.CP0[vr4300.CP0Status], c.CP0[vr4300.CP0Cause])
	case "cycles":
		fmt.Printf("cycles = %d\n", c.Cycles())
	default:
		return false, errors.New("unknown show target: " + what)
	}
	return false, nil
}

func showComplete(line *cmdLine) []string {
	options := []string{"pipeline", "cycles"}
	word := line.getWord()
	matches := []string{}
	for _, o := range options {
		if strings.HasPrefix(o, word) {
			matches = append(matches, o+" ")
		}
	}
	return matches
}
