/*
 * vr4300sim - Physical bus: routes addresses to device callbacks.
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

// Package bus implements the physical address router described in
// spec.md section 4.1: a device registers a base address and a size, and
// the bus dispatches word reads and masked word writes to it by offset.
package bus

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/rcornwell/vr4300sim/emu/hosterr"
)

// Device is the callback pair a bus endpoint must provide. Offset is the
// address with the device's base subtracted; devices never see the
// physical base address directly, matching cen64's opaque-handle MMIO
// convention (read_vi_regs/write_vi_regs take an offset, not an address).
type Device interface {
	ReadWord(offset uint32) uint32
	WriteWord(offset uint32, value, mask uint32)
}

type region struct {
	name string
	base uint32
	size uint32
	dev  Device
}

// Bus owns the registered device windows and answers word transactions.
type Bus struct {
	regions []region
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Unregister removes any existing window registered under name, so a
// later Register call can rebind it to a new address, matching the
// config file's "re-stating a model line moves it" semantics.
func (b *Bus) Unregister(name string) {
	kept := b.regions[:0]
	for _, r := range b.regions {
		if r.name != name {
			kept = append(kept, r)
		}
	}
	b.regions = kept
}

// Register binds dev to [base, base+size) under name. Overlapping
// registrations are a configuration error, per spec.md section 4.1.
func (b *Bus) Register(name string, base, size uint32, dev Device) error {
	newEnd := uint64(base) + uint64(size)
	for _, r := range b.regions {
		if r.name == name {
			continue
		}
		existingEnd := uint64(r.base) + uint64(r.size)
		if uint64(base) < existingEnd && newEnd > uint64(r.base) {
			return hosterr.New(hosterr.ConfigError,
				fmt.Sprintf("bus: %s [%#x,%#x) overlaps %s [%#x,%#x)",
					name, base, base+size, r.name, r.base, r.base+r.size))
		}
	}
	b.Unregister(name)
	b.regions = append(b.regions, region{name: name, base: base, size: size, dev: dev})
	sort.Slice(b.regions, func(i, j int) bool { return b.regions[i].base < b.regions[j].base })
	return nil
}

// find returns the region containing addr, or nil.
func (b *Bus) find(addr uint32) *region {
	for i := range b.regions {
		r := &b.regions[i]
		if addr >= r.base && addr < r.base+r.size {
			return r
		}
	}
	return nil
}

// ReadWord performs a 32-bit word-aligned physical read. The second
// return value is true on a bus error (no device present at addr), which
// the pipeline turns into IBE/DBE per spec.md section 7.
func (b *Bus) ReadWord(addr uint32) (uint32, bool) {
	addr &^= 3
	r := b.find(addr)
	if r == nil {
		slog.Debug("bus: read from unmapped address", "addr", fmt.Sprintf("%#x", addr))
		return 0, true
	}
	return r.dev.ReadWord(addr - r.base), false
}

// WriteWord performs a masked 32-bit word-aligned physical write:
// reg = (reg &^ mask) | (value & mask), atomically from the bus's
// perspective, matching spec.md section 6 and the memory.PutWordMask
// masked-write idiom this bus generalizes from a single flat array to
// many registered windows.
func (b *Bus) WriteWord(addr, value, mask uint32) bool {
	addr &^= 3
	r := b.find(addr)
	if r == nil {
		slog.Debug("bus: write to unmapped address", "addr", fmt.Sprintf("%#x", addr))
		return true
	}
	r.dev.WriteWord(addr-r.base, value, mask)
	return false
}
