/*
 * vr4300sim - Flat word-addressed backing store.
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

// Package ram is a stand-in bus endpoint for RDRAM, cartridge ROM, and
// PIF ROM. These are "external collaborators, fixed only at their
// interfaces" per spec.md section 1: the core only needs something that
// answers word reads and masked word writes at a physical address, the
// same shape as emu/memory's flat array.
package ram

// Ram is a flat array of 32-bit words, addressed by byte offset.
type Ram struct {
	words []uint32
}

// New allocates a Ram of sizeBytes, rounded up to a whole word.
func New(sizeBytes uint32) *Ram {
	return &Ram{words: make([]uint32, (sizeBytes+3)/4)}
}

// ReadWord implements bus.Device.
func (r *Ram) ReadWord(offset uint32) uint32 {
	idx := offset / 4
	if int(idx) >= len(r.words) {
		return 0
	}
	return r.words[idx]
}

// WriteWord implements bus.Device.
func (r *Ram) WriteWord(offset uint32, value, mask uint32) {
	idx := offset / 4
	if int(idx) >= len(r.words) {
		return
	}
	r.words[idx] = (r.words[idx] &^ mask) | (value & mask)
}

// LoadImage copies a ROM image into the backing store starting at byte 0,
// used to seed PIF/cartridge content for boot tests.
func (r *Ram) LoadImage(data []byte) {
	for i := 0; i+4 <= len(data); i += 4 {
		word := uint32(data[i])<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3])
		idx := i / 4
		if idx >= len(r.words) {
			break
		}
		r.words[idx] = word
	}
}

// Size returns the usable size in bytes.
func (r *Ram) Size() uint32 {
	return uint32(len(r.words)) * 4
}
