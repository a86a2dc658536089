/*
 * vr4300sim - Host-side error kinds.
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

// Package hosterr distinguishes host-side configuration and I/O failures
// from architectural CPU exceptions. Architectural exceptions (TLB miss,
// overflow, bus error delivered to the pipeline, ...) are normal emulated
// behavior and are never represented with this package.
package hosterr

import "fmt"

// Kind tags a host-side failure.
type Kind int

const (
	// ConfigError indicates a malformed or contradictory configuration.
	ConfigError Kind = iota + 1
	// IoError indicates a failure reading or writing backing storage.
	IoError
	// UnsupportedFeature indicates a feature the host chose not to implement.
	UnsupportedFeature
	// InternalInvariantViolated indicates a bug in the simulator, not the ROM.
	InternalInvariantViolated
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "config error"
	case IoError:
		return "io error"
	case UnsupportedFeature:
		return "unsupported feature"
	case InternalInvariantViolated:
		return "internal invariant violated"
	default:
		return "unknown host error"
	}
}

// Error is a host-side error carrying a Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds a host-side Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Fatal panics with an InternalInvariantViolated error. It indicates a bug
// in the emulator core, never a property of the ROM being run.
func Fatal(msg string) {
	panic(New(InternalInvariantViolated, msg))
}
