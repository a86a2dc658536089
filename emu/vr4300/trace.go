/*
 * vr4300sim - Debug trace flags.
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

import "errors"

// Trace category bits, toggled through the DEBUG CPU configuration line
// and reported by Traced. The pipeline, cache and TLB code do not
// consult them and emit no trace output.
const (
	traceDisabled = 0

	TracePipeline = 1 << iota
	TraceCache
	TraceTLB
	TraceExc
)

var traceOption = map[string]int{
	"PIPELINE": TracePipeline,
	"CACHE":    TraceCache,
	"TLB":      TraceTLB,
	"EXC":      TraceExc,
}

var traceMsk = traceDisabled

// Debug enables one trace category by name.
func Debug(opt string) error {
	flag, ok := traceOption[opt]
	if !ok {
		return errors.New("vr4300 debug option invalid: " + opt)
	}
	traceMsk |= flag
	return nil
}

// Traced reports whether category is currently enabled.
func Traced(category int) bool {
	return traceMsk&category != 0
}
