/*
 * vr4300sim - Debug options configuration.
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

// Package debugconfig wires the "DEBUG" configuration line to the
// trace-category flags each package exposes, so a config file can turn
// on pipeline/cache/TLB tracing with a line such as
// `DEBUG CPU pipeline, cache`.
package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/vr4300sim/config/configparser"
	"github.com/rcornwell/vr4300sim/emu/vr4300"
)

func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

func setDebug(_ uint32, device string, options []config.Option) error {
	switch strings.ToUpper(device) {
	case "CPU":
		for _, opt := range options {
			if err := applyDebug(strings.ToUpper(opt.Name)); err != nil {
				return err
			}
			for _, value := range opt.Value {
				if err := applyDebug(strings.ToUpper(*value)); err != nil {
					return err
				}
			}
		}
	default:
		return errors.New("debug option invalid: " + device)
	}
	return nil
}

func applyDebug(opt string) error {
	return vr4300.Debug(opt)
}
