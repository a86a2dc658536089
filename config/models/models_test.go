/*
 * vr4300sim - Bus device model registrations.
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

package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/vr4300sim/config/configparser"
	"github.com/rcornwell/vr4300sim/emu/bus"
)

func TestNewMachineRegistersDefaultWindows(t *testing.T) {
	m, err := NewMachine()
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}

	if _, busErr := m.Bus.ReadWord(bus.RDRAMBase); busErr {
		t.Fatal("RDRAM window should be mapped at reset")
	}
	if _, busErr := m.Bus.ReadWord(bus.MIBase); busErr {
		t.Fatal("MI window should be mapped at reset")
	}
	if _, busErr := m.Bus.ReadWord(bus.CartBase); busErr {
		t.Fatal("CART window should be mapped at reset")
	}
}

func TestConfigFileRebindsDeviceAddress(t *testing.T) {
	m, err := NewMachine()
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	SetActive(m)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vr4300.cfg")
	// Move CART out of its architectural default window, with a window
	// small enough not to overlap PIF.
	cfg := "CART 18000000 size=400000\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := configparser.LoadConfigFile(cfgPath); err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if _, busErr := m.Bus.ReadWord(0x1800_0000); busErr {
		t.Fatal("CART should be mapped at its config-supplied address")
	}
	if _, busErr := m.Bus.ReadWord(bus.CartBase); !busErr {
		t.Fatal("CART's old default window should be freed after rebind")
	}
}
