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

// Package models builds the fixed set of bus-endpoint collaborators
// (RDRAM, cartridge and PIF ROM stand-ins, MI, and the VI/AI/SI/PI/DP
// stubs) and registers each against the configuration file's model
// table (config/configparser), so a config line such as
// `RDRAM 00000000 size=400000` binds a device kind to a physical
// address the way a per-peripheral config callback binds a channel
// device to a device number.
package models

import (
	"strconv"

	"github.com/rcornwell/vr4300sim/config/configparser"
	"github.com/rcornwell/vr4300sim/emu/bus"
	"github.com/rcornwell/vr4300sim/emu/extdevice"
	"github.com/rcornwell/vr4300sim/emu/mi"
	"github.com/rcornwell/vr4300sim/emu/ram"
)

// Machine bundles every collaborator this core's bus talks to.
type Machine struct {
	Bus  *bus.Bus
	RAM  *ram.Ram
	Cart *ram.Ram
	PIF  *ram.Ram
	MI   *mi.MI
	VI   *extdevice.VI
	AI   *extdevice.Stub
	SI   *extdevice.Stub
	PI   *extdevice.Stub
	DP   *extdevice.Stub
}

// NewMachine builds a machine with architectural reset-time defaults
// and registers every device at its default physical address, per
// spec.md section 6 / emu/bus/map.go.
func NewMachine() (*Machine, error) {
	m := &Machine{
		Bus:  bus.New(),
		RAM:  ram.New(bus.RDRAMSize),
		Cart: ram.New(bus.CartSize),
		PIF:  ram.New(bus.PIFSize),
		MI:   mi.New(),
		AI:   extdevice.NewStub(4),
		SI:   extdevice.NewStub(8),
		PI:   extdevice.NewStub(13),
		DP:   extdevice.NewStub(8),
	}
	m.VI = extdevice.NewVI(m.MI)

	regs := []struct {
		name string
		base uint32
		size uint32
		dev  bus.Device
	}{
		{"RDRAM", bus.RDRAMBase, bus.RDRAMSize, m.RAM},
		{"DP", bus.DPCmdBase, bus.DPCmdSize, m.DP},
		{"MI", bus.MIBase, bus.MISize, m.MI},
		{"VI", bus.VIBase, bus.VISize, m.VI},
		{"AI", bus.AIBase, bus.AISize, m.AI},
		{"PI", bus.PIBase, bus.PISize, m.PI},
		{"SI", bus.SIBase, bus.SISize, m.SI},
		{"CART", bus.CartBase, bus.CartSize, m.Cart},
		{"PIF", bus.PIFBase, bus.PIFSize, m.PIF},
	}
	for _, r := range regs {
		if err := m.Bus.Register(r.name, r.base, r.size, r.dev); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// active is the machine the config-file model callbacks below operate
// on; set by main before configparser.LoadConfigFile runs.
var active *Machine

// SetActive designates the machine that subsequent device model config
// lines (RDRAM, CART, PIF, MI, VI, AI, SI, PI, DP) reconfigure. A config file may reassign a device's base address
// without changing which collaborator answers for it.
func SetActive(m *Machine) {
	active = m
}

func init() {
	configparser.RegisterModel("RDRAM", configparser.TypeModel, rebind("RDRAM", func() (bus.Device, uint32) { return active.RAM, active.RAM.Size() }))
	configparser.RegisterModel("CART", configparser.TypeModel, rebind("CART", func() (bus.Device, uint32) { return active.Cart, active.Cart.Size() }))
	configparser.RegisterModel("PIF", configparser.TypeModel, rebind("PIF", func() (bus.Device, uint32) { return active.PIF, active.PIF.Size() }))
	configparser.RegisterModel("MI", configparser.TypeModel, rebind("MI", func() (bus.Device, uint32) { return active.MI, bus.MISize }))
	configparser.RegisterModel("VI", configparser.TypeModel, rebind("VI", func() (bus.Device, uint32) { return active.VI, bus.VISize }))
	configparser.RegisterModel("AI", configparser.TypeModel, rebind("AI", func() (bus.Device, uint32) { return active.AI, bus.AISize }))
	configparser.RegisterModel("SI", configparser.TypeModel, rebind("SI", func() (bus.Device, uint32) { return active.SI, bus.SISize }))
	configparser.RegisterModel("PI", configparser.TypeModel, rebind("PI", func() (bus.Device, uint32) { return active.PI, bus.PISize }))
	configparser.RegisterModel("DP", configparser.TypeModel, rebind("DP", func() (bus.Device, uint32) { return active.DP, bus.DPCmdSize }))
}

// rebind returns a configparser model-create callback that re-registers
// name at a config-supplied address. options may carry `size=<hex>` to
// shrink the window (e.g. a smaller cartridge image); otherwise the
// collaborator's default size is kept.
func rebind(name string, lookup func() (bus.Device, uint32)) func(uint32, string, []configparser.Option) error {
	return func(addr uint32, _ string, options []configparser.Option) error {
		dev, size := lookup()
		for _, opt := range options {
			if opt.Name == "size" && opt.EqualOpt != "" {
				if v, err := strconv.ParseUint(opt.EqualOpt, 16, 32); err == nil {
					size = uint32(v)
				}
			}
		}
		return active.Bus.Register(name, addr, size, dev)
	}
}
