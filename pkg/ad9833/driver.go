/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package ad9833

import (
	"jinr.ru/greenlab/go-dds/pkg/dbus"
	"jinr.ru/greenlab/go-dds/pkg/log"
)

// Registers mirrors the last values written to the chip. The AD9833 has
// no readback path, so this mirror is the only record of device state.
type Registers struct {
	Ctrl  uint16
	Freq  [2]uint32
	Phase [2]uint16
}

// Driver drives a single AD9833 waveform generator over a chip-select
// scoped bus. It is not safe for concurrent use: the chip-select line has
// a single owner and callers must serialize access themselves.
type Driver struct {
	bus    dbus.Bus
	mclock uint32
	regs   Registers
}

// NewDriver creates a driver for a generator clocked at mclock Hz and
// brings the chip into a known idle state: reset pulsed, both frequency
// and both phase register pairs zeroed, sine output selected.
func NewDriver(bus dbus.Bus, mclock uint32) (*Driver, error) {
	d := &Driver{
		bus:    bus,
		mclock: mclock,
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// MClock returns the master clock frequency in Hz.
func (d *Driver) MClock() uint32 {
	return d.mclock
}

// Registers returns a snapshot of the register mirror.
func (d *Driver) Registers() Registers {
	return d.regs
}

// Init writes the power-up sequence as a single transaction: control word
// with reset asserted, zeros into FREQ0/FREQ1/PHASE0/PHASE1, control word
// with reset cleared.
func (d *Driver) Init() error {
	log.Debug("Initializing generator: mclock: %d", d.mclock)
	f0lsb, f0msb := SplitFrequencyWord(0, 0)
	f1lsb, f1msb := SplitFrequencyWord(0, 1)
	words := []uint16{
		CtrlB28 | CtrlReset,
		f0lsb, f0msb,
		f1lsb, f1msb,
		PhaseWireWord(0, 0),
		PhaseWireWord(0, 1),
		CtrlB28,
	}
	if err := d.bus.Tx(words...); err != nil {
		return err
	}
	d.regs = Registers{Ctrl: CtrlB28}
	return nil
}

// SetFrequency loads the given frequency register. The chip requires the
// fixed order control word, low half-word, high half-word; all three go
// out in one transaction so the 28-bit load cannot be torn. With applyNow
// the same control word flips the active-register selector, otherwise the
// value is staged in the inactive register for a later glitch-free switch.
func (d *Driver) SetFrequency(hz float64, reg int, applyNow bool) error {
	if reg != 0 && reg != 1 {
		return ErrBadRegister{Index: reg}
	}
	word, err := EncodeFrequencyWord(hz, d.mclock)
	if err != nil {
		return err
	}
	ctrl := d.regs.Ctrl | CtrlB28
	if applyNow {
		if reg == 1 {
			ctrl |= CtrlFSelect
		} else {
			ctrl &^= CtrlFSelect
		}
	}
	lsb, msb := SplitFrequencyWord(word, reg)
	log.Debug("Setting frequency: hz: %f reg: %d word: %d apply: %t", hz, reg, word, applyNow)
	if err := d.bus.Tx(ctrl, lsb, msb); err != nil {
		return err
	}
	d.regs.Ctrl = ctrl
	d.regs.Freq[reg] = word
	return nil
}

// SetPhase loads the given phase register. Phase wraps modulo a full
// cycle, so any input is accepted. With applyNow the control word flips
// the phase selector first; a deferred load is a single phase word since
// the phase registers have no multi-word load sequence to guard.
func (d *Driver) SetPhase(radians float64, reg int, applyNow bool) error {
	if reg != 0 && reg != 1 {
		return ErrBadRegister{Index: reg}
	}
	word := EncodePhaseWord(radians)
	wire := PhaseWireWord(word, reg)
	log.Debug("Setting phase: radians: %f reg: %d word: %d apply: %t", radians, reg, word, applyNow)
	if applyNow {
		ctrl := d.regs.Ctrl
		if reg == 1 {
			ctrl |= CtrlPSelect
		} else {
			ctrl &^= CtrlPSelect
		}
		if err := d.bus.Tx(ctrl, wire); err != nil {
			return err
		}
		d.regs.Ctrl = ctrl
	} else {
		if err := d.bus.Tx(wire); err != nil {
			return err
		}
	}
	d.regs.Phase[reg] = word
	return nil
}

// SetWaveform selects the output waveshape, preserving the reset, sleep
// and register-selector bits of the control word.
func (d *Driver) SetWaveform(w Waveform) error {
	bits, ok := waveformBits[w]
	if !ok {
		return ErrBadWaveform{Name: w.String()}
	}
	ctrl := d.regs.Ctrl&^waveformMask | bits
	log.Debug("Setting waveform: %s", w)
	if err := d.bus.Tx(ctrl); err != nil {
		return err
	}
	d.regs.Ctrl = ctrl
	return nil
}

// SetSleep powers down the DAC and/or the internal clock, preserving all
// unrelated control word bits.
func (d *Driver) SetSleep(m SleepMode) error {
	bits, ok := sleepBits[m]
	if !ok {
		return ErrBadSleepMode{Name: m.String()}
	}
	ctrl := d.regs.Ctrl&^sleepMask | bits
	log.Debug("Setting sleep mode: %s", m)
	if err := d.bus.Tx(ctrl); err != nil {
		return err
	}
	d.regs.Ctrl = ctrl
	return nil
}

// Reset pulses the reset bit in one transaction. The datasheet leaves the
// chip-side frequency/phase contents unspecified after reset, so callers
// reload them if exact output matters; the mirror keeps the last-written
// words untouched.
func (d *Driver) Reset() error {
	log.Debug("Resetting generator")
	assert := d.regs.Ctrl | CtrlReset
	release := d.regs.Ctrl &^ CtrlReset
	if err := d.bus.Tx(assert, release); err != nil {
		return err
	}
	d.regs.Ctrl = release
	return nil
}

// Restore reprograms the chip from a previously captured mirror. Used by
// the control server to bring hardware back in line with persisted state
// after a daemon restart.
func (d *Driver) Restore(regs Registers) error {
	log.Debug("Restoring generator state: ctrl: %#04x", regs.Ctrl)
	ctrl := regs.Ctrl | CtrlB28
	f0lsb, f0msb := SplitFrequencyWord(regs.Freq[0], 0)
	f1lsb, f1msb := SplitFrequencyWord(regs.Freq[1], 1)
	words := []uint16{
		ctrl,
		f0lsb, f0msb,
		f1lsb, f1msb,
		PhaseWireWord(regs.Phase[0], 0),
		PhaseWireWord(regs.Phase[1], 1),
	}
	if err := d.bus.Tx(words...); err != nil {
		return err
	}
	regs.Ctrl = ctrl
	d.regs = regs
	return nil
}

// FrequencyHz returns the mirrored output frequency of a register in Hz.
func (d *Driver) FrequencyHz(reg int) float64 {
	return DecodeFrequencyWord(d.regs.Freq[reg&1], d.mclock)
}

// PhaseRadians returns the mirrored phase offset of a register in radians.
func (d *Driver) PhaseRadians(reg int) float64 {
	return DecodePhaseWord(d.regs.Phase[reg&1])
}

// ActiveFrequencyRegister returns the index selected by the control word.
func (d *Driver) ActiveFrequencyRegister() int {
	if d.regs.Ctrl&CtrlFSelect != 0 {
		return 1
	}
	return 0
}

// ActivePhaseRegister returns the index selected by the control word.
func (d *Driver) ActivePhaseRegister() int {
	if d.regs.Ctrl&CtrlPSelect != 0 {
		return 1
	}
	return 0
}

// Waveform returns the waveshape encoded in the mirrored control word.
func (d *Driver) Waveform() Waveform {
	bits := d.regs.Ctrl & waveformMask
	for w, b := range waveformBits {
		if b == bits {
			return w
		}
	}
	// OPBITEN+MODE combinations outside the table are reserved
	return Sine
}

// Sleep returns the sleep mode encoded in the mirrored control word.
func (d *Driver) Sleep() SleepMode {
	bits := d.regs.Ctrl & sleepMask
	for m, b := range sleepBits {
		if b == bits {
			return m
		}
	}
	return SleepNone
}
