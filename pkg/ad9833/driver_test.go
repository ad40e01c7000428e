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
	"errors"
	"math"
	"reflect"
	"testing"
)

// fakeBus records every transaction as the word slice it was given.
type fakeBus struct {
	txs [][]uint16
	err error
}

func (b *fakeBus) Tx(words ...uint16) error {
	if b.err != nil {
		return b.err
	}
	tx := make([]uint16, len(words))
	copy(tx, words)
	b.txs = append(b.txs, tx)
	return nil
}

func (b *fakeBus) Close() error {
	return nil
}

func (b *fakeBus) reset() {
	b.txs = nil
}

func newTestDriver(t *testing.T) (*Driver, *fakeBus) {
	t.Helper()
	bus := &fakeBus{}
	d, err := NewDriver(bus, testMClock)
	if err != nil {
		t.Fatalf("NewDriver: %s", err)
	}
	bus.reset()
	return d, bus
}

func TestInitSequence(t *testing.T) {
	bus := &fakeBus{}
	if _, err := NewDriver(bus, testMClock); err != nil {
		t.Fatalf("NewDriver: %s", err)
	}
	want := [][]uint16{{
		CtrlB28 | CtrlReset,
		0x4000, 0x4000,
		0x8000, 0x8000,
		0xC000, 0xE000,
		CtrlB28,
	}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("init wrote %#v, want %#v", bus.txs, want)
	}
}

func TestSetFrequencyImmediate(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.SetFrequency(1000, 0, true); err != nil {
		t.Fatalf("SetFrequency: %s", err)
	}
	// control word, low half, high half as one transaction
	want := [][]uint16{{CtrlB28, 0x4000 | 10737, 0x4000}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("SetFrequency wrote %#v, want %#v", bus.txs, want)
	}
	if d.Registers().Freq[0] != 10737 {
		t.Errorf("mirror Freq[0] = %d, want 10737", d.Registers().Freq[0])
	}
	if d.ActiveFrequencyRegister() != 0 {
		t.Errorf("active frequency register = %d, want 0", d.ActiveFrequencyRegister())
	}
}

func TestSetFrequencySwitchesRegister(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.SetFrequency(440, 1, true); err != nil {
		t.Fatalf("SetFrequency: %s", err)
	}
	want := [][]uint16{{CtrlB28 | CtrlFSelect, 0x8000 | 4724, 0x8000}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("SetFrequency wrote %#v, want %#v", bus.txs, want)
	}
	if d.ActiveFrequencyRegister() != 1 {
		t.Errorf("active frequency register = %d, want 1", d.ActiveFrequencyRegister())
	}
}

func TestSetFrequencyDeferred(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.SetFrequency(1000, 1, false); err != nil {
		t.Fatalf("SetFrequency: %s", err)
	}
	// the inactive register is loaded but the selector stays put
	want := [][]uint16{{CtrlB28, 0x8000 | 10737, 0x8000}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("SetFrequency wrote %#v, want %#v", bus.txs, want)
	}
	if d.ActiveFrequencyRegister() != 0 {
		t.Errorf("active frequency register = %d, want 0", d.ActiveFrequencyRegister())
	}
	if d.Registers().Freq[1] != 10737 {
		t.Errorf("mirror Freq[1] = %d, want 10737", d.Registers().Freq[1])
	}
}

func TestSetFrequencyOutOfRange(t *testing.T) {
	d, bus := newTestDriver(t)
	for _, hz := range []float64{-1, float64(testMClock)/2 + 1, math.NaN(), math.Inf(1)} {
		err := d.SetFrequency(hz, 0, true)
		if err == nil {
			t.Fatalf("SetFrequency(%f) expected error", hz)
		}
		if _, ok := err.(ErrOutOfRange); !ok {
			t.Errorf("SetFrequency(%f) returned %T, want ErrOutOfRange", hz, err)
		}
	}
	if len(bus.txs) != 0 {
		t.Errorf("rejected input still reached the bus: %#v", bus.txs)
	}
}

func TestSetFrequencyBadRegister(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.SetFrequency(1000, 2, true); err == nil {
		t.Fatal("SetFrequency with register 2 expected error")
	}
	if len(bus.txs) != 0 {
		t.Errorf("rejected input still reached the bus: %#v", bus.txs)
	}
}

func TestSetPhaseImmediate(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.SetPhase(math.Pi, 0, true); err != nil {
		t.Fatalf("SetPhase: %s", err)
	}
	want := [][]uint16{{CtrlB28, 0xC000 | 2048}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("SetPhase wrote %#v, want %#v", bus.txs, want)
	}
	if d.Registers().Phase[0] != 2048 {
		t.Errorf("mirror Phase[0] = %d, want 2048", d.Registers().Phase[0])
	}
}

func TestSetPhaseDeferred(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.SetPhase(math.Pi/2, 1, false); err != nil {
		t.Fatalf("SetPhase: %s", err)
	}
	// no selector flip, the phase word travels alone
	want := [][]uint16{{0xE000 | 1024}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("SetPhase wrote %#v, want %#v", bus.txs, want)
	}
	if d.ActivePhaseRegister() != 0 {
		t.Errorf("active phase register = %d, want 0", d.ActivePhaseRegister())
	}
}

func TestSettersPreserveSelectors(t *testing.T) {
	d, _ := newTestDriver(t)
	if err := d.SetFrequency(1000, 1, true); err != nil {
		t.Fatalf("SetFrequency: %s", err)
	}
	if err := d.SetPhase(math.Pi, 1, true); err != nil {
		t.Fatalf("SetPhase: %s", err)
	}
	if err := d.SetWaveform(Triangle); err != nil {
		t.Fatalf("SetWaveform: %s", err)
	}
	if err := d.SetSleep(SleepDAC); err != nil {
		t.Fatalf("SetSleep: %s", err)
	}
	if d.ActiveFrequencyRegister() != 1 || d.ActivePhaseRegister() != 1 {
		t.Errorf("unrelated setters disturbed selectors: ctrl %#04x", d.Registers().Ctrl)
	}
	if d.Waveform() != Triangle {
		t.Errorf("waveform = %s, want triangle", d.Waveform())
	}
	if d.Sleep() != SleepDAC {
		t.Errorf("sleep = %s, want dac", d.Sleep())
	}
}

func TestWaveformBits(t *testing.T) {
	tests := []struct {
		w    Waveform
		ctrl uint16
	}{
		{w: Sine, ctrl: CtrlB28},
		{w: Triangle, ctrl: CtrlB28 | 0x0002},
		{w: SquareMSB, ctrl: CtrlB28 | 0x0028},
		{w: SquareMSBHalf, ctrl: CtrlB28 | 0x0020},
	}
	for _, tc := range tests {
		d, bus := newTestDriver(t)
		if err := d.SetWaveform(tc.w); err != nil {
			t.Fatalf("SetWaveform(%s): %s", tc.w, err)
		}
		want := [][]uint16{{tc.ctrl}}
		if !reflect.DeepEqual(bus.txs, want) {
			t.Errorf("SetWaveform(%s) wrote %#v, want %#v", tc.w, bus.txs, want)
		}
		if d.Waveform() != tc.w {
			t.Errorf("mirror decodes to %s, want %s", d.Waveform(), tc.w)
		}
	}
}

func TestSleepBits(t *testing.T) {
	tests := []struct {
		m    SleepMode
		ctrl uint16
	}{
		{m: SleepNone, ctrl: CtrlB28},
		{m: SleepDAC, ctrl: CtrlB28 | 0x0040},
		{m: SleepClock, ctrl: CtrlB28 | 0x0080},
		{m: SleepBoth, ctrl: CtrlB28 | 0x00C0},
	}
	for _, tc := range tests {
		d, bus := newTestDriver(t)
		if err := d.SetSleep(tc.m); err != nil {
			t.Fatalf("SetSleep(%s): %s", tc.m, err)
		}
		want := [][]uint16{{tc.ctrl}}
		if !reflect.DeepEqual(bus.txs, want) {
			t.Errorf("SetSleep(%s) wrote %#v, want %#v", tc.m, bus.txs, want)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	d, bus := newTestDriver(t)
	if err := d.Reset(); err != nil {
		t.Fatalf("Reset: %s", err)
	}
	once := d.Registers().Ctrl
	if err := d.Reset(); err != nil {
		t.Fatalf("Reset: %s", err)
	}
	if d.Registers().Ctrl != once {
		t.Errorf("second reset changed the mirror: %#04x != %#04x", d.Registers().Ctrl, once)
	}
	want := [][]uint16{
		{CtrlB28 | CtrlReset, CtrlB28},
		{CtrlB28 | CtrlReset, CtrlB28},
	}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("Reset wrote %#v, want %#v", bus.txs, want)
	}
}

func TestBusErrorLeavesMirrorUntouched(t *testing.T) {
	d, bus := newTestDriver(t)
	before := d.Registers()
	bus.err = errors.New("bus gone")
	if err := d.SetFrequency(1000, 0, true); err == nil {
		t.Fatal("SetFrequency expected bus error")
	}
	if err := d.SetPhase(1, 0, true); err == nil {
		t.Fatal("SetPhase expected bus error")
	}
	if err := d.SetWaveform(Triangle); err == nil {
		t.Fatal("SetWaveform expected bus error")
	}
	if d.Registers() != before {
		t.Errorf("failed writes mutated the mirror: %+v != %+v", d.Registers(), before)
	}
}

func TestRestore(t *testing.T) {
	d, bus := newTestDriver(t)
	regs := Registers{
		Ctrl:  CtrlB28 | CtrlFSelect | 0x0002,
		Freq:  [2]uint32{10737, 4724},
		Phase: [2]uint16{2048, 0},
	}
	if err := d.Restore(regs); err != nil {
		t.Fatalf("Restore: %s", err)
	}
	want := [][]uint16{{
		CtrlB28 | CtrlFSelect | 0x0002,
		0x4000 | 10737, 0x4000,
		0x8000 | 4724, 0x8000,
		0xC800, 0xE000,
	}}
	if !reflect.DeepEqual(bus.txs, want) {
		t.Errorf("Restore wrote %#v, want %#v", bus.txs, want)
	}
	if d.Registers() != regs {
		t.Errorf("mirror = %+v, want %+v", d.Registers(), regs)
	}
}
