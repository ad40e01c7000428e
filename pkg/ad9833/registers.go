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
	"math"
)

// Register bit layout is taken from the AD9833 datasheet. All words are
// 16 bit and shifted out MSB first. Bits 15-14 address the destination
// register: 00 control, 01 FREQ0, 10 FREQ1, 11 phase.

const (
	CtrlB28     uint16 = 0x2000 // load frequency as two consecutive 14-bit writes
	CtrlHLB     uint16 = 0x1000 // unused while B28 is set
	CtrlFSelect uint16 = 0x0800 // FREQ1 drives the output
	CtrlPSelect uint16 = 0x0400 // PHASE1 drives the output
	CtrlReset   uint16 = 0x0100
	CtrlSleep1  uint16 = 0x0080 // internal clock disable
	CtrlSleep12 uint16 = 0x0040 // DAC power down
	CtrlOpBitEn uint16 = 0x0020 // route MSB of the phase accumulator to the output
	CtrlDiv2    uint16 = 0x0008 // output MSB instead of MSB/2
	CtrlMode    uint16 = 0x0002 // triangle instead of sine
)

const (
	FreqPrefix0  uint16 = 0x4000
	FreqPrefix1  uint16 = 0x8000
	PhasePrefix  uint16 = 0xC000
	PhaseRegBit  uint16 = 0x2000 // selects PHASE1
	FreqPayload  uint16 = 0x3FFF
	PhasePayload uint16 = 0x0FFF
)

const (
	// FreqWordWidth is the resolution of the frequency tuning word.
	FreqWordWidth = 28
	// FreqWordMax is the largest representable tuning word.
	FreqWordMax = 1<<FreqWordWidth - 1
	// PhaseWordMax is the largest representable phase offset word.
	PhaseWordMax = 1<<12 - 1
)

const (
	waveformMask = CtrlOpBitEn | CtrlDiv2 | CtrlMode
	sleepMask    = CtrlSleep1 | CtrlSleep12
)

// Waveform selects the output waveshape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	SquareMSB
	SquareMSBHalf
	WaveformLimit
)

var waveformBits = map[Waveform]uint16{
	Sine:          0,
	Triangle:      CtrlMode,
	SquareMSB:     CtrlOpBitEn | CtrlDiv2,
	SquareMSBHalf: CtrlOpBitEn,
}

var waveformNames = map[Waveform]string{
	Sine:          "sine",
	Triangle:      "triangle",
	SquareMSB:     "square",
	SquareMSBHalf: "square/2",
}

func (w Waveform) String() string {
	name, ok := waveformNames[w]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseWaveform maps a waveshape name to its Waveform value
func ParseWaveform(name string) (Waveform, error) {
	for w, n := range waveformNames {
		if n == name {
			return w, nil
		}
	}
	return Sine, ErrBadWaveform{Name: name}
}

// SleepMode selects which chip sections are powered down.
type SleepMode int

const (
	SleepNone SleepMode = iota
	SleepDAC
	SleepClock
	SleepBoth
	SleepModeLimit
)

var sleepBits = map[SleepMode]uint16{
	SleepNone:  0,
	SleepDAC:   CtrlSleep12,
	SleepClock: CtrlSleep1,
	SleepBoth:  CtrlSleep1 | CtrlSleep12,
}

var sleepNames = map[SleepMode]string{
	SleepNone:  "none",
	SleepDAC:   "dac",
	SleepClock: "clock",
	SleepBoth:  "both",
}

func (m SleepMode) String() string {
	name, ok := sleepNames[m]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseSleepMode maps a sleep mode name to its SleepMode value
func ParseSleepMode(name string) (SleepMode, error) {
	for m, n := range sleepNames {
		if n == name {
			return m, nil
		}
	}
	return SleepNone, ErrBadSleepMode{Name: name}
}

// EncodeFrequencyWord computes the 28-bit tuning word for the given output
// frequency. The usable range is limited by Nyquist to half the master
// clock; anything outside it is rejected before any bus activity.
func EncodeFrequencyWord(hz float64, mclock uint32) (uint32, error) {
	max := float64(mclock) / 2
	// negated so NaN fails validation too
	if !(hz >= 0 && hz <= max) {
		return 0, ErrOutOfRange{Freq: hz, Max: max}
	}
	word := uint32(math.Round(hz * (1 << FreqWordWidth) / float64(mclock)))
	if word > FreqWordMax {
		word = FreqWordMax
	}
	return word, nil
}

// DecodeFrequencyWord is the inverse of EncodeFrequencyWord up to one
// quantization step of mclock/2^28.
func DecodeFrequencyWord(word uint32, mclock uint32) float64 {
	return float64(word) * float64(mclock) / (1 << FreqWordWidth)
}

// SplitFrequencyWord splits a tuning word into the two 14-bit wire words,
// low half first, each carrying the FREQ0/FREQ1 address prefix. The chip
// latches the 28-bit value only after both halves arrive in this order.
func SplitFrequencyWord(word uint32, reg int) (uint16, uint16) {
	prefix := FreqPrefix0
	if reg == 1 {
		prefix = FreqPrefix1
	}
	lsb := uint16(word) & FreqPayload
	msb := uint16(word>>14) & FreqPayload
	return prefix | lsb, prefix | msb
}

// EncodePhaseWord computes the 12-bit phase offset word. Phase is cyclic,
// so out-of-range input wraps instead of failing.
func EncodePhaseWord(radians float64) uint16 {
	turns := radians / (2 * math.Pi)
	turns -= math.Floor(turns)
	word := uint16(math.Round(turns*(PhaseWordMax+1))) & PhasePayload
	return word
}

// DecodePhaseWord is the inverse of EncodePhaseWord up to one quantization
// step of 2*pi/4096.
func DecodePhaseWord(word uint16) float64 {
	return float64(word&PhasePayload) * 2 * math.Pi / (PhaseWordMax + 1)
}

// PhaseWireWord wraps a phase offset word with the phase register address
// prefix and the register index bit.
func PhaseWireWord(word uint16, reg int) uint16 {
	wire := PhasePrefix | (word & PhasePayload)
	if reg == 1 {
		wire |= PhaseRegBit
	}
	return wire
}
