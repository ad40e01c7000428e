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
	"fmt"
)

// ErrOutOfRange returned when the requested frequency is outside the
// Nyquist-limited range of the generator
type ErrOutOfRange struct {
	Freq float64
	Max  float64
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("Frequency out of range: %f Hz, must be within [0, %f]", e.Freq, e.Max)
}

// ErrBadRegister returned when the frequency/phase register index is not 0 or 1
type ErrBadRegister struct {
	Index int
}

func (e ErrBadRegister) Error() string {
	return fmt.Sprintf("Bad register index: %d, must be 0 or 1", e.Index)
}

// ErrBadWaveform returned when a waveshape name is not recognized
type ErrBadWaveform struct {
	Name string
}

func (e ErrBadWaveform) Error() string {
	return fmt.Sprintf("Bad waveform: %s. Must be one of: sine, triangle, square, square/2", e.Name)
}

// ErrBadSleepMode returned when a sleep mode name is not recognized
type ErrBadSleepMode struct {
	Name string
}

func (e ErrBadSleepMode) Error() string {
	return fmt.Sprintf("Bad sleep mode: %s. Must be one of: none, dac, clock, both", e.Name)
}
