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

package ifc

import (
	"jinr.ru/greenlab/go-dds/pkg/ad9833"
)

// Status is the decoded register mirror of one generator.
type Status struct {
	Name            string     `json:"name"`
	MClock          uint32     `json:"mclock"`
	Frequency       [2]float64 `json:"frequency"`
	Phase           [2]float64 `json:"phase"`
	ActiveFrequency int        `json:"activeFrequency"`
	ActivePhase     int        `json:"activePhase"`
	Waveform        string     `json:"waveform"`
	Sleep           string     `json:"sleep"`
}

type ControlServer interface {
	Run() error

	SetFrequency(device string, hz float64, register int, apply bool) error
	SetPhase(device string, radians float64, register int, apply bool) error
	SetWaveform(device, shape string) error
	SetSleep(device, mode string) error
	Reset(device string) error

	Registers(device string) (ad9833.Registers, error)
	Status(device string) (*Status, error)
}

type ApiServer interface {
	Run() error
}

type State interface {
	SetRegs(device string, regs ad9833.Registers) error
	GetRegs(device string) (*ad9833.Registers, error)
	Close() error
}
