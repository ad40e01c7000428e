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
	controlifc "jinr.ru/greenlab/go-dds/pkg/srv/control/ifc"
)

type ApiClient interface {
	SetFrequency(device string, hz float64, register int, apply bool) error
	SetPhase(device string, radians float64, register int, apply bool) error
	SetWaveform(device, shape string) error
	SetSleep(device, mode string) error
	Reset(device string) error
	Status(device string) (*controlifc.Status, error)
	RegRead(device string) (map[string]string, error)
}
