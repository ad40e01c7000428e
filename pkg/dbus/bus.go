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

// Package dbus carries 16-bit register words to a device behind a
// chip-select line. The AD9833 latches one word per 16 clocks while the
// select line is held low, so a multi-word Tx is a single uninterrupted
// load sequence on the wire.
package dbus

type Bus interface {
	// Tx shifts out the given words MSB first within one chip-select
	// scoped transaction.
	Tx(words ...uint16) error
	Close() error
}
