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

package control

import (
	"fmt"
)

// ErrBucketNotFound returned when the state database has no bucket for a generator
type ErrBucketNotFound struct {
	Device string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", bucketName(e.Device))
}

// ErrGeneratorNameRequired returned when a configured generator has no name
type ErrGeneratorNameRequired struct{}

func (e ErrGeneratorNameRequired) Error() string {
	return "Generator name must not be empty"
}

// ErrStatePersist returned when a hardware write succeeded but the register
// mirror could not be stored, so the database lags behind the chip
type ErrStatePersist struct {
	Err error
}

func (e ErrStatePersist) Error() string {
	return fmt.Sprintf("Register write applied but mirror not persisted, stored state lags hardware: %s", e.Err)
}

// ErrStateNotFound returned when no register mirror has been persisted for a generator
type ErrStateNotFound struct {
	Device string
}

func (e ErrStateNotFound) Error() string {
	return fmt.Sprintf("No persisted register state for generator: %s", e.Device)
}
