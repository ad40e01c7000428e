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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-dds/pkg/command/ifc"
	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/srv/control"
	controlifc "jinr.ru/greenlab/go-dds/pkg/srv/control/ifc"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.IP, control.ApiPort),
	}
}

func (c *ApiClient) genUrl(action, device string) string {
	return fmt.Sprintf("%s/gen/%s/%s", c.ApiPrefix, action, device)
}

func checkStatus(r *req.Resp) error {
	if r.Response().StatusCode != 200 {
		body, _ := r.ToString()
		if body != "" {
			return errors.New(body)
		}
		return errors.New(r.Response().Status)
	}
	return nil
}

// SetFrequency sends request to load a frequency register of a generator
func (c *ApiClient) SetFrequency(device string, hz float64, register int, apply bool) error {
	setup := &control.FrequencySetup{
		Hz:       hz,
		Register: register,
		Apply:    apply,
	}
	r, err := req.Post(c.genUrl("frequency", device), req.BodyJSON(setup))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// SetPhase sends request to load a phase register of a generator
func (c *ApiClient) SetPhase(device string, radians float64, register int, apply bool) error {
	setup := &control.PhaseSetup{
		Radians:  radians,
		Register: register,
		Apply:    apply,
	}
	r, err := req.Post(c.genUrl("phase", device), req.BodyJSON(setup))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// SetWaveform sends request to select the output waveshape of a generator
func (c *ApiClient) SetWaveform(device, shape string) error {
	setup := &control.WaveformSetup{
		Shape: shape,
	}
	r, err := req.Post(c.genUrl("waveform", device), req.BodyJSON(setup))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// SetSleep sends request to change the power-down mode of a generator
func (c *ApiClient) SetSleep(device, mode string) error {
	setup := &control.SleepSetup{
		Mode: mode,
	}
	r, err := req.Post(c.genUrl("sleep", device), req.BodyJSON(setup))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// Reset sends request to pulse the reset bit of a generator
func (c *ApiClient) Reset(device string) error {
	r, err := req.Get(c.genUrl("reset", device))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// Status sends request to get the decoded register mirror of a generator
func (c *ApiClient) Status(device string) (*controlifc.Status, error) {
	r, err := req.Get(c.genUrl("status", device))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	status := &controlifc.Status{}
	if err := r.ToJSON(status); err != nil {
		return nil, err
	}
	return status, nil
}

// RegRead sends request to get the raw register mirror of a generator
func (c *ApiClient) RegRead(device string) (map[string]string, error) {
	r, err := req.Get(fmt.Sprintf("%s/reg/r/%s", c.ApiPrefix, device))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var regs []*control.RegHex
	if err := r.ToJSON(&regs); err != nil {
		return nil, err
	}
	result := make(map[string]string)
	for _, reg := range regs {
		result[reg.Name] = reg.Value
	}
	return result, nil
}
