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
	"context"

	"jinr.ru/greenlab/go-dds/pkg/ad9833"
	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dbus"
	"jinr.ru/greenlab/go-dds/pkg/log"
	"jinr.ru/greenlab/go-dds/pkg/srv/control/ifc"
)

// ControlServer owns the SPI buses and one driver per configured
// generator. Every mutation goes through it, so the persisted mirror in
// RegState always matches what was last shifted out on the wire.
type ControlServer struct {
	context.Context
	*config.Config
	gens  map[string]*ad9833.Driver
	buses map[string]dbus.Bus
	state ifc.State
	api   ifc.ApiServer
}

var _ ifc.ControlServer = &ControlServer{}

// NewControlServer opens the configured SPI ports and initializes the
// generators. A generator with a persisted mirror is reprogrammed from
// it, so a daemon restart does not lose the write-only chip state.
func NewControlServer(ctx context.Context, cfg *config.Config) (ifc.ControlServer, error) {
	buses := make(map[string]dbus.Bus)
	for _, gen := range cfg.Generators {
		bus, err := dbus.OpenSPI(gen.SPI, gen.SPIMode, gen.SPIMaxHz)
		if err != nil {
			closeBuses(buses)
			return nil, err
		}
		buses[gen.Name] = bus
	}
	return NewControlServerWithBuses(ctx, cfg, buses)
}

// NewControlServerWithBuses is the bus-injected constructor used by tests
// and by hosts with nonstandard transports.
func NewControlServerWithBuses(ctx context.Context, cfg *config.Config, buses map[string]dbus.Bus) (ifc.ControlServer, error) {
	log.Debug("Initializing control server: generators: %d", len(cfg.Generators))

	state, err := NewRegState(ctx, cfg)
	if err != nil {
		closeBuses(buses)
		return nil, err
	}

	s := &ControlServer{
		Context: ctx,
		Config:  cfg,
		gens:    make(map[string]*ad9833.Driver),
		buses:   buses,
		state:   state,
	}

	for _, gen := range cfg.Generators {
		driver, err := ad9833.NewDriver(buses[gen.Name], gen.MClock)
		if err != nil {
			s.close()
			return nil, err
		}
		if regs, err := state.GetRegs(gen.Name); err == nil {
			log.Info("Restoring persisted state: generator: %s", gen.Name)
			if err := driver.Restore(*regs); err != nil {
				s.close()
				return nil, err
			}
		} else if _, ok := err.(ErrStateNotFound); !ok {
			s.close()
			return nil, err
		}
		s.gens[gen.Name] = driver
	}

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		s.close()
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

func closeBuses(buses map[string]dbus.Bus) {
	for name, bus := range buses {
		if err := bus.Close(); err != nil {
			log.Warning("Error while closing bus: %s: %s", name, err)
		}
	}
}

func (s *ControlServer) close() {
	s.state.Close()
	closeBuses(s.buses)
}

// Run serves the API until it fails or the listener is torn down.
func (s *ControlServer) Run() error {
	defer s.close()
	return s.api.Run()
}

func (s *ControlServer) driver(device string) (*ad9833.Driver, error) {
	d, ok := s.gens[device]
	if !ok {
		return nil, config.ErrGeneratorNotFound{Name: device}
	}
	return d, nil
}

// persist saves the driver mirror after a successful hardware write
func (s *ControlServer) persist(device string, d *ad9833.Driver) error {
	if err := s.state.SetRegs(device, d.Registers()); err != nil {
		return ErrStatePersist{Err: err}
	}
	return nil
}

// SetFrequency ...
func (s *ControlServer) SetFrequency(device string, hz float64, register int, apply bool) error {
	d, err := s.driver(device)
	if err != nil {
		return err
	}
	if err := d.SetFrequency(hz, register, apply); err != nil {
		return err
	}
	return s.persist(device, d)
}

// SetPhase ...
func (s *ControlServer) SetPhase(device string, radians float64, register int, apply bool) error {
	d, err := s.driver(device)
	if err != nil {
		return err
	}
	if err := d.SetPhase(radians, register, apply); err != nil {
		return err
	}
	return s.persist(device, d)
}

// SetWaveform ...
func (s *ControlServer) SetWaveform(device, shape string) error {
	d, err := s.driver(device)
	if err != nil {
		return err
	}
	w, err := ad9833.ParseWaveform(shape)
	if err != nil {
		return err
	}
	if err := d.SetWaveform(w); err != nil {
		return err
	}
	return s.persist(device, d)
}

// SetSleep ...
func (s *ControlServer) SetSleep(device, mode string) error {
	d, err := s.driver(device)
	if err != nil {
		return err
	}
	m, err := ad9833.ParseSleepMode(mode)
	if err != nil {
		return err
	}
	if err := d.SetSleep(m); err != nil {
		return err
	}
	return s.persist(device, d)
}

// Reset ...
func (s *ControlServer) Reset(device string) error {
	d, err := s.driver(device)
	if err != nil {
		return err
	}
	if err := d.Reset(); err != nil {
		return err
	}
	return s.persist(device, d)
}

// Registers returns the raw register mirror of a generator
func (s *ControlServer) Registers(device string) (ad9833.Registers, error) {
	d, err := s.driver(device)
	if err != nil {
		return ad9833.Registers{}, err
	}
	return d.Registers(), nil
}

// Status returns the decoded register mirror of a generator
func (s *ControlServer) Status(device string) (*ifc.Status, error) {
	d, err := s.driver(device)
	if err != nil {
		return nil, err
	}
	return &ifc.Status{
		Name:            device,
		MClock:          d.MClock(),
		Frequency:       [2]float64{d.FrequencyHz(0), d.FrequencyHz(1)},
		Phase:           [2]float64{d.PhaseRadians(0), d.PhaseRadians(1)},
		ActiveFrequency: d.ActiveFrequencyRegister(),
		ActivePhase:     d.ActivePhaseRegister(),
		Waveform:        d.Waveform().String(),
		Sleep:           d.Sleep().String(),
	}, nil
}
