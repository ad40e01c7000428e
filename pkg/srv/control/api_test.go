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
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dbus"
	"jinr.ru/greenlab/go-dds/pkg/srv/control/ifc"
)

type fakeBus struct {
	txs [][]uint16
}

func (b *fakeBus) Tx(words ...uint16) error {
	tx := make([]uint16, len(words))
	copy(tx, words)
	b.txs = append(b.txs, tx)
	return nil
}

func (b *fakeBus) Close() error {
	return nil
}

func newTestServer(t *testing.T, cfg *config.Config) (*ControlServer, *fakeBus) {
	t.Helper()
	bus := &fakeBus{}
	s, err := NewControlServerWithBuses(context.Background(), cfg, map[string]dbus.Bus{"gen0": bus})
	if err != nil {
		t.Fatalf("NewControlServerWithBuses: %s", err)
	}
	ctrl := s.(*ControlServer)
	t.Cleanup(ctrl.close)
	bus.txs = nil
	return ctrl, bus
}

func (s *ControlServer) router() http.Handler {
	return s.api.(*ApiServer).Router
}

func TestApiFrequency(t *testing.T) {
	s, bus := newTestServer(t, testConfig(t))

	body, _ := json.Marshal(&FrequencySetup{Hz: 1000, Register: 0, Apply: true})
	req := httptest.NewRequest("POST", "/api/gen/frequency/gen0", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	s.router().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("frequency request returned %d: %s", resp.Code, resp.Body.String())
	}
	if len(bus.txs) != 1 || len(bus.txs[0]) != 3 {
		t.Fatalf("expected one 3-word transaction, got %#v", bus.txs)
	}
	if bus.txs[0][1] != 0x4000|10737 {
		t.Errorf("low half-word = %#04x, want %#04x", bus.txs[0][1], 0x4000|10737)
	}
}

func TestApiFrequencyOutOfRange(t *testing.T) {
	s, bus := newTestServer(t, testConfig(t))

	body, _ := json.Marshal(&FrequencySetup{Hz: 20000000, Register: 0, Apply: true})
	req := httptest.NewRequest("POST", "/api/gen/frequency/gen0", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	s.router().ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("out-of-range frequency returned %d, want 400", resp.Code)
	}
	if len(bus.txs) != 0 {
		t.Errorf("rejected request still reached the bus: %#v", bus.txs)
	}
}

func TestApiUnknownGenerator(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/api/gen/status/gen7", nil)
	resp := httptest.NewRecorder()
	s.router().ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown generator returned %d, want 404", resp.Code)
	}
}

func TestApiStatus(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	if err := s.SetFrequency("gen0", 1000, 0, true); err != nil {
		t.Fatalf("SetFrequency: %s", err)
	}
	if err := s.SetPhase("gen0", math.Pi, 0, true); err != nil {
		t.Fatalf("SetPhase: %s", err)
	}
	if err := s.SetWaveform("gen0", "triangle"); err != nil {
		t.Fatalf("SetWaveform: %s", err)
	}

	req := httptest.NewRequest("GET", "/api/gen/status/gen0", nil)
	resp := httptest.NewRecorder()
	s.router().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status request returned %d: %s", resp.Code, resp.Body.String())
	}
	status := &ifc.Status{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		t.Fatalf("decoding status: %s", err)
	}
	if math.Abs(status.Frequency[0]-1000) > 0.1 {
		t.Errorf("status frequency = %f, want about 1000", status.Frequency[0])
	}
	if math.Abs(status.Phase[0]-math.Pi) > 0.01 {
		t.Errorf("status phase = %f, want about pi", status.Phase[0])
	}
	if status.Waveform != "triangle" {
		t.Errorf("status waveform = %s, want triangle", status.Waveform)
	}
}

func TestApiRegDump(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/api/reg/r/gen0", nil)
	resp := httptest.NewRecorder()
	s.router().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("reg dump returned %d: %s", resp.Code, resp.Body.String())
	}
	var regs []*RegHex
	if err := json.NewDecoder(resp.Body).Decode(&regs); err != nil {
		t.Fatalf("decoding reg dump: %s", err)
	}
	if len(regs) != 5 {
		t.Errorf("reg dump has %d entries, want 5", len(regs))
	}
}

func TestApiStoreFailureAfterWrite(t *testing.T) {
	s, bus := newTestServer(t, testConfig(t))

	// closing the store makes the mirror write fail after the
	// hardware transaction already went out
	if err := s.state.Close(); err != nil {
		t.Fatalf("closing state: %s", err)
	}

	body, _ := json.Marshal(&FrequencySetup{Hz: 1000, Register: 0, Apply: true})
	req := httptest.NewRequest("POST", "/api/gen/frequency/gen0", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	s.router().ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Errorf("store failure returned %d, want 500", resp.Code)
	}
	if len(bus.txs) != 1 {
		t.Errorf("expected the hardware write to go through, got %#v", bus.txs)
	}
}

func TestStateRestoredAfterRestart(t *testing.T) {
	cfg := testConfig(t)

	s1, _ := newTestServer(t, cfg)
	if err := s1.SetFrequency("gen0", 1000, 0, true); err != nil {
		t.Fatalf("SetFrequency: %s", err)
	}
	s1.close()

	bus := &fakeBus{}
	s, err := NewControlServerWithBuses(context.Background(), cfg, map[string]dbus.Bus{"gen0": bus})
	if err != nil {
		t.Fatalf("NewControlServerWithBuses: %s", err)
	}
	s2 := s.(*ControlServer)
	defer s2.close()

	// init transaction plus the restore transaction
	if len(bus.txs) != 2 {
		t.Fatalf("expected init and restore transactions, got %#v", bus.txs)
	}
	restore := bus.txs[1]
	if restore[1] != 0x4000|10737 {
		t.Errorf("restored low half-word = %#04x, want %#04x", restore[1], 0x4000|10737)
	}

	status, err := s2.Status("gen0")
	if err != nil {
		t.Fatalf("Status: %s", err)
	}
	if math.Abs(status.Frequency[0]-1000) > 0.1 {
		t.Errorf("restored frequency = %f, want about 1000", status.Frequency[0])
	}
}
