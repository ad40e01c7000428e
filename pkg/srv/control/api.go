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
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-dds/pkg/ad9833"
	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/log"
	"jinr.ru/greenlab/go-dds/pkg/srv/control/ifc"
)

// FrequencySetup ...
type FrequencySetup struct {
	Hz       float64 `json:"hz"`
	Register int     `json:"register"`
	Apply    bool    `json:"apply"`
}

// PhaseSetup ...
type PhaseSetup struct {
	Radians  float64 `json:"radians"`
	Register int     `json:"register"`
	Apply    bool    `json:"apply"`
}

// WaveformSetup ...
type WaveformSetup struct {
	Shape string `json:"shape"`
}

// SleepSetup ...
type SleepSetup struct {
	Mode string `json:"mode"`
}

// RegHex is one mirrored register in hexadecimal
type RegHex struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl ifc.ControlServer
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl ifc.ControlServer) (ifc.ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.IP, ApiPort)
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
	}
	s.configureRouter()
	return s, nil
}

// Run ...
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.IP, ApiPort)
	httpServer := &http.Server{
		Handler: handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stderr, s.Router)),
		Addr:    fmt.Sprintf("%s:%d", s.Config.IP, ApiPort),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/gen/frequency/{device}", s.handleFrequency()).Methods("POST")
	subRouter.HandleFunc("/gen/phase/{device}", s.handlePhase()).Methods("POST")
	subRouter.HandleFunc("/gen/waveform/{device}", s.handleWaveform()).Methods("POST")
	subRouter.HandleFunc("/gen/sleep/{device}", s.handleSleep()).Methods("POST")
	subRouter.HandleFunc("/gen/reset/{device}", s.handleReset()).Methods("GET")
	subRouter.HandleFunc("/gen/status/{device}", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/reg/r/{device}", s.handleRegRead()).Methods("GET")
}

// httpStatus maps driver and server errors to response codes: unknown
// generator 404, caller-induced input errors 400, everything else is a
// failed bus transaction, 502.
func httpStatus(err error) int {
	switch err.(type) {
	case config.ErrGeneratorNotFound:
		return http.StatusNotFound
	case ad9833.ErrOutOfRange, ad9833.ErrBadRegister, ad9833.ErrBadWaveform, ad9833.ErrBadSleepMode:
		return http.StatusBadRequest
	case ErrStatePersist:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (s *ApiServer) handleFrequency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		setup := &FrequencySetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling frequency request: device: %s hz: %f register: %d apply: %t",
			vars["device"], setup.Hz, setup.Register, setup.Apply)
		if err := s.ctrl.SetFrequency(vars["device"], setup.Hz, setup.Register, setup.Apply); err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
	}
}

func (s *ApiServer) handlePhase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		setup := &PhaseSetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling phase request: device: %s radians: %f register: %d apply: %t",
			vars["device"], setup.Radians, setup.Register, setup.Apply)
		if err := s.ctrl.SetPhase(vars["device"], setup.Radians, setup.Register, setup.Apply); err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
	}
}

func (s *ApiServer) handleWaveform() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		setup := &WaveformSetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling waveform request: device: %s shape: %s", vars["device"], setup.Shape)
		if err := s.ctrl.SetWaveform(vars["device"], setup.Shape); err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
	}
}

func (s *ApiServer) handleSleep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		setup := &SleepSetup{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling sleep request: device: %s mode: %s", vars["device"], setup.Mode)
		if err := s.ctrl.SetSleep(vars["device"], setup.Mode); err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
	}
}

func (s *ApiServer) handleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reset request: device: %s", vars["device"])
		if err := s.ctrl.Reset(vars["device"]); err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
	}
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		status, err := s.ctrl.Status(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (s *ApiServer) handleRegRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		regs, err := s.ctrl.Registers(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), httpStatus(err))
			return
		}
		regsHex := []*RegHex{
			{Name: "ctrl", Value: fmt.Sprintf("%#04x", regs.Ctrl)},
			{Name: "freq0", Value: fmt.Sprintf("%#07x", regs.Freq[0])},
			{Name: "freq1", Value: fmt.Sprintf("%#07x", regs.Freq[1])},
			{Name: "phase0", Value: fmt.Sprintf("%#03x", regs.Phase[0])},
			{Name: "phase1", Value: fmt.Sprintf("%#03x", regs.Phase[1])},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(regsHex); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
