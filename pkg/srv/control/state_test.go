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
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-dds/pkg/ad9833"
	"jinr.ru/greenlab/go-dds/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBPath: filepath.Join(t.TempDir(), "state.db"),
		Generators: []*config.Generator{
			{
				Name:   "gen0",
				SPI:    "SPI0.0",
				MClock: 25000000,
			},
		},
	}
}

func TestRegStateRoundTrip(t *testing.T) {
	state, err := NewRegState(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewRegState: %s", err)
	}
	defer state.Close()

	regs := ad9833.Registers{
		Ctrl:  ad9833.CtrlB28 | ad9833.CtrlFSelect,
		Freq:  [2]uint32{10737, 4724},
		Phase: [2]uint16{2048, 1024},
	}
	if err := state.SetRegs("gen0", regs); err != nil {
		t.Fatalf("SetRegs: %s", err)
	}
	got, err := state.GetRegs("gen0")
	if err != nil {
		t.Fatalf("GetRegs: %s", err)
	}
	if *got != regs {
		t.Errorf("GetRegs = %+v, want %+v", *got, regs)
	}
}

func TestRegStateNotFound(t *testing.T) {
	state, err := NewRegState(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewRegState: %s", err)
	}
	defer state.Close()

	if _, err := state.GetRegs("gen0"); err == nil {
		t.Fatal("GetRegs on empty bucket expected error")
	} else if _, ok := err.(ErrStateNotFound); !ok {
		t.Errorf("GetRegs returned %T, want ErrStateNotFound", err)
	}

	if _, err := state.GetRegs("nope"); err == nil {
		t.Fatal("GetRegs on unknown generator expected error")
	} else if _, ok := err.(ErrBucketNotFound); !ok {
		t.Errorf("GetRegs returned %T, want ErrBucketNotFound", err)
	}
}

func TestRegStateFailedInitReleasesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generators = append(cfg.Generators, &config.Generator{Name: ""})

	if _, err := NewRegState(context.Background(), cfg); err == nil {
		t.Fatal("NewRegState with unnamed generator expected error")
	} else if _, ok := err.(ErrGeneratorNameRequired); !ok {
		t.Errorf("NewRegState returned %T, want ErrGeneratorNameRequired", err)
	}

	// the database must be unlocked again after failed construction
	db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("database still locked after failed NewRegState: %s", err)
	}
	db.Close()
}

func TestRegStateOverwrite(t *testing.T) {
	state, err := NewRegState(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewRegState: %s", err)
	}
	defer state.Close()

	first := ad9833.Registers{Ctrl: ad9833.CtrlB28}
	second := ad9833.Registers{
		Ctrl: ad9833.CtrlB28 | ad9833.CtrlPSelect,
		Freq: [2]uint32{1, 2},
	}
	if err := state.SetRegs("gen0", first); err != nil {
		t.Fatalf("SetRegs: %s", err)
	}
	if err := state.SetRegs("gen0", second); err != nil {
		t.Fatalf("SetRegs: %s", err)
	}
	got, err := state.GetRegs("gen0")
	if err != nil {
		t.Fatalf("GetRegs: %s", err)
	}
	if *got != second {
		t.Errorf("GetRegs = %+v, want %+v", *got, second)
	}
}
