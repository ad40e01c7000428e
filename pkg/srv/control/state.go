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
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-dds/pkg/ad9833"
	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/log"
	"jinr.ru/greenlab/go-dds/pkg/srv/control/ifc"
)

const (
	BucketNamePrefix = "gen_"

	keyCtrl   = "ctrl"
	keyFreq0  = "freq0"
	keyFreq1  = "freq1"
	keyPhase0 = "phase0"
	keyPhase1 = "phase1"
)

// RegState persists register mirrors per generator. The chip itself is
// write-only, so the mirror stored here is the only durable record of
// what a generator is producing.
type RegState struct {
	context.Context
	DB *bbolt.DB
}

var _ ifc.State = &RegState{}

func NewRegState(ctx context.Context, cfg *config.Config) (*RegState, error) {
	// open register database
	db, err := bbolt.Open(cfg.DBPath, 0600, nil)
	if err != nil {
		return nil, err
	}
	// create buckets in the register database for all generators
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, gen := range cfg.Generators {
			if gen.Name == "" {
				return ErrGeneratorNameRequired{}
			}
			_, err = tx.CreateBucketIfNotExists([]byte(bucketName(gen.Name)))
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &RegState{
		Context: ctx,
		DB:      db,
	}, nil
}

func uint16ToByte(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func uint32ToByte(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func bucketName(deviceName string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, deviceName)
}

// Close ...
func (s *RegState) Close() error {
	return s.DB.Close()
}

// SetRegs stores the register mirror of a generator
func (s *RegState) SetRegs(device string, regs ad9833.Registers) error {
	log.Debug("Persisting register mirror: device: %s ctrl: %#04x", device, regs.Ctrl)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(device)))
		if b == nil {
			return ErrBucketNotFound{Device: device}
		}
		if err := b.Put([]byte(keyCtrl), uint16ToByte(regs.Ctrl)); err != nil {
			return err
		}
		if err := b.Put([]byte(keyFreq0), uint32ToByte(regs.Freq[0])); err != nil {
			return err
		}
		if err := b.Put([]byte(keyFreq1), uint32ToByte(regs.Freq[1])); err != nil {
			return err
		}
		if err := b.Put([]byte(keyPhase0), uint16ToByte(regs.Phase[0])); err != nil {
			return err
		}
		return b.Put([]byte(keyPhase1), uint16ToByte(regs.Phase[1]))
	})
}

// GetRegs loads the register mirror of a generator
func (s *RegState) GetRegs(device string) (*ad9833.Registers, error) {
	log.Debug("Loading register mirror: device: %s", device)
	regs := &ad9833.Registers{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(device)))
		if b == nil {
			return ErrBucketNotFound{Device: device}
		}
		ctrl := b.Get([]byte(keyCtrl))
		if ctrl == nil {
			return ErrStateNotFound{Device: device}
		}
		regs.Ctrl = binary.BigEndian.Uint16(ctrl)
		for i, key := range []string{keyFreq0, keyFreq1} {
			value := b.Get([]byte(key))
			if value == nil {
				return ErrStateNotFound{Device: device}
			}
			regs.Freq[i] = binary.BigEndian.Uint32(value)
		}
		for i, key := range []string{keyPhase0, keyPhase1} {
			value := b.Get([]byte(key))
			if value == nil {
				return ErrStateNotFound{Device: device}
			}
			regs.Phase[i] = binary.BigEndian.Uint16(value)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return regs, nil
}
