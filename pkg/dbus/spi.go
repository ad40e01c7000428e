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

package dbus

import (
	"encoding/binary"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"jinr.ru/greenlab/go-dds/pkg/log"
)

const (
	// DefaultMode is SPI mode 2, the AD9833 framing (CPOL=1, CPHA=0)
	DefaultMode = 2
	// DefaultMaxHz is a conservative clock for breadboard wiring
	DefaultMaxHz = 5000000
)

// SPIBus is a Bus backed by a kernel SPI port. The port name is a periph
// registry name, e.g. "SPI0.0" or "/dev/spidev0.0".
type SPIBus struct {
	port spi.PortCloser
	conn spi.Conn
}

var _ Bus = &SPIBus{}

// OpenSPI opens and configures the named SPI port. mode and maxHz fall
// back to the AD9833 defaults when zero.
func OpenSPI(portName string, mode int, maxHz int64) (*SPIBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	if maxHz == 0 {
		maxHz = DefaultMaxHz
	}
	if mode == 0 {
		mode = DefaultMode
	}
	log.Debug("Opening SPI port: %s mode: %d maxHz: %d", portName, mode, maxHz)
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, err
	}
	conn, err := port.Connect(physic.Hertz*physic.Frequency(maxHz), spi.Mode(mode), 8)
	if err != nil {
		port.Close()
		return nil, err
	}
	return &SPIBus{
		port: port,
		conn: conn,
	}, nil
}

func (b *SPIBus) Tx(words ...uint16) error {
	buf := make([]byte, 2*len(words))
	for i, word := range words {
		binary.BigEndian.PutUint16(buf[2*i:], word)
	}
	return b.conn.Tx(buf, nil)
}

func (b *SPIBus) Close() error {
	return b.port.Close()
}
