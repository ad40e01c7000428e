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

package config

import (
	"io/ioutil"
	"net"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Generator describes one AD9833 hanging off a host SPI port.
type Generator struct {
	Name string `yaml:"name"`
	// SPI is a periph port name, e.g. SPI0.0 or /dev/spidev0.0
	SPI      string `yaml:"spi"`
	SPIMode  int    `yaml:"spiMode,omitempty"`
	SPIMaxHz int64  `yaml:"spiMaxHz,omitempty"`
	// MClock is the reference crystal frequency in Hz
	MClock uint32 `yaml:"mclock"`
}

type Config struct {
	IP         *net.IP      `yaml:"ip"`
	LogLevel   string       `yaml:"logLevel"`
	DBPath     string       `yaml:"dbPath"`
	Generators []*Generator `yaml:"generators"`
	filepath   string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the config file over the defaults. A missing file is not an
// error, the defaults stand.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

// GetGeneratorByName returns the named generator or nil
func (c *Config) GetGeneratorByName(name string) *Generator {
	for _, gen := range c.Generators {
		if gen.Name == name {
			return gen
		}
	}
	return nil
}

func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	return filepath.Join(homeDir(), ConfigDir, DBFile)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return home
}

func NewDefaultConfig() *Config {
	ip := net.ParseIP(DefaultIP)
	return &Config{
		IP:       &ip,
		LogLevel: DefaultLogLevel,
		DBPath:   DefaultDBPath(),
		Generators: []*Generator{
			{
				Name:     DefaultGeneratorName,
				SPI:      DefaultSPI,
				SPIMode:  DefaultSPIMode,
				SPIMaxHz: DefaultSPIMaxHz,
				MClock:   DefaultMClock,
			},
		},
		filepath: DefaultConfigPath(),
	}
}
