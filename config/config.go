package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jcrunjie/openstego/util"
)

/*
 * Configuration for embedding. MaxBitsUsedPerChannel caps the depth the
 * capacity planner may pick; Compress and Encrypt control the payload
 * pipeline.
 */
type StegoConfig struct {
	MaxBitsUsedPerChannel int  `yaml:"max_bits_per_channel"`
	Compress              bool `yaml:"compress"`
	Encrypt               bool `yaml:"encrypt"`
}

/*
 * Full configuration of the tool, loadable from a YAML file.
 */
type FullConfig struct {
	Stego  StegoConfig     `yaml:"steganography_config"`
	Logger util.LoggerInfo `yaml:"logger_config"`
}

func Default() *FullConfig {
	return &FullConfig{
		Stego: StegoConfig{
			MaxBitsUsedPerChannel: 3,
			Compress:              true,
		},
		Logger: util.LoggerInfo{
			Mode: util.Error | util.Warning,
		},
	}
}

func (c *StegoConfig) Validate() error {
	if c.MaxBitsUsedPerChannel < 1 || c.MaxBitsUsedPerChannel > 8 {
		return fmt.Errorf("max_bits_per_channel must be between 1 and 8, got %d", c.MaxBitsUsedPerChannel)
	}
	return nil
}

/*
 * Functions for loading and saving configuration in YAML format.
 */
func LoadConfig(filename string) (*FullConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	conf := Default()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	if err := conf.Stego.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func SaveConfig(filename string, c *FullConfig) error {
	data, err := yaml.Marshal(*c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}
