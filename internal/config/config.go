package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServer  = "132.163.97.6"
	DefaultTimeout = 5 * time.Second
	DefaultPath    = "sntp.yml"
)

type Config struct {
	Server      string `yaml:"server"`
	Timeout     string `yaml:"timeout"` // "0" waits forever
	MetricsFile string `yaml:"metrics_file"`
}

func Default() *Config {
	return &Config{
		Server:  net.JoinHostPort(DefaultServer, ntp.Port),
		Timeout: DefaultTimeout.String(),
	}
}

// Load reads a YAML config. A missing file at the default path is not an
// error; the defaults are used instead.
func Load(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if server := os.Getenv("NTP_SERVER"); server != "" {
		config.Server = server
	}

	applyDefaults(config)
	if _, err := config.TimeoutDuration(); err != nil {
		return nil, err
	}
	return config, nil
}

// TimeoutDuration is the bounded wait for a reply, 0 meaning none.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: negative", c.Timeout)
	}
	return d, nil
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Server == "" {
		c.Server = d.Server
	}
	c.Server = WithPort(c.Server)
	if c.Timeout == "" {
		c.Timeout = d.Timeout
	}
}

// WithPort appends the NTP port to addresses that don't carry one. IPv6
// literals may be given with or without brackets.
func WithPort(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	host := strings.TrimSuffix(strings.TrimPrefix(address, "["), "]")
	return net.JoinHostPort(host, ntp.Port)
}
