package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig holds the settings read from the YAML config file.
type fileConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Timeout  time.Duration `yaml:"timeout"`
	Password string        `yaml:"password"`

	// Servers and Zones are used by the metrics command.
	Servers     []string `yaml:"servers"`
	Zones       []string `yaml:"zones"`
	MetricsAddr string   `yaml:"metrics_addr"`

	HistoryFile string `yaml:"history_file"`
}

// loadConfig reads path. An empty path or a missing file yields an empty
// config.
func loadConfig(path string) (*fileConfig, error) {
	if path == "" {
		return &fileConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &fileConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
