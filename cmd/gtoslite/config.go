package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional --config YAML file, merged underneath the CLI
// flags: any flag the user passes on the command line overrides the value
// loaded from file. Keeps --config usable for "mostly-static" node setups
// (peers list, db path) while still allowing one-off CLI overrides.
type fileConfig struct {
	Port    int      `yaml:"port"`
	Peers   []string `yaml:"peers"`
	RPCPort int      `yaml:"rpcPort"`
	DBPath  string   `yaml:"dbPath"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
