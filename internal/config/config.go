package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig backs the leaderboard. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig times are in seconds.
type GameConfig struct {
	SelectTimeout       int `yaml:"select_timeout"`
	RevealTimeout       int `yaml:"reveal_timeout"`
	IntermissionTimeout int `yaml:"intermission_timeout"`
	WinPoints           int `yaml:"win_points"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads a yaml config file, then applies LOWCARD_* env overrides and
// defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default is the fallback when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOWCARD_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("LOWCARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOWCARD_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Game.SelectTimeout == 0 {
		c.Game.SelectTimeout = 30
	}
	if c.Game.RevealTimeout == 0 {
		c.Game.RevealTimeout = 5
	}
	if c.Game.IntermissionTimeout == 0 {
		c.Game.IntermissionTimeout = 20
	}
	if c.Game.WinPoints == 0 {
		c.Game.WinPoints = 3
	}
}
