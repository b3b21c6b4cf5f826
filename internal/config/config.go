package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string     `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis      `yaml:"redis"`
	Game       Game       `yaml:"game"`
	Dictionary Dictionary `yaml:"dictionary"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	MinPlayers         int    `yaml:"min-players" env-default:"2"`
	MaxPlayers         int    `yaml:"max-players" env-default:"4"`
	AllowedPunctuation string `yaml:"allowed-punctuation" env-default:"-'/ ."`
}

type Dictionary struct {
	Backend string `yaml:"backend" env:"DICTIONARY_BACKEND" env-default:"memory"`
	Path    string `yaml:"path" env:"DICTIONARY_PATH"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// IsEnabled reports whether a redis instance was configured at all.
func (that *Redis) IsEnabled() bool {
	return that.Host != ""
}
