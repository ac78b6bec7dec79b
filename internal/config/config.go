package config

import (
	"os"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"

	"github.com/totegamma/familyone/internal/domain"
)

type Config struct {
	Server Server              `yaml:"server"`
	Backup domain.BackupConfig `yaml:"backup"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	APIToken      string `yaml:"apiToken"`
	LogLevel      string `yaml:"logLevel"`
}

const (
	DefaultListen   = ":8000"
	DefaultLogLevel = "INFO"
)

func (s Server) withDefaults() Server {
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	return s
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open config %s", path)
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode config %s", path)
	}

	if config.Server.PostgresDsn == "" {
		return Config{}, errors.New("server.postgresDsn is required")
	}

	config.Server = config.Server.withDefaults()
	config.Backup = config.Backup.WithDefaults()

	return config, nil
}
