package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TransportStomp = "stomp"
	TransportRedis = "redis"
)

type Config struct {
	LogLevel        string        `yaml:"log-level" env-default:"info"`
	Transport       string        `yaml:"transport" env-default:"stomp"`
	KeepAlivePeriod time.Duration `yaml:"keep-alive-period" env-default:"20s"`
	Stomp           Stomp         `yaml:"stomp"`
	Redis           Redis         `yaml:"redis"`
}

type Stomp struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"61613"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Stomp) GetStompAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
