package configs

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AutomaticEnv()
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		config = &Config{Viper: v}
	})
	return config
}
