package store

import (
	"log"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config exposes the local storage path and the remote service base URL.
type Config interface {
	BasePath() string
	APIBase() string
}

// LoadConfig reads the .skej config (yaml implicit) with SKEJ_* env overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.skej.db")
	viper.SetDefault("api_url", "http://localhost:8000/api")
	viper.SetConfigName(".skej") // .yaml is implicit
	viper.SetEnvPrefix("SKEJ")
	viper.AutomaticEnv()

	if override := os.Getenv("SKEJ_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %v", err)
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{Path: path, API: viper.GetString("api_url")}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	API  string `json:"api_url"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) APIBase() string {
	return f.API
}
