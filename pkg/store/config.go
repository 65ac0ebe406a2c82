package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config interface {
	BasePath() string
	UserID() string
}

func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.nag.db")
	viper.SetDefault("user", "local")
	viper.SetConfigName(".nag") // .yaml is implicit
	viper.SetEnvPrefix("NAG")
	viper.AutomaticEnv()

	if override := os.Getenv("NAG_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{Path: path, User: viper.GetString("user")}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	User string `json:"user"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) UserID() string {
	return f.User
}
