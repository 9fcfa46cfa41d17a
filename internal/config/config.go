package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Addr           string  `mapstructure:"addr"`
	DBDSN          string  `mapstructure:"db_dsn"`
	LogFile        string  `mapstructure:"log_file"`
	TemplateDir    string  `mapstructure:"template_dir"`
	BuybackPercent float64 `mapstructure:"buyback_percent"`
	MetricsEnabled bool    `mapstructure:"metrics_enabled"`
}

func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("ZANOVI")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8081")
	v.SetDefault("db_dsn", "zanovi.db") // sqlite file in project root
	v.SetDefault("log_file", "./zanovi.log")
	v.SetDefault("template_dir", "./web/templates")
	v.SetDefault("buyback_percent", 60) // documented business default
	v.SetDefault("metrics_enabled", true)

	// Bind explicitly so ZANOVI_* env vars override defaults even
	// without a config file present.
	for _, key := range []string{"addr", "db_dsn", "log_file", "template_dir", "buyback_percent", "metrics_enabled"} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("[config] unmarshal failed, using defaults: %v", err)
		cfg = Config{
			Addr:           ":8081",
			DBDSN:          "zanovi.db",
			LogFile:        "./zanovi.log",
			TemplateDir:    "./web/templates",
			BuybackPercent: 60,
			MetricsEnabled: true,
		}
	}
	log.Printf("[config] ADDR=%s DB_DSN=%s LOG_FILE=%s BUYBACK_PERCENT=%.0f", cfg.Addr, cfg.DBDSN, cfg.LogFile, cfg.BuybackPercent)
	return cfg
}
