package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger configures the global logger.
// Development mode writes human readable logs to the console, production writes json.
// If a log file is set, the output is also written to a rotating file.
func SetupLogger(cfg Config) io.Closer {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.IsDevelopment() || cfg.Debug {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = io.NopCloser(nil)
	if cfg.Log.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer
}

// Init loads the configuration and sets up the logger.
func Init(path string) (Config, io.Closer, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, nil, err
	}
	closer := SetupLogger(cfg)
	log.Debug().Str("env", cfg.Env).Bool("debug", cfg.Debug).Str("config", path).Msg("loaded config")
	return cfg, closer, nil
}
