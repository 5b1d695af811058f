package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"

	"github.com/talx-hub/loyalty-ledger/internal/model"
)

type Config struct {
	RunAddr        string        `env:"RUN_ADDRESS"     envDefault:"localhost:8080"`
	DatabaseURI    string        `env:"DATABASE_URI"    envDefault:""`
	SecretKey      string        `env:"SECRET_KEY"      envDefault:""`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	LogFile        string        `env:"LOG_FILE"        envDefault:""`
	LogFormat      string        `env:"LOG_FORMAT"      envDefault:"text"`
	PointsPerUnit  string        `env:"POINTS_PER_UNIT" envDefault:"1"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	SnapshotBuffer int           `env:"SNAPSHOT_BUFFER" envDefault:"1024"`
	LockTimeout    time.Duration `env:"LOCK_TIMEOUT"    envDefault:"2s"`
}

// EarnRate is the number of points a purchase earns per currency unit.
func (c *Config) EarnRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.PointsPerUnit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid POINTS_PER_UNIT %q: %w", c.PointsPerUnit, err)
	}
	if rate.Sign() < 0 {
		return decimal.Zero, errors.New("POINTS_PER_UNIT must not be negative")
	}
	return rate, nil
}

type Builder struct {
	cfg *Config
	log *slog.Logger
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{
		cfg: &Config{
			RunAddr:        "",
			DatabaseURI:    "",
			SecretKey:      "",
			LogLevel:       "",
			LogFile:        "",
			LogFormat:      "",
			PointsPerUnit:  "",
			AllowedOrigins: nil,
			SnapshotBuffer: model.DefaultSnapshotBuffer,
			LockTimeout:    model.DefaultLockTimeout,
		},
		log: log,
	}
}

func (b *Builder) FromEnv() *Builder {
	if err := env.Parse(b.cfg); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelError, "Failed to parse config", slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) FromFlags() *Builder {
	flag.StringVar(&b.cfg.RunAddr, "a", b.cfg.RunAddr, "Run address")
	flag.StringVar(&b.cfg.DatabaseURI, "d", b.cfg.DatabaseURI, "Database URI")
	flag.StringVar(&b.cfg.SecretKey, "k", b.cfg.SecretKey, "Secret key")
	flag.StringVar(&b.cfg.LogLevel, "l", b.cfg.LogLevel, "Log level")
	flag.StringVar(&b.cfg.LogFile, "log-file", b.cfg.LogFile, "Log file")
	flag.StringVar(&b.cfg.LogFormat, "log-format", b.cfg.LogFormat, "Log format: text or json")
	flag.StringVar(&b.cfg.PointsPerUnit, "r", b.cfg.PointsPerUnit, "Points per currency unit")
	flag.IntVar(&b.cfg.SnapshotBuffer, "s", b.cfg.SnapshotBuffer, "Snapshot queue size")
	flag.DurationVar(&b.cfg.LockTimeout, "t", b.cfg.LockTimeout, "Row lock timeout")

	flag.Parse()
	return b
}

func (b *Builder) GetConfig() *Config {
	return b.cfg
}
