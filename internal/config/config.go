package config

import (
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	EnvPrefix          = "MOCKSERVER"
	minJWTSecretLength = 32
)

var (
	ErrJWTSecretTooShort = errors.New("jwt secret must be at least 32 characters long")
	ErrInvalidSeedUser   = errors.New("seed user must look like username:password")
)

// Server configures the development commerce service. Every field can be set
// through a MOCKSERVER_* variable, e.g. MOCKSERVER_JWT_SECRET.
type Server struct {
	Addr            string        `envconfig:"ADDR" default:":8000"`
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"12"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	// SeedUser is an optional "username:password" account created at startup.
	SeedUser string `envconfig:"SEED_USER"`
}

// Load reads the server configuration from the environment.
func Load() (Server, error) {
	var cfg Server
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Server{}, errors.Wrap(err, "load config")
	}
	return cfg, cfg.Validate()
}

func (c Server) Validate() error {
	if len(c.JWTSecret) < minJWTSecretLength {
		return ErrJWTSecretTooShort
	}
	if c.SeedUser != "" {
		if _, _, ok := c.Seed(); !ok {
			return ErrInvalidSeedUser
		}
	}
	return nil
}

// Seed splits SeedUser into its username and password.
func (c Server) Seed() (username, password string, ok bool) {
	username, password, ok = strings.Cut(c.SeedUser, ":")
	if !ok || username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

// NewLogger builds a logrus logger writing to stderr. Unknown levels fall back
// to info; format is "json" or "text".
func NewLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
