package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix prefixes the environment variable of every flag: -token-ttl is read from QFORM_TOKEN_TTL.
const EnvPrefix = "QFORM_"

type Config struct {
	Addr              string
	Storage           string
	MongoDatabase     string
	RedisPrefix       string
	TokenSecret       string
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string
	SessionTTL        time.Duration
	Lang              string
	BaseURL           string
	Debug             bool
}

func envName(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// ParseFlags reads the configuration from .env, the environment, the optional
// -config TOML file and the command line.
func ParseFlags() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse(os.Args[1:], os.LookupEnv)
}

// Parse builds a Config from args. Values are taken, in order of precedence,
// from the command line, the environment (through lookupEnv), the -config
// file and the built-in defaults. Keys of the config file are flag names.
func Parse(args []string, lookupEnv func(string) (string, bool)) (cfg Config, err error) {
	flags := flag.NewFlagSet("qform", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var host string
	flags.StringVar(&host, "host", "0.0.0.0", "listen host name")
	var port uint
	flags.UintVar(&port, "port", 80, "listen port number")
	flags.StringVar(&cfg.Storage, "storage", "qform.sqlite", "storage URL: sqlite://, bolt://, redis://, mongodb://, memory:// or a SQLite file path")
	flags.StringVar(&cfg.MongoDatabase, "mongo-db", "qform", "MongoDB database name")
	flags.StringVar(&cfg.RedisPrefix, "redis-prefix", "qform", "Redis key prefix")
	flags.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	flags.UintVar(&ttl, "token-ttl", 120, "token TTL in seconds")
	flags.StringVar(&cfg.AdminUser, "admin-user", "admin", "administrator user name")
	flags.StringVar(&cfg.AdminPasswordHash, "admin-password-hash", "", "bcrypt hash of the administrator password")
	flags.DurationVar(&cfg.SessionTTL, "session-ttl", 30*time.Minute, "idle time after which a builder session is dropped (0 keeps sessions forever)")
	flags.StringVar(&cfg.Lang, "lang", "en", "language of rendered labels")
	flags.StringVar(&cfg.BaseURL, "base-url", "", "public address used in share links (default derived from -host and -port)")
	var configFile string
	flags.StringVar(&configFile, "config", "", "path to a TOML configuration file")
	flags.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")

	// Environment values count as explicitly set, so the config file cannot override them.
	flags.VisitAll(func(f *flag.Flag) {
		if v, ok := lookupEnv(envName(f.Name)); ok && err == nil {
			if setErr := flags.Set(f.Name, v); setErr != nil {
				err = fmt.Errorf("%s: %w", envName(f.Name), setErr)
			}
		}
	})
	if err != nil {
		return
	}

	if err = flags.Parse(args); err != nil {
		return
	}

	if configFile != "" {
		set := map[string]bool{}
		flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if err = applyFile(flags, configFile, set); err != nil {
			return
		}
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	switch {
	case cfg.TokenSecret == "":
		err = errors.New("missing parameter -token-secret")
	case cfg.AdminPasswordHash == "":
		err = errors.New("missing parameter -admin-password-hash")
	default:
		if _, costErr := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); costErr != nil {
			err = fmt.Errorf("parameter -admin-password-hash: %w", costErr)
		}
	}
	return
}

// applyFile sets the flags named in the TOML file, skipping those in set.
func applyFile(flags *flag.FlagSet, path string, set map[string]bool) error {
	values := map[string]any{}
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	for name, value := range values {
		if flags.Lookup(name) == nil || name == "config" {
			return fmt.Errorf("config file %s: unknown key %q", path, name)
		}
		if set[name] {
			continue
		}
		if err := flags.Set(name, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, name, err)
		}
	}
	return nil
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

// PublicURL is the address share links point to.
func (cfg Config) PublicURL() string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return cfg.Url()
}
