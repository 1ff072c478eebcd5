package server

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunacmd/internal/logging"
	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/dao/inmem"
	"github.com/dekarrin/tunacmd/server/dao/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	sLower := strings.ToLower(s)

	switch sLower {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType

	// DataDir is the path on disk to a directory to use to store data in. This
	// is only applicable for certain DB types: SQLite.
	DataDir string
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the store for use.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		err := os.MkdirAll(db.DataDir, 0770)
		if err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}

		store, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}

		return store, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if the Database does not have the correct fields
// set for its type.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a database connection string of the form
// "engine:params" (or just "engine" if no other params are required) into a
// valid Database config object. For example, "sqlite:/data" would give the DB
// type of DatabaseSQLite that stores persistence in files located in the given
// dir, and "inmem" would give the DB type of DatabaseInMemory.
func ParseDBConnString(s string) (Database, error) {
	var paramStr string
	dbParts := strings.SplitN(s, ":", 2)

	if len(dbParts) == 2 {
		paramStr = strings.TrimSpace(dbParts[1])
	}

	dbEng, err := ParseDBType(strings.TrimSpace(dbParts[0]))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch dbEng {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}

		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}

		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	default:
		return Database{}, fmt.Errorf("unknown DB engine: %q", dbEng.String())
	}
}

// ParseTokenSecret turns a secret given by an operator into a signing secret.
// A secret shorter than MinSecretSize is repeated until it is long enough. A
// secret longer than MaxSecretSize is refused, since keys would be chopped
// there anyways. If s is empty, a random secret of MaxSecretSize bytes is
// generated and generated is true.
func ParseTokenSecret(s string) (secret []byte, generated bool, err error) {
	if s == "" {
		secret = make([]byte, MaxSecretSize)
		if _, err := rand.Read(secret); err != nil {
			return nil, false, fmt.Errorf("generate token secret: %w", err)
		}
		return secret, true, nil
	}

	secret = []byte(s)
	for len(secret) < MinSecretSize {
		secret = append(secret, secret...)
	}

	if len(secret) > MaxSecretSize {
		return nil, false, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(secret), MaxSecretSize)
	}

	return secret, false, nil
}

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a Server.
type Config struct {
	// ListenAddress is where the server listens, in BIND_ADDRESS:PORT or
	// :PORT format. Defaults to "localhost:8080".
	ListenAddress string

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// DB is the configuration to use for connecting to the database. If
	// not provided, it will be set to a configuration for using an in-memory
	// persistence layer.
	DB Database

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int

	// PasswordCost is the bcrypt cost of stored passwords. If 0,
	// bcrypt.DefaultCost is used.
	PasswordCost int

	// WorldFile is the TOML world definition to start from.
	WorldFile string

	// Snapshot is the file the world is restored from and saved to.
	Snapshot string

	// Log settings. See logging.Config.
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMillis is set to a number less than 1, this
// will return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// LogConfig returns the logging config that cfg describes, with human-readable
// entries going to console.
func (cfg Config) LogConfig(console io.Writer) logging.Config {
	return logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    console,
	}
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.ListenAddress == "" {
		newCFG.ListenAddress = "localhost:8080"
	}
	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}
	if newCFG.LogLevel == "" {
		newCFG.LogLevel = "info"
	}
	if newCFG.LogMaxSizeMB == 0 {
		newCFG.LogMaxSizeMB = 100
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if !strings.Contains(cfg.ListenAddress, ":") {
		return fmt.Errorf("listen address: not in ADDRESS:PORT or :PORT format: %q", cfg.ListenAddress)
	}
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	// all possible values for UnauthDelayMillis are valid, so no need to check it

	return nil
}

// tcsConfigFile is the layout of a server config file.
type tcsConfigFile struct {
	Server struct {
		Listen        string `toml:"listen"`
		TokenSecret   string `toml:"token_secret"`
		UnauthDelayMS int    `toml:"unauth_delay_ms"`
	} `toml:"server"`
	Database struct {
		Conn string `toml:"conn"`
	} `toml:"database"`
	Log struct {
		Level      string `toml:"level"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
	} `toml:"log"`
	World struct {
		File     string `toml:"file"`
		Snapshot string `toml:"snapshot"`
	} `toml:"world"`
}

// LoadConfigFile reads a Config from the TOML file at path. Values not in the
// file are left unset. A token secret in the file is run through
// ParseTokenSecret.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	return ParseConfigFromTOML(data)
}

// ParseConfigFromTOML reads a Config from TOML data. See LoadConfigFile.
func ParseConfigFromTOML(data []byte) (Config, error) {
	var f tcsConfigFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		ListenAddress:     f.Server.Listen,
		UnauthDelayMillis: f.Server.UnauthDelayMS,
		WorldFile:         f.World.File,
		Snapshot:          f.World.Snapshot,
		LogLevel:          f.Log.Level,
		LogFile:           f.Log.File,
		LogMaxSizeMB:      f.Log.MaxSizeMB,
		LogMaxBackups:     f.Log.MaxBackups,
	}

	if f.Server.TokenSecret != "" {
		secret, _, err := ParseTokenSecret(f.Server.TokenSecret)
		if err != nil {
			return Config{}, fmt.Errorf("server.token_secret: %w", err)
		}
		cfg.TokenSecret = secret
	}

	if f.Database.Conn != "" {
		db, err := ParseDBConnString(f.Database.Conn)
		if err != nil {
			return Config{}, fmt.Errorf("database.conn: %w", err)
		}
		cfg.DB = db
	}

	return cfg, nil
}
