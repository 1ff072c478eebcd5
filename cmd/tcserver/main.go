/*
Tcserver starts a tunacmd server and begins listening for new connections.

Usage:

	tcserver [flags]
	tcserver [flags] -l [[ADDRESS]:PORT]

Once started, the server loads its world and listens for HTTP requests,
responding to them using REST protocol. Logged-in accounts send commands to
the world through the API. By default, it will listen on localhost:8080. This
can be changed with the --listen/-l flag (or config via environment var). The
flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the IP address preceeded by a colon, such as
":6001".

Unless --headless is given, the server console also reads commands from stdin
just as tcon does. The server shuts down when the "stop" command is run from
either place, or when it is interrupted.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
config file, CLI flags, or environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the tunacmd server and then exit.

	-c, --config FILE
		Read settings from the given TOML config file. Flags and environment
		variables override values in the file. If not given, will default to
		the value of environment variable TUNACMD_CONFIG.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		TUNACMD_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable TUNACMD_TOKEN_SECRET. If no secret is specified, a random
		secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable TUNACMD_DATABASE. If no DB driver
		is specified, an in-memory database is automatically selected.

	-w, --world FILE
		Use the provided TOML world definition file.

	--snapshot FILE
		Restore the world from FILE if it exists, and save it there at shutdown.

	-d, --direct
		Read console commands directly from stdin instead of through readline.

	--headless
		Do not read console commands at all.

	--log-level LEVEL
		Log entries at LEVEL and above. One of debug, info, warn, or error.

	--log-file FILE
		Also write JSON log entries to FILE, rotating it as it grows.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dekarrin/tunacmd"
	"github.com/dekarrin/tunacmd/internal/logging"
	"github.com/dekarrin/tunacmd/internal/metrics"
	"github.com/dekarrin/tunacmd/internal/version"
	"github.com/dekarrin/tunacmd/server"
	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	EnvConfig = "TUNACMD_CONFIG"
	EnvListen = "TUNACMD_LISTEN_ADDRESS"
	EnvSecret = "TUNACMD_TOKEN_SECRET"
	EnvDB     = "TUNACMD_DATABASE"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitServerError indicates the server failed while running.
	ExitServerError

	// ExitInitError indicates the server could not be started.
	ExitInitError
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of tunacmd server and then exit.")
	flagConfig   = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB       = pflag.String("db", "", "Use the given DB connection string.")
	flagWorld    = pflag.StringP("world", "w", "", "The TOML file that contains the definition of the world.")
	flagSnapshot = pflag.String("snapshot", "", "Restore the world from and save it to this file.")
	flagDirect   = pflag.BoolP("direct", "d", false, "Read console commands directly from stdin.")
	flagHeadless = pflag.Bool("headless", false, "Do not read console commands.")
	flagLogLevel = pflag.String("log-level", "", "Minimum level of log entries to write.")
	flagLogFile  = pflag.String("log-file", "", "Also write log entries to this file.")
)

var returnCode = ExitSuccess

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (tunacmd v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		returnCode = ExitInitError
		return
	}

	log, err := logging.New(cfg.LogConfig(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		if errors.Is(err, errInit) {
			returnCode = ExitInitError
		} else {
			returnCode = ExitServerError
		}
	}
}

var errInit = errors.New("initialization failed")

// loadConfig reads the config file if there is one and then applies
// environment variables and flags on top of it.
func loadConfig() (server.Config, error) {
	var cfg server.Config

	cfgFile := os.Getenv(EnvConfig)
	if pflag.Lookup("config").Changed {
		cfgFile = *flagConfig
	}
	if cfgFile != "" {
		var err error
		cfg, err = server.LoadConfigFile(cfgFile)
		if err != nil {
			return cfg, err
		}
	}

	if listenAddr := stringSetting("listen", flagListen, EnvListen); listenAddr != "" {
		cfg.ListenAddress = listenAddr
	}

	if dbConnStr := stringSetting("db", flagDB, EnvDB); dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			return cfg, fmt.Errorf("Not a valid DB string: %w", err)
		}
		cfg.DB = db
	}

	if tokSecStr := stringSetting("secret", flagSecret, EnvSecret); tokSecStr != "" || cfg.TokenSecret == nil {
		secret, generated, err := server.ParseTokenSecret(tokSecStr)
		if err != nil {
			return cfg, err
		}
		cfg.TokenSecret = secret
		if generated {
			// yell at the user bc they should know their secret might be bad
			fmt.Fprintf(os.Stderr, "WARN  Using generated token secret; all tokens issued will become invalid at shutdown\n")
		}
	}

	if pflag.Lookup("world").Changed {
		cfg.WorldFile = *flagWorld
	}
	if pflag.Lookup("snapshot").Changed {
		cfg.Snapshot = *flagSnapshot
	}
	if pflag.Lookup("log-level").Changed {
		cfg.LogLevel = *flagLogLevel
	}
	if pflag.Lookup("log-file").Changed {
		cfg.LogFile = *flagLogFile
	}

	cfg = cfg.FillDefaults()
	return cfg, cfg.Validate()
}

// stringSetting gives the value of the named flag if it was set, and
// otherwise the value of the environment variable.
func stringSetting(flagName string, flagVal *string, env string) string {
	if pflag.Lookup(flagName).Changed {
		return *flagVal
	}
	return os.Getenv(env)
}

func run(cfg server.Config, log *zap.Logger) error {
	m := metrics.NewDispatch(nil)

	eng, err := tunacmd.New(os.Stdin, os.Stdout, tunacmd.Options{
		WorldFile:   cfg.WorldFile,
		Snapshot:    cfg.Snapshot,
		ForceDirect: *flagDirect || *flagHeadless,
		Log:         log,
		Observer:    m,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errInit, err)
	}
	defer eng.Close()

	srv, err := server.New(cfg, server.Backend{
		Registry:   eng.Registry(),
		Dispatcher: eng.Dispatcher(),
		World:      eng.World(),
		Metrics:    m.Handler(),
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errInit, err)
	}

	// immediately create the admin account so we have someone we can log in
	// as.
	_, created, err := srv.Service().EnsureAccount(context.Background(), "admin", "password", dao.Admin)
	if err != nil {
		srv.Close()
		return fmt.Errorf("%w: could not create initial admin account: %w", errInit, err)
	}
	if created {
		log.Warn("added initial admin account with password 'password'")
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting tunacmd server", zap.String("version", version.ServerCurrent))
		serveErr <- srv.ListenAndServe()
		eng.World().Stop()
	}()

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	var runErr error
	if *flagHeadless {
		runErr = eng.WaitForStop(ctx)
	} else {
		go func() {
			<-ctx.Done()
			eng.World().Stop()
		}()
		runErr = eng.RunUntilStop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil {
		return err
	}

	return runErr
}
