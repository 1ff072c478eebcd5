/*
Tcon starts an interactive tunacmd server console.

It reads in a world file, restores the last snapshot of the world if one was
saved, and then reads command lines from stdin and runs them as the server
console until the "stop" command is given or input ends.

Usage:

	tcon [flags]

The flags are:

	-v, --version
		Give the current version of tunacmd and then exit.

	-w, --world FILE
		Use the provided TOML world definition file. If not given, the world
		starts with no players.

	-s, --snapshot FILE
		Restore the world from FILE if it exists, and save the world to it when
		the console exits.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout.

	--log-level LEVEL
		Log entries at LEVEL and above to stderr. One of debug, info, warn, or
		error. Defaults to warn.

	--log-file FILE
		Also write JSON log entries to FILE, rotating it as it grows.

Once a session has started, type "help" for a list of commands.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/tunacmd"
	"github.com/dekarrin/tunacmd/internal/logging"
	"github.com/dekarrin/tunacmd/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitConsoleError indicates an unsuccessful program execution due to a
	// problem while running commands.
	ExitConsoleError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of tunacmd and then exit.")
	flagWorld    = pflag.StringP("world", "w", "", "The TOML file that contains the definition of the world.")
	flagSnapshot = pflag.StringP("snapshot", "s", "", "Restore the world from and save it to this file.")
	flagDirect   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagLogLevel = pflag.String("log-level", "warn", "Minimum level of log entries to show.")
	flagLogFile  = pflag.String("log-file", "", "Also write log entries to this file.")
)

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
		fmt.Printf("%s\n", version.Current)
		return
	}

	logCfg := logging.Stderr(*flagLogLevel)
	logCfg.File = *flagLogFile
	logCfg.MaxSizeMB = 10
	logCfg.MaxBackups = 3
	log, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer log.Sync()

	eng, initErr := tunacmd.New(os.Stdin, os.Stdout, tunacmd.Options{
		WorldFile:   *flagWorld,
		Snapshot:    *flagSnapshot,
		ForceDirect: *flagDirect,
		Log:         log,
	})
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err = eng.RunUntilStop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitConsoleError
		return
	}
}
