// Package tunacmd contains a console-driven engine that reads command lines
// from an operator and dispatches them against the game world until the server
// is stopped.
package tunacmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/tunacmd/internal/builtin"
	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/internal/input"
	"github.com/dekarrin/tunacmd/internal/tqerrors"
	"go.uber.org/zap"
)

const consoleOutputWidth = 80

// Options configures an Engine.
type Options struct {
	// WorldFile is the TOML world definition to start from. If empty, the
	// world starts with no players.
	WorldFile string

	// Snapshot is a file the world is restored from at startup, if it
	// exists, and saved to when the engine stops. If empty, nothing is
	// saved.
	Snapshot string

	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool

	// Log receives dispatch and world logs. If nil, nothing is logged.
	Log *zap.Logger

	// Observer is told about every dispatched command.
	Observer command.Observer
}

// Engine runs commands typed at the server console.
type Engine struct {
	world   *game.World
	reg     *command.Registry
	disp    *command.Dispatcher
	console *game.Console
	in      input.Reader
	out     io.Writer
	opts    Options
	log     *zap.Logger
	running bool
}

// New creates a new engine that reads from inputStream and writes to
// outputStream. If nil is given for the input stream, stdin is used. If nil is
// given for the output stream, stdout is used. Readline is used only when both
// are the terminal and opts.ForceDirect is not set.
func New(inputStream io.Reader, outputStream io.Writer, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	world, err := loadWorld(opts, log)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		world: world,
		out:   outputStream,
		opts:  opts,
		log:   log,
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		ir, err := input.NewInteractiveReader("> ")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		eng.in = ir
		eng.out = ir.Stdout()
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	eng.console = game.NewConsole(eng.out, consoleOutputWidth)
	world.Listen(eng.console)

	dispOpts := []command.Option{command.WithLogger(log.Named("dispatch"))}
	if opts.Observer != nil {
		dispOpts = append(dispOpts, command.WithObserver(opts.Observer))
	}
	eng.reg = builtin.Standard(world)
	eng.disp = command.NewDispatcher(eng.reg, dispOpts...)

	return eng, nil
}

func loadWorld(opts Options, log *zap.Logger) (*game.World, error) {
	def := game.WorldDef{Name: "world"}
	if opts.WorldFile != "" {
		var err error
		def, err = game.LoadWorldDefFile(opts.WorldFile)
		if err != nil {
			return nil, err
		}
	}

	world, err := game.NewWorldFromDef(def, log.Named("world"))
	if err != nil {
		return nil, fmt.Errorf("initializing world: %w", err)
	}

	if opts.Snapshot != "" {
		err := world.LoadSnapshot(opts.Snapshot)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			log.Info("restored world snapshot", zap.String("file", opts.Snapshot))
		}
	}

	return world, nil
}

// World is the world that commands run against.
func (eng *Engine) World() *game.World {
	return eng.world
}

// Registry holds every command the engine's dispatcher knows.
func (eng *Engine) Registry() *command.Registry {
	return eng.reg
}

// Dispatcher is the dispatcher the engine sends console commands to. It may be
// shared with other sources of commands.
func (eng *Engine) Dispatcher() *command.Dispatcher {
	return eng.disp
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode. In direct mode the
// input stream is closed if it is an io.Closer, which lets the goroutine
// reading it exit when the world was stopped while it waited for a line.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

type readResult struct {
	line string
	err  error
}

// readLines sends every line read to lines until reading fails or the world
// stops.
func (eng *Engine) readLines(lines chan<- readResult) {
	for {
		line, err := eng.in.ReadLine()
		select {
		case lines <- readResult{line, err}:
		case <-eng.world.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// RunUntilStop reads command lines and dispatches them as the console until
// the world is stopped or input ends. The world may also be stopped by a
// command sent from elsewhere. The world is stopped and, if a snapshot file
// was given, saved before it returns.
func (eng *Engine) RunUntilStop() error {
	// output goes through the console so it cannot interleave with messages
	// sent by commands from elsewhere
	introMsg := "tunacmd console for world " + eng.world.Name() + "\n"
	if eng.opts.ForceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "Type \"help\" for a list of commands."
	eng.console.SendMessage(introMsg)

	eng.running = true
	defer func() {
		eng.running = false
	}()

	lines := make(chan readResult)
	go eng.readLines(lines)

	for !eng.world.Stopped() {
		var rr readResult
		select {
		case <-eng.world.Done():
			continue
		case rr = <-lines:
		}

		if rr.err == io.EOF {
			eng.world.Stop()
			break
		}
		if rr.err != nil {
			eng.world.Stop()
			return fmt.Errorf("get console command: %w", rr.err)
		}

		if err := eng.disp.Dispatch(eng.console, rr.line); err != nil {
			eng.console.SendMessage(tqerrors.GameMessage(err))
		}
	}

	return eng.finish()
}

// WaitForStop runs the engine without reading any input, for when commands
// only come from elsewhere. It returns once the world is stopped, or stops
// the world itself once ctx is done. The world is saved the same as with
// RunUntilStop.
func (eng *Engine) WaitForStop(ctx context.Context) error {
	eng.running = true
	defer func() {
		eng.running = false
	}()

	select {
	case <-eng.world.Done():
	case <-ctx.Done():
		eng.log.Info("stopping world", zap.Error(ctx.Err()))
		eng.world.Stop()
	}

	return eng.finish()
}

func (eng *Engine) finish() error {
	if eng.opts.Snapshot != "" {
		if err := eng.world.SaveSnapshot(eng.opts.Snapshot); err != nil {
			return err
		}
		eng.log.Info("saved world snapshot", zap.String("file", eng.opts.Snapshot))
	}

	eng.console.SendMessage("Goodbye")
	return nil
}
