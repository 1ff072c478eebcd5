package command

import (
	"fmt"
	"time"

	"github.com/dekarrin/tunacmd/internal/tqerrors"
	"go.uber.org/zap"
)

// Outcome is how a single call to Dispatch ended.
type Outcome int

const (
	// OutcomeSuccess means a path matched and its handler ran.
	OutcomeSuccess Outcome = iota

	// OutcomeEmpty means the command line had no tokens.
	OutcomeEmpty

	// OutcomeUnknown means no command is registered under the keyword.
	OutcomeUnknown

	// OutcomeSyntax means no path of the command matched.
	OutcomeSyntax

	// OutcomeInternal means a handler broke the contract of its tree.
	OutcomeInternal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeUnknown:
		return "unknown"
	case OutcomeSyntax:
		return "syntax"
	case OutcomeInternal:
		return "internal"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Observer is told about every call to Dispatch after it finishes. keyword is
// empty when the command line was empty or named no registered command.
//
// ObserveDispatch is called on the dispatching goroutine and must be safe for
// concurrent use if Dispatch is.
type Observer interface {
	ObserveDispatch(keyword string, outcome Outcome, elapsed time.Duration)
}

// Option configures a Dispatcher.
type Option func(d *Dispatcher)

// WithLogger sets the logger that contract violations and dispatch results are
// written to. By default nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithObserver adds an Observer to be told about every dispatch.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// Dispatcher routes command lines to the handler of the first grammar that
// matches them. It is safe for concurrent use.
type Dispatcher struct {
	trees     map[string]*Tree
	log       *zap.Logger
	observers []Observer
}

// NewDispatcher creates a Dispatcher over the commands currently in reg.
// Commands registered in reg afterwards are not seen by it.
func NewDispatcher(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		trees: make(map[string]*Tree, len(reg.trees)),
		log:   zap.NewNop(),
	}
	for k, t := range reg.trees {
		d.trees[k] = t
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch runs line on behalf of src. The first token of line selects the
// command, and each of its grammars is tried in order against the rest until
// one matches all of it, at which point its handler is run and Dispatch
// returns nil.
//
// Any returned error has a message for the sender that can be obtained with
// tqerrors.GameMessage. It matches tqerrors.ErrEmptyCommand,
// tqerrors.ErrUnknownCommand, or tqerrors.ErrSyntax when the line was at
// fault, and tqerrors.ErrInternal when the command's tree is broken. The
// details of an internal error are logged and never included in its message.
func (d *Dispatcher) Dispatch(src Sender, line string) error {
	start := time.Now()

	keyword, outcome, err := d.dispatch(src, line)

	elapsed := time.Since(start)
	for _, o := range d.observers {
		o.ObserveDispatch(keyword, outcome, elapsed)
	}
	if outcome != OutcomeInternal {
		d.log.Debug("dispatched command",
			zap.String("keyword", keyword),
			zap.Stringer("outcome", outcome),
			zap.Duration("elapsed", elapsed),
		)
	}

	return err
}

func (d *Dispatcher) dispatch(src Sender, line string) (keyword string, outcome Outcome, err error) {
	toks := Tokenize(line)
	if len(toks) < 1 {
		return "", OutcomeEmpty, tqerrors.EmptyCommand()
	}

	keyword = toks[0]
	tree, ok := d.trees[keyword]
	if !ok {
		return "", OutcomeUnknown, tqerrors.UnknownCommand(keyword)
	}

	args := NewRawArgs(toks[1:])
	for _, path := range tree.Paths() {
		matched, violation := tryPath(tree, path, src, args.Clone())
		if violation != nil {
			d.log.Error("command tree contract violated",
				zap.String("command", line),
				zap.String("keyword", keyword),
				zap.Stringer("kind", violation.Kind),
				zap.String("detail", violation.Detail),
				zap.String("sender", src.Name()),
			)
			return keyword, OutcomeInternal, tqerrors.Internal(fmt.Sprintf("%s: %s", keyword, violation.Error()))
		}
		if matched {
			return keyword, OutcomeSuccess, nil
		}
	}

	return keyword, OutcomeSyntax, tqerrors.Syntax(tree.FormatUsage(keyword))
}

// tryPath walks path against args. If every node matches and the handler ran,
// matched is true. A non-nil violation means the handler failed and no further
// paths may be tried.
func tryPath(tree *Tree, path []int, src Sender, args *RawArgs) (matched bool, violation *TreeError) {
	parsed := ConsumedArgs{}

	for _, idx := range path {
		switch node := tree.nodes[idx].Type.(type) {
		case LiteralNode:
			tok, ok := args.Pop()
			if !ok || tok != node.Text {
				return false, nil
			}
		case ArgumentNode:
			val, ok := node.Consumer.Consume(src, args)
			if !ok {
				return false, nil
			}
			parsed[node.Name] = val
		case RequireNode:
			if !node.Predicate.Test(src) {
				return false, nil
			}
		case ExecuteNode:
			if !args.Empty() {
				return false, nil
			}
			if err := node.Handler.Run(src, parsed); err != nil {
				return false, asTreeError(err)
			}
			return true, nil
		}
	}

	// ran out of nodes without reaching a leaf
	return false, nil
}
