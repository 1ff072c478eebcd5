package command

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dekarrin/tunacmd/internal/tqerrors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testSender struct {
	name  string
	kind  SenderKind
	level int
	msgs  []string
}

func (s *testSender) Name() string { return s.name }
func (s *testSender) Kind() SenderKind { return s.kind }
func (s *testSender) PermissionLevel() int { return s.level }
func (s *testSender) SendMessage(m string) { s.msgs = append(s.msgs, m) }

// trace records the order in which nodes of a tree were evaluated.
type trace struct {
	events []string
}

func (tr *trace) literalConsumer(name string) Consumer {
	return ConsumerFunc(func(_ Sender, args *RawArgs) (any, bool) {
		tr.events = append(tr.events, "consume:"+name)
		return args.Pop()
	})
}

func (tr *trace) predicate(name string, result bool) Predicate {
	return PredicateFunc(func(Sender) bool {
		tr.events = append(tr.events, "require:"+name)
		return result
	})
}

func (tr *trace) handler(name string) Handler {
	return HandlerFunc(func(_ Sender, args ConsumedArgs) error {
		tr.events = append(tr.events, "exec:"+name)
		return nil
	})
}

type recordingObserver struct {
	keywords []string
	outcomes []Outcome
}

func (ro *recordingObserver) ObserveDispatch(keyword string, outcome Outcome, _ time.Duration) {
	ro.keywords = append(ro.keywords, keyword)
	ro.outcomes = append(ro.outcomes, outcome)
}

// modeConsumer accepts only the names of game modes.
func modeConsumer() Consumer {
	return ConsumerFunc(func(_ Sender, args *RawArgs) (any, bool) {
		tok, ok := args.Peek()
		if !ok {
			return nil, false
		}
		switch tok {
		case "survival", "creative", "adventure", "spectator":
			args.Pop()
			return tok, true
		default:
			return nil, false
		}
	})
}

// gamemodeFixture builds the gamemode command with a literal shortcut path
// followed by a general argument path.
func gamemodeFixture() (*Dispatcher, *[]string, *[]ConsumedArgs) {
	var ran []string
	var gotArgs []ConsumedArgs

	record := func(name string) Handler {
		return HandlerFunc(func(_ Sender, args ConsumedArgs) error {
			ran = append(ran, name)
			gotArgs = append(gotArgs, args)
			return nil
		})
	}

	reg := NewRegistry()
	reg.MustRegister(NewTree("change game mode",
		Literal("survival").Execute(record("literal")),
		Argument("mode", modeConsumer()).Execute(record("argument")),
	), "gamemode")

	return NewDispatcher(reg), &ran, &gotArgs
}

func Test_Dispatch_gamemodeScenarios(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectRan   []string
		expectArgs  []ConsumedArgs
		expectErrIs error
		expectMsg   string
	}{
		{
			name:       "literal path wins for survival",
			input:      "gamemode survival",
			expectRan:  []string{"literal"},
			expectArgs: []ConsumedArgs{{}},
		},
		{
			name:       "literal mismatch falls through to argument",
			input:      "gamemode creative",
			expectRan:  []string{"argument"},
			expectArgs: []ConsumedArgs{{"mode": "creative"}},
		},
		{
			name:        "no tokens after keyword matches nothing",
			input:       "gamemode",
			expectErrIs: tqerrors.ErrSyntax,
			expectMsg:   "Invalid syntax. Usage:\ngamemode survival\ngamemode <mode>",
		},
		{
			name:        "empty line",
			input:       "",
			expectErrIs: tqerrors.ErrEmptyCommand,
			expectMsg:   "Empty command",
		},
		{
			name:        "unregistered keyword",
			input:       "foo bar",
			expectErrIs: tqerrors.ErrUnknownCommand,
			expectMsg:   `Unknown command "foo"`,
		},
		{
			name:        "consumer rejects value",
			input:       "gamemode hardcore",
			expectErrIs: tqerrors.ErrSyntax,
		},
		{
			name:        "trailing token after literal",
			input:       "gamemode survival now",
			expectErrIs: tqerrors.ErrSyntax,
		},
		{
			name:       "extra whitespace is ignored",
			input:      "  gamemode\t\tcreative \n",
			expectRan:  []string{"argument"},
			expectArgs: []ConsumedArgs{{"mode": "creative"}},
		},
		{
			name:        "keyword is case-sensitive",
			input:       "GAMEMODE creative",
			expectErrIs: tqerrors.ErrUnknownCommand,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			d, ran, gotArgs := gamemodeFixture()
			src := &testSender{name: "steve", kind: SenderPlayer}

			err := d.Dispatch(src, tc.input)

			if tc.expectErrIs != nil {
				assert.ErrorIs(err, tc.expectErrIs)
				if tc.expectMsg != "" {
					assert.Equal(tc.expectMsg, tqerrors.GameMessage(err))
				}
				assert.Empty(*ran)
				return
			}

			assert.NoError(err)
			assert.Equal(tc.expectRan, *ran)
			assert.Equal(tc.expectArgs, *gotArgs)
		})
	}
}

func Test_Dispatch_emptyDoesNoLookup(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n\r\f  "} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			assert := assert.New(t)

			obs := &recordingObserver{}
			d := NewDispatcher(NewRegistry(), WithObserver(obs))

			err := d.Dispatch(&testSender{}, input)

			assert.ErrorIs(err, tqerrors.ErrEmptyCommand)
			assert.Equal([]string{""}, obs.keywords)
			assert.Equal([]Outcome{OutcomeEmpty}, obs.outcomes)
		})
	}
}

func Test_Dispatch_unknownEvaluatesNoNode(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		Require(tr.predicate("any", true)).With(
			Argument("x", tr.literalConsumer("x")).Execute(tr.handler("x")),
		),
	), "known")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "unknown x")

	assert.ErrorIs(err, tqerrors.ErrUnknownCommand)
	assert.Empty(tr.events)
}

func Test_Dispatch_firstMatchWins(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		Argument("a", tr.literalConsumer("first")).Execute(tr.handler("first")),
		Argument("b", tr.literalConsumer("second")).Execute(tr.handler("second")),
	), "amb")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "amb anything")

	assert.NoError(err)
	assert.Equal([]string{"consume:first", "exec:first"}, tr.events)
}

func Test_Dispatch_trailingTokensRejected(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		Literal("a").With(Literal("b").Execute(tr.handler("short"))),
		Literal("a").With(Literal("b").With(Literal("c").Execute(tr.handler("long")))),
	), "cmd")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "cmd a b c")
	assert.NoError(err)
	assert.Equal([]string{"exec:long"}, tr.events)

	tr.events = nil
	err = d.Dispatch(&testSender{}, "cmd a b c d")
	assert.ErrorIs(err, tqerrors.ErrSyntax)
	assert.Empty(tr.events)
}

func Test_Dispatch_requireFalseStopsPath(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	var seenByFallback []string
	fallback := ConsumerFunc(func(_ Sender, args *RawArgs) (any, bool) {
		seenByFallback = args.Remaining()
		return args.Drain(), true
	})

	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		Require(tr.predicate("op", false)).With(
			Argument("restricted", tr.literalConsumer("restricted")).Execute(tr.handler("restricted")),
		),
		Argument("rest", fallback).Execute(tr.handler("fallback")),
	), "cmd")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "cmd x y")

	assert.NoError(err)
	assert.Equal([]string{"require:op", "exec:fallback"}, tr.events)
	assert.Equal([]string{"x", "y"}, seenByFallback, "later path sees every token")
}

func Test_Dispatch_requireFalseEverywhereIsSyntax(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		Require(tr.predicate("op", false)).With(
			Literal("reload").Execute(tr.handler("reload")),
		),
		Literal("status").Execute(tr.handler("status")),
	), "server")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "server reload")

	assert.ErrorIs(err, tqerrors.ErrSyntax)
	assert.Equal("Invalid syntax. Usage:\nserver reload\nserver status", tqerrors.GameMessage(err))
	assert.Equal([]string{"require:op"}, tr.events)
}

func Test_Dispatch_failedPathDoesNotLeakConsumption(t *testing.T) {
	assert := assert.New(t)

	var got ConsumedArgs
	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		// consumes "x" then fails at the literal
		Argument("first", wordConsumer()).With(Literal("never").Execute(nopHandler())),
		Argument("second", wordConsumer()).Execute(HandlerFunc(func(_ Sender, args ConsumedArgs) error {
			got = args
			return nil
		})),
	), "cmd")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "cmd x")

	assert.NoError(err)
	assert.Equal(ConsumedArgs{"second": "x"}, got)
}

func Test_Dispatch_usageHasOneLinePerPath(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	tree := NewTree("",
		Literal("a").Execute(nopHandler()),
		Literal("b").With(
			Argument("x", modeConsumer()).Execute(nopHandler()),
			Literal("c").Execute(nopHandler()),
		),
		Require(allowAll()).With(Literal("d").Execute(nopHandler())),
	)
	reg.MustRegister(tree, "multi")
	d := NewDispatcher(reg)

	err := d.Dispatch(&testSender{}, "multi zzz")

	assert.ErrorIs(err, tqerrors.ErrSyntax)
	msg := tqerrors.GameMessage(err)
	lines := strings.Split(strings.TrimPrefix(msg, "Invalid syntax. Usage:\n"), "\n")
	assert.Len(lines, len(tree.Paths()))
	assert.Equal([]string{"multi a", "multi b <x>", "multi b c", "multi d"}, lines)
}

func Test_Dispatch_contractViolations(t *testing.T) {
	testCases := []struct {
		name       string
		handlerErr error
		expectKind TreeErrorKind
	}{
		{
			name:       "plain error is invalid consumption",
			handlerErr: errors.New("value out of range"),
			expectKind: InvalidConsumption,
		},
		{
			name:       "invalid consumption from Arg",
			handlerErr: InvalidConsumptionf("argument %q holds a string, not a int", "n"),
			expectKind: InvalidConsumption,
		},
		{
			name:       "invalid requirement",
			handlerErr: ErrInvalidRequirement,
			expectKind: InvalidRequirement,
		},
		{
			name:       "wrapped invalid requirement",
			handlerErr: fmt.Errorf("sender is not a player: %w", ErrInvalidRequirement),
			expectKind: InvalidRequirement,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tr := &trace{}
			failing := HandlerFunc(func(Sender, ConsumedArgs) error {
				tr.events = append(tr.events, "exec:failing")
				return tc.handlerErr
			})

			core, logs := observer.New(zapcore.DebugLevel)
			obs := &recordingObserver{}

			reg := NewRegistry()
			reg.MustRegister(NewTree("",
				Argument("v", tr.literalConsumer("v")).Execute(failing),
				Argument("w", tr.literalConsumer("w")).Execute(tr.handler("later")),
			), "broken")
			d := NewDispatcher(reg, WithLogger(zap.New(core)), WithObserver(obs))

			src := &testSender{name: "alex"}
			err := d.Dispatch(src, "broken 7")

			assert.ErrorIs(err, tqerrors.ErrInternal)
			assert.Equal(tqerrors.InternalMessage, tqerrors.GameMessage(err))
			assert.Equal([]string{"consume:v", "exec:failing"}, tr.events, "no later path is tried")
			assert.Equal([]Outcome{OutcomeInternal}, obs.outcomes)
			assert.Equal([]string{"broken"}, obs.keywords)

			entries := logs.FilterMessage("command tree contract violated").All()
			if !assert.Len(entries, 1) {
				return
			}
			fields := entries[0].ContextMap()
			assert.Equal(zapcore.ErrorLevel, entries[0].Level)
			assert.Equal("broken 7", fields["command"])
			assert.Equal("broken", fields["keyword"])
			assert.Equal(tc.expectKind.String(), fields["kind"])
			assert.Equal("alex", fields["sender"])
			assert.Contains(err.Error(), tc.expectKind.String())
		})
	}
}

func Test_Dispatch_concurrentUse(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	reg.MustRegister(NewTree("",
		Literal("survival").Execute(nopHandler()),
		Argument("mode", modeConsumer()).Execute(nopHandler()),
	), "gamemode")
	d := NewDispatcher(reg)

	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		go func(i int) {
			line := "gamemode creative"
			if i%2 == 0 {
				line = "gamemode nonsense"
			}
			errs <- d.Dispatch(&testSender{}, line)
		}(i)
	}

	var syntaxErrs int
	for i := 0; i < 50; i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(err, tqerrors.ErrSyntax)
			syntaxErrs++
		}
	}
	assert.Equal(25, syntaxErrs)
}

func Test_Dispatcher_snapshotsRegistry(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	d := NewDispatcher(reg)
	reg.MustRegister(NewTree("", Execute(nopHandler())), "late")

	err := d.Dispatch(&testSender{}, "late")

	assert.ErrorIs(err, tqerrors.ErrUnknownCommand)
}
