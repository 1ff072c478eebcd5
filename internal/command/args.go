package command

// RawArgs is the stack of tokens of a command line that have not yet been
// consumed. The next token to pop is always the leftmost remaining one.
//
// The zero value is an empty stack.
type RawArgs struct {
	// stored in reverse so that the next token is at the end.
	toks []string
}

// NewRawArgs creates a RawArgs that will give back tokens in the same order
// they are in the given slice. The slice is not modified.
func NewRawArgs(tokens []string) *RawArgs {
	rev := make([]string, len(tokens))
	for i := range tokens {
		rev[len(tokens)-1-i] = tokens[i]
	}
	return &RawArgs{toks: rev}
}

// Pop removes and returns the next token. If there are none left, ok is false.
func (ra *RawArgs) Pop() (tok string, ok bool) {
	if len(ra.toks) < 1 {
		return "", false
	}
	tok = ra.toks[len(ra.toks)-1]
	ra.toks = ra.toks[:len(ra.toks)-1]
	return tok, true
}

// Peek returns the next token without removing it. If there are none left, ok
// is false.
func (ra *RawArgs) Peek() (tok string, ok bool) {
	if len(ra.toks) < 1 {
		return "", false
	}
	return ra.toks[len(ra.toks)-1], true
}

// Take removes and returns the next n tokens in order. If fewer than n remain,
// nothing is removed and ok is false.
func (ra *RawArgs) Take(n int) (toks []string, ok bool) {
	if n < 0 || n > len(ra.toks) {
		return nil, false
	}
	toks = make([]string, n)
	for i := 0; i < n; i++ {
		toks[i], _ = ra.Pop()
	}
	return toks, true
}

// Drain removes and returns every remaining token in order.
func (ra *RawArgs) Drain() []string {
	toks, _ := ra.Take(len(ra.toks))
	return toks
}

// Len returns the number of tokens left.
func (ra *RawArgs) Len() int {
	return len(ra.toks)
}

// Empty returns whether no tokens are left.
func (ra *RawArgs) Empty() bool {
	return len(ra.toks) == 0
}

// Remaining returns the tokens left, in the order they would be popped,
// without removing them.
func (ra *RawArgs) Remaining() []string {
	return ra.Clone().Drain()
}

// Clone returns an independent copy of ra. Popping from one does not affect
// the other.
func (ra *RawArgs) Clone() *RawArgs {
	cp := make([]string, len(ra.toks))
	copy(cp, ra.toks)
	return &RawArgs{toks: cp}
}

// ConsumedArgs holds the values produced by the argument nodes of a path,
// keyed by argument name.
type ConsumedArgs map[string]any

// Arg gets the argument called name from args as a T. If it is missing or is
// not a T, the returned error is an InvalidConsumption TreeError; a handler
// can return it as-is.
func Arg[T any](args ConsumedArgs, name string) (T, error) {
	var zero T

	raw, ok := args[name]
	if !ok {
		return zero, InvalidConsumptionf("argument %q was never consumed", name)
	}
	val, ok := raw.(T)
	if !ok {
		return zero, InvalidConsumptionf("argument %q holds a %T, not a %T", name, raw, zero)
	}
	return val, nil
}

// OptionalArg is like Arg but treats a missing argument as valid, for
// handlers shared by paths that do and do not include it. present is false if
// it was not consumed.
func OptionalArg[T any](args ConsumedArgs, name string) (val T, present bool, err error) {
	if _, ok := args[name]; !ok {
		return val, false, nil
	}
	val, err = Arg[T](args, name)
	return val, err == nil, err
}
