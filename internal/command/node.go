package command

// NodeType is one step of a grammar. It is always one of LiteralNode,
// ArgumentNode, RequireNode, or ExecuteNode; no other type can implement it.
type NodeType interface {
	nodeType()
}

// LiteralNode matches exactly one token that is equal to Text. Comparison is
// case-sensitive.
type LiteralNode struct {
	Text string
}

// ArgumentNode gives the remaining tokens to Consumer, which may take any
// number of them to produce a value. The value is made available to the
// handler under Name.
type ArgumentNode struct {
	Name     string
	Consumer Consumer
}

// RequireNode lets the path continue only if Predicate holds for the sender.
// It never consumes tokens.
type RequireNode struct {
	Predicate Predicate
}

// ExecuteNode ends a path. Its Handler is run when every token of the command
// line was consumed by the nodes before it.
type ExecuteNode struct {
	Handler Handler
}

func (LiteralNode) nodeType()  {}
func (ArgumentNode) nodeType() {}
func (RequireNode) nodeType()  {}
func (ExecuteNode) nodeType()  {}

// Node is an entry in a Tree. Children holds the indexes within the same tree
// of the nodes that may follow this one, in the order they were declared.
type Node struct {
	Type     NodeType
	Children []int
}

// Consumer turns tokens at the front of a command line into an argument value.
//
// Consume is given the sender and the tokens not yet consumed. If the tokens
// make a valid value, it pops the ones it used and returns the value with ok
// set to true. Otherwise it returns ok as false and must leave args as it
// found it.
type Consumer interface {
	Consume(src Sender, args *RawArgs) (value any, ok bool)
}

// ConsumerFunc is an adapter that allows an ordinary function to be used as a
// Consumer.
type ConsumerFunc func(src Sender, args *RawArgs) (any, bool)

// Consume calls f(src, args).
func (f ConsumerFunc) Consume(src Sender, args *RawArgs) (any, bool) {
	return f(src, args)
}

// Predicate decides whether a sender may go further down a path.
type Predicate interface {
	Test(src Sender) bool
}

// PredicateFunc is an adapter that allows an ordinary function to be used as a
// Predicate.
type PredicateFunc func(src Sender) bool

// Test calls f(src).
func (f PredicateFunc) Test(src Sender) bool {
	return f(src)
}

// Handler performs the effect of a command once its grammar has fully
// matched.
//
// By the time Run is called every argument in args has already been accepted
// by its consumer, so Run should report problems the sender can fix by
// sending them a message and returning nil. A non-nil error means the tree
// itself is wrong: the dispatcher aborts, logs it, and shows the sender only a
// generic internal error. Return ErrInvalidRequirement (or an error wrapping
// it) when a requirement the handler relies on turned out not to hold, and use
// Arg to read arguments so that a mistyped one is reported correctly.
type Handler interface {
	Run(src Sender, args ConsumedArgs) error
}

// HandlerFunc is an adapter that allows an ordinary function to be used as a
// Handler.
type HandlerFunc func(src Sender, args ConsumedArgs) error

// Run calls f(src, args).
func (f HandlerFunc) Run(src Sender, args ConsumedArgs) error {
	return f(src, args)
}
