package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nopHandler() Handler {
	return HandlerFunc(func(Sender, ConsumedArgs) error { return nil })
}

func wordConsumer() Consumer {
	return ConsumerFunc(func(_ Sender, args *RawArgs) (any, bool) {
		return args.Pop()
	})
}

func allowAll() Predicate {
	return PredicateFunc(func(Sender) bool { return true })
}

func Test_Tree_Paths(t *testing.T) {
	// give ---- <player> -+-- <item> --------------- exec   (path 0)
	//                     +-- Require -- <item> -+-- exec   (path 1)
	//                                            +-- <n> -- exec  (path 2)
	// give ---- all --- exec                                 (path 3)
	tree := NewTree("give things",
		Argument("player", wordConsumer()).With(
			Argument("item", wordConsumer()).Execute(nopHandler()),
			Require(allowAll()).With(
				Argument("item", wordConsumer()).With(
					Execute(nopHandler()),
					Argument("n", wordConsumer()).Execute(nopHandler()),
				),
			),
		),
		Literal("all").Execute(nopHandler()),
	)

	paths := tree.Paths()

	assert := assert.New(t)
	if !assert.Len(paths, 4) {
		return
	}

	expectTypes := [][]string{
		{"arg:player", "arg:item", "exec"},
		{"arg:player", "require", "arg:item", "exec"},
		{"arg:player", "require", "arg:item", "arg:n", "exec"},
		{"lit:all", "exec"},
	}
	for i, p := range paths {
		actual := make([]string, len(p))
		for j, idx := range p {
			switch nt := tree.Node(idx).Type.(type) {
			case LiteralNode:
				actual[j] = "lit:" + nt.Text
			case ArgumentNode:
				actual[j] = "arg:" + nt.Name
			case RequireNode:
				actual[j] = "require"
			case ExecuteNode:
				actual[j] = "exec"
			}
		}
		assert.Equal(expectTypes[i], actual, "path %d", i)
	}

	// paths are rebuilt each call, so modifying one is harmless
	paths[0][0] = 999
	assert.NotEqual(999, tree.Paths()[0][0])
}

func Test_Tree_Paths_siblingsDoNotAlias(t *testing.T) {
	assert := assert.New(t)

	tree := NewTree("",
		Literal("a").With(
			Literal("b").Execute(nopHandler()),
			Literal("c").Execute(nopHandler()),
			Literal("d").Execute(nopHandler()),
		),
	)

	assert.Equal("x a b\nx a c\nx a d", tree.FormatUsage("x"))
}

func Test_Tree_FormatUsage(t *testing.T) {
	testCases := []struct {
		name    string
		tree    *Tree
		keyword string
		expect  string
	}{
		{
			name:    "bare keyword",
			tree:    NewTree("", Execute(nopHandler())),
			keyword: "list",
			expect:  "list",
		},
		{
			name: "literal and argument alternatives",
			tree: NewTree("",
				Literal("survival").Execute(nopHandler()),
				Argument("mode", wordConsumer()).Execute(nopHandler()),
			),
			keyword: "gamemode",
			expect:  "gamemode survival\ngamemode <mode>",
		},
		{
			name: "requirements are not shown",
			tree: NewTree("",
				Require(allowAll()).With(
					Argument("player", wordConsumer()).With(
						Literal("to").With(
							Argument("target", wordConsumer()).Execute(nopHandler()),
						),
					),
				),
			),
			keyword: "tp",
			expect:  "tp <player> to <target>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.tree.FormatUsage(tc.keyword)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Tree_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		tree      *Tree
		expectErr bool
	}{
		{
			name: "valid",
			tree: NewTree("",
				Literal("a").Execute(nopHandler()),
				Argument("x", wordConsumer()).With(
					Require(allowAll()).Execute(nopHandler()),
				),
			),
		},
		{
			name:      "no grammars",
			tree:      NewTree(""),
			expectErr: true,
		},
		{
			name:      "leaf with children",
			tree:      NewTree("", Execute(nopHandler()).With(Literal("a").Execute(nopHandler()))),
			expectErr: true,
		},
		{
			name:      "leaf without handler",
			tree:      NewTree("", Literal("a").Execute(nil)),
			expectErr: true,
		},
		{
			name:      "branch without leaf",
			tree:      NewTree("", Literal("a").With(Literal("b"))),
			expectErr: true,
		},
		{
			name:      "literal with space",
			tree:      NewTree("", Literal("a b").Execute(nopHandler())),
			expectErr: true,
		},
		{
			name:      "empty literal",
			tree:      NewTree("", Literal("").Execute(nopHandler())),
			expectErr: true,
		},
		{
			name:      "argument without name",
			tree:      NewTree("", Argument("", wordConsumer()).Execute(nopHandler())),
			expectErr: true,
		},
		{
			name:      "argument without consumer",
			tree:      NewTree("", Argument("x", nil).Execute(nopHandler())),
			expectErr: true,
		},
		{
			name:      "require without predicate",
			tree:      NewTree("", Require(nil).Execute(nopHandler())),
			expectErr: true,
		},
		{
			name: "argument name repeated on one path",
			tree: NewTree("",
				Argument("x", wordConsumer()).With(
					Argument("x", wordConsumer()).Execute(nopHandler()),
				),
			),
			expectErr: true,
		},
		{
			name: "argument name repeated on different paths",
			tree: NewTree("",
				Argument("x", wordConsumer()).Execute(nopHandler()),
				Literal("a").With(
					Argument("x", wordConsumer()).Execute(nopHandler()),
				),
			),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.tree.Validate()

			if tc.expectErr {
				assert.ErrorIs(err, ErrInvalidTree)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Registry_Register(t *testing.T) {
	tree := func() *Tree {
		return NewTree("does a thing", Execute(nopHandler()))
	}

	t.Run("name and aliases", func(t *testing.T) {
		assert := assert.New(t)

		reg := NewRegistry()
		tr := tree()
		err := reg.Register(tr, "tell", "msg", "w")

		assert.NoError(err)
		for _, kw := range []string{"tell", "msg", "w"} {
			actual, ok := reg.Lookup(kw)
			assert.True(ok, kw)
			assert.Same(tr, actual, kw)

			entry, ok := reg.Entry(kw)
			assert.True(ok, kw)
			assert.Equal("tell", entry.Name)
			assert.Equal([]string{"msg", "w"}, entry.Aliases)
		}
	})

	t.Run("no names", func(t *testing.T) {
		assert := assert.New(t)

		err := NewRegistry().Register(tree())

		assert.Error(err)
	})

	t.Run("keyword with space", func(t *testing.T) {
		assert := assert.New(t)

		err := NewRegistry().Register(tree(), "two words")

		assert.Error(err)
	})

	t.Run("duplicate keyword", func(t *testing.T) {
		assert := assert.New(t)

		reg := NewRegistry()
		assert.NoError(reg.Register(tree(), "a", "b"))

		err := reg.Register(tree(), "c", "b")

		assert.Error(err)
		_, ok := reg.Lookup("c")
		assert.False(ok, "nothing is registered on failure")
	})

	t.Run("duplicate within one call", func(t *testing.T) {
		assert := assert.New(t)

		err := NewRegistry().Register(tree(), "a", "a")

		assert.Error(err)
	})

	t.Run("invalid tree", func(t *testing.T) {
		assert := assert.New(t)

		err := NewRegistry().Register(NewTree(""), "a")

		assert.ErrorIs(err, ErrInvalidTree)
	})

	t.Run("MustRegister panics", func(t *testing.T) {
		assert := assert.New(t)

		assert.Panics(func() {
			NewRegistry().MustRegister(NewTree(""), "a")
		})
	})

	t.Run("same tree registered twice", func(t *testing.T) {
		assert := assert.New(t)

		reg := NewRegistry()
		tr := tree()
		reg.MustRegister(tr, "tp", "teleport")
		reg.MustRegister(tr, "warp")

		first, ok := reg.Entry("teleport")
		if assert.True(ok) {
			assert.Equal("tp", first.Name)
			assert.Equal([]string{"teleport"}, first.Aliases)
		}
		second, ok := reg.Entry("warp")
		if assert.True(ok) {
			assert.Equal("warp", second.Name)
			assert.Empty(second.Aliases)
		}
		assert.Len(reg.Entries(), 2)
	})

	t.Run("entries sorted", func(t *testing.T) {
		assert := assert.New(t)

		reg := NewRegistry()
		reg.MustRegister(tree(), "say")
		reg.MustRegister(tree(), "kick")
		reg.MustRegister(tree(), "op")

		var names []string
		for _, e := range reg.Entries() {
			names = append(names, e.Name)
		}

		assert.Equal([]string{"kick", "op", "say"}, names)
	})
}
