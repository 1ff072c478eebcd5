package command

import (
	"fmt"
	"sort"
)

// Registry maps keywords to the trees that handle them. It is filled in once
// at startup and is not safe for concurrent modification; a Dispatcher takes a
// copy of it when created, so registering after that has no effect on the
// Dispatcher.
type Registry struct {
	trees   map[string]*Tree
	entries []Entry

	// index into entries for every name and alias
	byName map[string]int
}

// Entry is one registered command: its tree, the keyword it was primarily
// registered under, and any aliases it may also be called by.
type Entry struct {
	Name    string
	Aliases []string
	Tree    *Tree
}

// Usage is the usage listing for the command under its primary name.
func (e Entry) Usage() string {
	return e.Tree.FormatUsage(e.Name)
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{trees: map[string]*Tree{}, byName: map[string]int{}}
}

// Register adds tree under every keyword in names. The first name is its
// primary name and the rest are aliases. The tree is validated first, and no
// keyword may already be registered.
func (r *Registry) Register(tree *Tree, names ...string) error {
	if len(names) < 1 {
		return fmt.Errorf("%w: no keyword given", ErrInvalidTree)
	}
	if err := tree.Validate(); err != nil {
		return fmt.Errorf("%s: %w", names[0], err)
	}

	seen := map[string]bool{}
	for _, n := range names {
		toks := Tokenize(n)
		if len(toks) != 1 || toks[0] != n {
			return fmt.Errorf("keyword %q is not a single token", n)
		}
		if _, exists := r.trees[n]; exists || seen[n] {
			return fmt.Errorf("keyword %q is already registered", n)
		}
		seen[n] = true
	}

	for _, n := range names {
		r.trees[n] = tree
		r.byName[n] = len(r.entries)
	}
	r.entries = append(r.entries, Entry{
		Name:    names[0],
		Aliases: append([]string(nil), names[1:]...),
		Tree:    tree,
	})

	return nil
}

// MustRegister is like Register but panics if the tree cannot be registered.
// It is meant for the startup code that builds the server's command set, where
// a bad tree is a programming error.
func (r *Registry) MustRegister(tree *Tree, names ...string) {
	if err := r.Register(tree, names...); err != nil {
		panic("register command: " + err.Error())
	}
}

// Lookup returns the tree registered for keyword, if there is one.
func (r *Registry) Lookup(keyword string) (*Tree, bool) {
	t, ok := r.trees[keyword]
	return t, ok
}

// Entries returns every registered command sorted by primary name.
func (r *Registry) Entries() []Entry {
	all := make([]Entry, len(r.entries))
	copy(all, r.entries)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}

// Entry returns the registered command that keyword names, whether keyword is
// its primary name or an alias.
func (r *Registry) Entry(keyword string) (Entry, bool) {
	idx, ok := r.byName[keyword]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}
