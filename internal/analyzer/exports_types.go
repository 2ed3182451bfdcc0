package analyzer

import "github.com/ludo-technologies/jscan/internal/parser"

// ExportsOptions configures a single exports-analysis invocation.
type ExportsOptions struct {
	// Environment is the build-time sentinel substituted for
	// process.env.NODE_ENV, enabling dead-branch elimination.
	Environment string
}

// ExportsResult is the outcome of analyzing one source file: the ordered,
// de-duplicated set of names the module exposes and the ordered,
// de-duplicated set of module specifiers it re-exports wholesale.
type ExportsResult struct {
	Exports   []string
	Reexports []string
}

// identKind tags the shape an identifier binding is known to carry.
type identKind int

const (
	kindUnknown identKind = iota
	kindLiteral
	kindAlias
	kindObjectShape
	kindClass
	kindFunction
	kindReexportOf
)

// binding is the payload carried by one entry of the binding table. Only the
// field matching kind is meaningful.
type binding struct {
	kind identKind

	literal interface{} // string, float64, bool, or nil for a resolved literal

	alias string // kindAlias: the name this identifier currently resolves to

	properties []*parser.Node // kindObjectShape: original property/spread nodes

	class *parser.Node // kindClass: the class declaration/expression node

	funcBody   []*parser.Node // kindFunction: normalized body statements
	funcExtras []string       // kindFunction: names attached via later dot-assignment

	reexportSpec string // kindReexportOf: the require() specifier
}

// orderedSet is an insertion-ordered, de-duplicated set of strings.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]bool{}}
}

func (s *orderedSet) insert(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

func (s *orderedSet) clear() {
	s.items = nil
	s.seen = map[string]bool{}
}

func (s *orderedSet) clone() *orderedSet {
	c := newOrderedSet()
	c.items = append([]string{}, s.items...)
	for k, v := range s.seen {
		c.seen[k] = v
	}
	return c
}

// frame is the single mutable unit of analyzer state: the binding table, the
// exports-alias set, and the two output sets. Nested body analysis operates
// on a clone (see frame.clone), so speculative evaluation of one branch
// never corrupts a sibling's view of the outer frame.
type frame struct {
	bindings  map[string]binding
	aliases   map[string]bool
	exports   *orderedSet
	reexports *orderedSet
	returned  bool
}

func newFrame() *frame {
	return &frame{
		bindings:  map[string]binding{},
		aliases:   map[string]bool{"exports": true},
		exports:   newOrderedSet(),
		reexports: newOrderedSet(),
	}
}

func (f *frame) clone() *frame {
	nb := make(map[string]binding, len(f.bindings))
	for k, v := range f.bindings {
		nb[k] = v
	}
	na := make(map[string]bool, len(f.aliases))
	for k, v := range f.aliases {
		na[k] = v
	}
	return &frame{
		bindings:  nb,
		aliases:   na,
		exports:   f.exports.clone(),
		reexports: f.reexports.clone(),
	}
}

// mergeFrom folds a nested (cloned) frame's discoveries back into f, per the
// termination-and-cloning rule: exports, re-exports, and the returned flag
// propagate up; the binding table and alias set stay local to the clone.
func (f *frame) mergeFrom(child *frame) {
	for _, e := range child.exports.items {
		f.exports.insert(e)
	}
	for _, r := range child.reexports.items {
		f.reexports.insert(r)
	}
	if child.returned {
		f.returned = true
	}
}

func (f *frame) isAlias(name string) bool {
	return f.aliases[name]
}
