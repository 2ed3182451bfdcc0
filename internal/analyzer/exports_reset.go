package analyzer

import "github.com/ludo-technologies/jscan/internal/parser"

// markBinding implements the mark() primitive (§4.3): classify expr by the
// first shape resolver that matches and record it as name's binding. An
// identifier-to-identifier assignment becomes an Alias binding unless it
// would close a mutual-alias cycle, in which case the write is suppressed.
func markBinding(fr *frame, ctx *evalCtx, name string, expr *parser.Node) {
	expr = unwrapParens(expr)
	if expr == nil {
		fr.bindings[name] = binding{kind: kindUnknown}
		return
	}

	if expr.Type == parser.NodeIdentifier {
		if wouldCycle(fr, name, expr.Name) {
			return
		}
		fr.bindings[name] = binding{kind: kindAlias, alias: expr.Name}
		return
	}

	if spec, ok := matchRequireCall(ctx, fr, expr); ok {
		fr.bindings[name] = binding{kind: kindReexportOf, reexportSpec: spec}
		return
	}
	if s, ok := ctx.asString(fr, expr); ok {
		fr.bindings[name] = binding{kind: kindLiteral, literal: s}
		return
	}
	if n, ok := ctx.asNumber(fr, expr); ok {
		fr.bindings[name] = binding{kind: kindLiteral, literal: n}
		return
	}
	if b, ok := ctx.asBoolean(fr, expr); ok {
		fr.bindings[name] = binding{kind: kindLiteral, literal: b}
		return
	}
	if ctx.asNull(fr, expr) {
		fr.bindings[name] = binding{kind: kindLiteral, literal: nil}
		return
	}
	if expr.Type == parser.NodeObjectExpression {
		fr.bindings[name] = binding{kind: kindObjectShape, properties: expr.Elements}
		return
	}
	if expr.Type == parser.NodeClass || expr.Type == parser.NodeClassExpression {
		fr.bindings[name] = binding{kind: kindClass, class: expr}
		return
	}
	if fn, ok := ctx.asFunction(fr, expr); ok {
		fr.bindings[name] = binding{kind: kindFunction, funcBody: fn.body, funcExtras: fn.extras}
		return
	}

	fr.bindings[name] = binding{kind: kindUnknown}
}

// wouldCycle reports whether binding name as an alias of target would close
// a mutual-alias cycle (target already (transitively) aliases name).
func wouldCycle(fr *frame, name, target string) bool {
	visited := map[string]bool{}
	cur := target
	for {
		if cur == name {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		b, ok := fr.bindings[cur]
		if !ok || b.kind != kindAlias {
			return false
		}
		cur = b.alias
	}
}

// recordMemberAssignment implements `X.k = V` dot-assignment tracking: if X
// is an exports receiver the property becomes an export; if X is a known
// ObjectShape binding, a synthetic `k: true` property is appended to the
// shape; if X is a known Function binding, k is appended to that
// function's extras so a later
// `module.exports = X` reset can surface it even when X's body never
// returns (scenario 5).
func (w *walker) recordMemberAssignment(fr *frame, member *parser.Node, value *parser.Node) {
	if member == nil {
		return
	}
	obj := unwrapParens(member.Object)
	key := propertyKeyFromIdentifierOrLiteral(member.Property)
	if key == "" {
		return
	}

	if isExportsReceiver(fr, obj) {
		fr.exports.insert(key)
		return
	}

	if obj != nil && obj.Type == parser.NodeIdentifier {
		if b, ok := fr.bindings[obj.Name]; ok && b.kind == kindObjectShape {
			k := parser.NewNode(parser.NodeIdentifier)
			k.Name = key
			v := parser.NewNode(parser.NodeBooleanLiteral)
			v.Raw = "true"
			prop := parser.NewNode(parser.NodeProperty)
			prop.Key, prop.PropValue = k, v
			b.properties = append(append([]*parser.Node{}, b.properties...), prop)
			fr.bindings[obj.Name] = b
		}
		if b, ok := fr.bindings[obj.Name]; ok && b.kind == kindFunction {
			b.funcExtras = appendUnique(b.funcExtras, key)
			fr.bindings[obj.Name] = b
		}
	}
}

func propertyKeyFromIdentifierOrLiteral(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == parser.NodeIdentifier {
		return n.Name
	}
	if n.Type == parser.NodeStringLiteral {
		return unquoteString(n.Raw)
	}
	return ""
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// harvestProperties walks an object literal's element list, inserting
// shorthand/keyed/method property names directly as exports and resolving
// spread elements into wholesale re-exports when the spread target is a
// require() call or an identifier bound to one.
func (w *walker) harvestProperties(fr *frame, props []*parser.Node) {
	for _, p := range props {
		if p == nil {
			continue
		}
		switch p.Type {
		case parser.NodeIdentifier:
			// shorthand `{ foo }`
			fr.exports.insert(p.Name)
		case parser.NodeProperty:
			if key, ok := w.ctx.propertyKeyString(fr, p.Key); ok {
				fr.exports.insert(key)
			}
		case parser.NodeSpreadElement:
			if spec, ok := w.ctx.asReexport(fr, p.Argument); ok {
				fr.reexports.insert(spec)
				continue
			}
			if props2, ok := w.ctx.asObjectShape(fr, p.Argument); ok {
				w.harvestProperties(fr, props2)
			}
		case parser.NodeMethodDefinition:
			if p.Name != "" {
				fr.exports.insert(p.Name)
			}
		}
	}
}

// staticMemberNames collects the names of a class's static methods and
// static fields.
func staticMemberNames(cls *parser.Node) []string {
	if cls == nil {
		return nil
	}
	var names []string
	for _, member := range cls.Body {
		if member == nil || !member.Static {
			continue
		}
		if member.Name != "" {
			names = append(names, member.Name)
			continue
		}
		if member.Key != nil && member.Key.Type == parser.NodeIdentifier {
			names = append(names, member.Key.Name)
		}
	}
	return names
}

// applyReset implements the reset primitive (§4.4): `module.exports = E` (or
// an exports-alias assignment, or a synthesized call-return value) discards
// the current export set and rebuilds it from E's resolved shape.
func (w *walker) applyReset(fr *frame, e *parser.Node, mode walkMode) {
	e = unwrapParens(e)
	if e == nil {
		return
	}

	fr.exports.clear()
	fr.reexports.clear()

	// Step: a zero-argument call to a require()'d/aliased re-export or to a
	// known function is resolved before the general shape resolvers run.
	if e.Type == parser.NodeCallExpression && len(e.Arguments) == 0 {
		callee := unwrapParens(e.Callee)
		if spec, ok := w.ctx.asReexport(fr, callee); ok {
			fr.reexports.insert(spec + "()")
			return
		}
		if fn, ok := w.ctx.asFunction(fr, callee); ok {
			w.walkFunctionValue(fr, fn, mode)
			return
		}
	}

	if spec, ok := w.ctx.asReexport(fr, e); ok {
		fr.reexports.insert(spec)
		return
	}

	if props, ok := w.ctx.asObjectShape(fr, e); ok {
		w.harvestProperties(fr, props)
		return
	}

	if cls, ok := w.ctx.asClass(fr, e); ok {
		for _, name := range staticMemberNames(cls) {
			fr.exports.insert(name)
		}
		return
	}

	if fn, ok := w.ctx.asFunction(fr, e); ok {
		w.walkFunctionValue(fr, fn, mode)
		return
	}

	// Unresolvable shape (identifier bound to Unknown/Literal, or an
	// expression form the evaluator does not model): contributes nothing.
}

// walkFunctionValue implements the scenario-5/6 unifying rule for a Function
// value reached by the reset primitive: the body is always walked in
// function-call mode on a cloned frame. If a return was reached, that walk's
// exports/re-exports become the result. Otherwise (no reachable return, most
// commonly an empty body) the function's accumulated dot-assignment extras
// are exported instead.
func (w *walker) walkFunctionValue(fr *frame, fn funcInfo, _ walkMode) {
	child := fr.clone()
	child.exports.clear()
	child.reexports.clear()
	child.returned = false

	w.walkStatements(child, fn.body, modeFunctionCall)

	if child.returned {
		fr.exports.clear()
		fr.reexports.clear()
		fr.mergeFrom(child)
		return
	}

	for _, extra := range fn.extras {
		fr.exports.insert(extra)
	}
}
