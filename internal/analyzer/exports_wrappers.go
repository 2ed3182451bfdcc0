package analyzer

import "github.com/ludo-technologies/jscan/internal/parser"

// bundlerWindow bounds how many statements past a confirmed helper
// declaration are scanned for `helper.r(...)`/`helper.d(...)` calls (§4.6).
// A bundler emits these immediately after the declaration; anything further
// out is someone else's code that happens to call methods named r/d.
const bundlerWindow = 8

// tryBundlerModuleTable recognizes a bundler's module-table wrapper IIFE
// (§4.6). It tries both forms the format has taken in the wild: the
// r/d-helper table (a two-member helper object or function, confirmed
// before any of its calls are trusted) and the older per-module positional
// `(module, exports, require)` function. Either form, once confirmed, walks
// the wrapper body the normal way afterward so everything else it does
// (return statements, nested assignments) is still picked up.
func (w *walker) tryBundlerModuleTable(fr *frame, call *parser.Node, mode walkMode) bool {
	callee := unwrapParens(call.Callee)
	if callee == nil {
		return false
	}
	var body []*parser.Node
	switch callee.Type {
	case parser.NodeFunctionExpression, parser.NodeFunction, parser.NodeArrowFunction:
		body = normalizeFunctionBody(callee)
	default:
		return false
	}

	matched := w.tryPositionalModuleFunctions(fr, call)

	if helper, declIdx, ok := locateBundlerHelper(body); ok {
		w.collectBundlerHelperExports(fr, body, helper, declIdx)
		matched = true
	}

	if !matched {
		return false
	}
	w.walkStatements(fr, body, mode)
	return true
}

// locateBundlerHelper finds the helper's declaration site (§4.6, stage 1)
// and confirms it exposes exactly `r` and `d` (stage 2). The only candidate
// position is the first statement, or the second if the first is a bare
// "use strict" literal.
func locateBundlerHelper(body []*parser.Node) (helper string, declIdx int, ok bool) {
	idx := 0
	if len(body) > 0 {
		if lit := unwrapParens(body[0]); lit != nil && lit.Type == parser.NodeStringLiteral && unquoteString(lit.Raw) == "use strict" {
			idx = 1
		}
	}
	if idx >= len(body) || body[idx] == nil {
		return "", -1, false
	}
	stmt := body[idx]

	if stmt.Type == parser.NodeVariableDeclaration && len(stmt.Declarations) == 1 {
		decl := stmt.Declarations[0]
		if decl.Left != nil && decl.Left.Type == parser.NodeIdentifier && decl.Init != nil {
			if init := unwrapParens(decl.Init); init != nil && init.Type == parser.NodeObjectExpression {
				if helperExposesExactlyRAndD(init.Elements) {
					return decl.Left.Name, idx, true
				}
			}
		}
		return "", -1, false
	}

	if stmt.Type == parser.NodeFunction && stmt.Name != "" {
		if dotAssignsExactlyRAndD(body, idx, stmt.Name) {
			return stmt.Name, idx, true
		}
	}
	return "", -1, false
}

// helperExposesExactlyRAndD requires the object literal to carry exactly two
// members, named r and d: the count==2 gate spec.md calls out by name.
func helperExposesExactlyRAndD(elements []*parser.Node) bool {
	if len(elements) != 2 {
		return false
	}
	hasR, hasD := false, false
	for _, el := range elements {
		var key string
		switch el.Type {
		case parser.NodeProperty:
			if el.Key != nil && el.Key.Type == parser.NodeIdentifier {
				key = el.Key.Name
			}
		case parser.NodeMethodDefinition:
			key = el.Name
		default:
			return false
		}
		switch key {
		case "r":
			hasR = true
		case "d":
			hasD = true
		default:
			return false
		}
	}
	return hasR && hasD
}

// dotAssignsExactlyRAndD recognizes the function-declaration candidate's
// confirmation step: within the scan window, helperName.r and helperName.d
// are each assigned exactly once.
func dotAssignsExactlyRAndD(body []*parser.Node, declIdx int, helperName string) bool {
	counts := map[string]int{}
	for _, stmt := range windowAfter(body, declIdx) {
		e := unwrapParens(stmt)
		if e == nil || e.Type != parser.NodeAssignmentExpression || e.Operator != "=" {
			continue
		}
		left := unwrapParens(e.Left)
		if left == nil || left.Type != parser.NodeMemberExpression || left.Computed {
			continue
		}
		if left.Object == nil || left.Object.Type != parser.NodeIdentifier || left.Object.Name != helperName {
			continue
		}
		counts[propName(left.Property)]++
	}
	return len(counts) == 2 && counts["r"] == 1 && counts["d"] == 1
}

// windowAfter returns the (at most bundlerWindow) statements immediately
// following declIdx.
func windowAfter(body []*parser.Node, declIdx int) []*parser.Node {
	start := declIdx + 1
	if start >= len(body) {
		return nil
	}
	end := start + bundlerWindow
	if end > len(body) {
		end = len(body)
	}
	return body[start:end]
}

// collectBundlerHelperExports is §4.6 stage 3: within the scan window,
// `helper.r(x)`/`helper.d(x, ...)` calls contribute exports the same way
// handleBundlerR/handleBundlerD always have, now gated on a confirmed
// helper instead of firing for any object naming a method r or d.
func (w *walker) collectBundlerHelperExports(fr *frame, body []*parser.Node, helper string, declIdx int) {
	for _, stmt := range windowAfter(body, declIdx) {
		call := unwrapParens(stmt)
		if call == nil || call.Type != parser.NodeCallExpression {
			continue
		}
		callee := unwrapParens(call.Callee)
		if callee == nil || callee.Type != parser.NodeMemberExpression || callee.Computed {
			continue
		}
		if callee.Object == nil || callee.Object.Type != parser.NodeIdentifier || callee.Object.Name != helper {
			continue
		}
		switch propName(callee.Property) {
		case "r":
			w.handleBundlerR(fr, call)
		case "d":
			w.handleBundlerD(fr, call)
		}
	}
}

// tryPositionalModuleFunctions recognizes the older per-module bundler form
// (§4.6): a function whose three parameters are read off by position as
// (module, exports, require), regardless of their actual names. It searches
// the whole call tree (the wrapper's body and its arguments alike), since
// this form typically shows up as entries of a modules array/object passed
// into the outer dispatcher.
func (w *walker) tryPositionalModuleFunctions(fr *frame, call *parser.Node) bool {
	matched := false
	call.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeFunctionExpression, parser.NodeFunction, parser.NodeArrowFunction:
			if len(n.Params) == 3 && allIdentifierParams(n.Params) {
				if w.harvestPositionalModuleFunction(fr, n) {
					matched = true
				}
			}
		}
		return true
	})
	return matched
}

func allIdentifierParams(params []*parser.Node) bool {
	for _, p := range params {
		if p == nil || p.Type != parser.NodeIdentifier {
			return false
		}
	}
	return true
}

// harvestPositionalModuleFunction scans a confirmed (module, exports,
// require) function's body for require.r(exports), require.d(exports,
// "name", getter), and bare exports.default assignment. The default
// assignment is always recorded as "default", regardless of the value
// assigned.
func (w *walker) harvestPositionalModuleFunction(fr *frame, fn *parser.Node) bool {
	exportsParam := fn.Params[1].Name
	requireParam := fn.Params[2].Name
	found := false

	for _, stmt := range normalizeFunctionBody(fn) {
		e := unwrapParens(stmt)
		if e == nil {
			continue
		}
		switch e.Type {
		case parser.NodeCallExpression:
			callee := unwrapParens(e.Callee)
			if callee == nil || callee.Type != parser.NodeMemberExpression || callee.Computed {
				continue
			}
			if callee.Object == nil || callee.Object.Type != parser.NodeIdentifier || callee.Object.Name != requireParam {
				continue
			}
			switch propName(callee.Property) {
			case "r":
				if len(e.Arguments) == 1 && isIdentifierNamed(e.Arguments[0], exportsParam) {
					fr.exports.insert("__esModule")
					found = true
				}
			case "d":
				if len(e.Arguments) >= 3 && isIdentifierNamed(e.Arguments[0], exportsParam) {
					if name, ok := w.ctx.asString(fr, e.Arguments[1]); ok {
						fr.exports.insert(name)
						found = true
					}
				}
			}
		case parser.NodeAssignmentExpression:
			if e.Operator != "=" {
				continue
			}
			left := unwrapParens(e.Left)
			if left == nil || left.Type != parser.NodeMemberExpression || left.Computed {
				continue
			}
			if left.Object == nil || left.Object.Type != parser.NodeIdentifier || left.Object.Name != exportsParam {
				continue
			}
			if propName(left.Property) == "default" {
				fr.exports.insert("default")
				found = true
			}
		}
	}
	return found
}

func isIdentifierNamed(n *parser.Node, name string) bool {
	n = unwrapParens(n)
	return n != nil && n.Type == parser.NodeIdentifier && n.Name == name
}

// handleBundlerR recognizes `helper.r(target)`, the bundler module-table
// sentinel marking target as an ES-module-flagged exports receiver (§4.6).
// Any later dot-assignment on target is picked up generically once it is an
// exports alias. Only called once the helper is confirmed — see
// collectBundlerHelperExports.
func (w *walker) handleBundlerR(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) != 1 {
		return false
	}
	fr.exports.insert("__esModule")
	markExportsTarget(fr, call.Arguments[0])
	return true
}

// handleBundlerD recognizes `helper.d(target, descriptor)` and the older
// `helper.d(target, "name", getter)` triple form (§4.6). Only called once
// the helper is confirmed — see collectBundlerHelperExports.
func (w *walker) handleBundlerD(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) < 2 {
		return false
	}
	target, second := call.Arguments[0], call.Arguments[1]
	markExportsTarget(fr, target)

	if props, ok := w.ctx.asObjectShape(fr, second); ok {
		for _, p := range props {
			switch p.Type {
			case parser.NodeProperty:
				if k, ok := w.ctx.propertyKeyString(fr, p.Key); ok {
					fr.exports.insert(k)
				}
			case parser.NodeIdentifier:
				fr.exports.insert(p.Name)
			case parser.NodeMethodDefinition:
				if p.Name != "" {
					fr.exports.insert(p.Name)
				}
			}
		}
		return true
	}

	if len(call.Arguments) >= 3 {
		if name, ok := w.ctx.asString(fr, second); ok {
			fr.exports.insert(name)
			return true
		}
	}
	return true
}

// markExportsTarget adds an identifier argument to the exports-alias set so
// subsequent dot-assignments against it are recognized generically.
func markExportsTarget(fr *frame, n *parser.Node) {
	n = unwrapParens(n)
	if n != nil && n.Type == parser.NodeIdentifier {
		fr.aliases[n.Name] = true
	}
}

// tryUMDFactory recognizes the UMD wrapper's outer invocation: exactly two
// arguments, the second of which (unwrapped) is the factory function whose
// body carries the real exports surface. The factory's first parameter, if
// any, is treated as the inner exports receiver.
func (w *walker) tryUMDFactory(fr *frame, call *parser.Node, mode walkMode) bool {
	if len(call.Arguments) != 2 {
		return false
	}
	callee := unwrapParens(call.Callee)
	if callee == nil || !looksLikeUMDWrapper(callee) {
		return false
	}

	factory := unwrapParens(call.Arguments[1])
	if factory == nil {
		return false
	}
	switch factory.Type {
	case parser.NodeFunctionExpression, parser.NodeFunction, parser.NodeArrowFunction:
	default:
		return false
	}

	if len(factory.Params) > 0 && factory.Params[0].Type == parser.NodeIdentifier {
		fr.aliases[factory.Params[0].Name] = true
	}

	w.walkStatements(fr, normalizeFunctionBody(factory), mode)
	return true
}

// looksLikeUMDWrapper recognizes the canonical UMD outer closure: a function
// taking `(global, factory)`, or any two-parameter function whose body
// mentions the AMD `define` identifier, the telltale sign of the runtime
// typeof-dispatch that chooses between CommonJS, AMD, and globals.
func looksLikeUMDWrapper(callee *parser.Node) bool {
	switch callee.Type {
	case parser.NodeFunctionExpression, parser.NodeFunction, parser.NodeArrowFunction:
	default:
		return false
	}
	if len(callee.Params) != 2 {
		return false
	}
	if callee.Params[0].Name == "global" && callee.Params[1].Name == "factory" {
		return true
	}

	found := false
	for _, stmt := range normalizeFunctionBody(callee) {
		stmt.Walk(func(n *parser.Node) bool {
			if n.Type == parser.NodeIdentifier && n.Name == "define" {
				found = true
				return false
			}
			return true
		})
		if found {
			break
		}
	}
	return found
}
