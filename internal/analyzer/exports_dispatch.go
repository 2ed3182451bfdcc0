package analyzer

import "github.com/ludo-technologies/jscan/internal/parser"

// dispatchExpression is the expression-statement entry point (§4.5): an
// expression appearing in statement position is tried against each matcher
// in priority order; the first match handles it, everything else is a
// no-op.
func (w *walker) dispatchExpression(fr *frame, stmt *parser.Node, mode walkMode) {
	e := unwrapParens(stmt)
	if e == nil {
		return
	}

	switch e.Type {
	case parser.NodeAssignmentExpression:
		w.dispatchAssignment(fr, e, mode)
		return
	case parser.NodeCallExpression:
		if w.dispatchCall(fr, e, mode) {
			return
		}
		w.dispatchIIFE(fr, e, mode)
		return
	case parser.NodeUnaryExpression:
		// Unary-prefixed IIFE: +function(){...}(), !function(){...}(), etc.
		if inner := unwrapParens(e.Argument); inner != nil && inner.Type == parser.NodeCallExpression {
			w.dispatchCall(fr, inner, mode)
			w.dispatchIIFE(fr, inner, mode)
		}
		return
	case parser.NodeLogicalExpression:
		w.dispatchLogicalAnnotation(fr, e, mode)
		return
	case parser.NodeSequenceExpression:
		for _, el := range e.Elements {
			w.dispatchExpression(fr, el, mode)
		}
		return
	}
}

// dispatchAssignment handles every `X = V` / `X.k = V` form that can affect
// exports: the reset primitive, per-key export insertion, function-extras
// tracking, and ordinary identifier rebinding.
func (w *walker) dispatchAssignment(fr *frame, e *parser.Node, mode walkMode) {
	if e.Operator != "=" {
		return
	}
	left := unwrapParens(e.Left)
	if left == nil {
		return
	}

	if key, ok := bareExportIdiomKey(fr, e.Right); ok {
		fr.exports.insert(key)
	}
	if nested := unwrapParens(e.Right); nested != nil && nested.Type == parser.NodeAssignmentExpression {
		w.dispatchAssignment(fr, nested, mode)
	}

	switch left.Type {
	case parser.NodeMemberExpression:
		if isModuleExportsReceiver(left) {
			w.applyReset(fr, e.Right, mode)
			return
		}
		w.recordMemberAssignment(fr, left, e.Right)
	case parser.NodeIdentifier:
		if left.Name == "module" {
			return
		}
		if fr.isAlias(left.Name) {
			w.applyReset(fr, e.Right, mode)
			return
		}
		markBinding(fr, w.ctx, left.Name, e.Right)
	}
}

// bareExportIdiomKey recognizes the "bare export" idiom's right-hand side:
// `exports.k` or `exports.k || (exports.k = ...)`, regardless of what the
// assignment's left-hand side is.
func bareExportIdiomKey(fr *frame, rhs *parser.Node) (string, bool) {
	rhs = unwrapParens(rhs)
	if rhs == nil {
		return "", false
	}
	if rhs.Type == parser.NodeMemberExpression && !rhs.Computed && isExportsReceiver(fr, rhs.Object) {
		return propName(rhs.Property), true
	}
	if rhs.Type == parser.NodeLogicalExpression && rhs.Operator == "||" {
		return bareExportIdiomKey(fr, rhs.Left)
	}
	return "", false
}

// dispatchCall recognizes the well-known helper-call idioms. Returns true if
// the call was recognized and handled.
func (w *walker) dispatchCall(fr *frame, call *parser.Node, mode walkMode) bool {
	callee := unwrapParens(call.Callee)
	if callee == nil {
		return false
	}

	if callee.Type == parser.NodeMemberExpression && callee.Object != nil && callee.Object.Type == parser.NodeIdentifier {
		if callee.Object.Name == "Object" {
			switch propName(callee.Property) {
			case "defineProperty":
				return w.handleDefineProperty(fr, call)
			case "defineProperties":
				return w.handleDefineProperties(fr, call)
			case "assign":
				return w.handleObjectAssign(fr, call)
			}
		}
	}

	if callee.Type == parser.NodeIdentifier {
		switch callee.Name {
		case "__exportStar":
			return w.handleExportStar(fr, call)
		case "__export":
			return w.handleExport(fr, call)
		}
	}

	return false
}

func propName(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == parser.NodeIdentifier {
		return n.Name
	}
	return ""
}

// handleDefineProperty recognizes
// `Object.defineProperty(exports, "name", { value/get: ... })`.
func (w *walker) handleDefineProperty(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) != 3 {
		return false
	}
	target, key, desc := call.Arguments[0], call.Arguments[1], call.Arguments[2]
	name, ok := w.ctx.asString(fr, key)
	if !ok {
		return false
	}

	if isModuleIdentifier(target) && name == "exports" {
		if props, ok := w.ctx.asObjectShape(fr, desc); ok {
			if v, ok := descriptorValue(w.ctx, fr, props); ok {
				w.applyReset(fr, v, modeStatement)
				return true
			}
		}
		return true
	}

	if !isExportsReceiver(fr, target) {
		return false
	}
	props, ok := w.ctx.asObjectShape(fr, desc)
	if !ok {
		return true
	}
	for _, p := range props {
		var k string
		switch p.Type {
		case parser.NodeProperty:
			if p.Key == nil {
				continue
			}
			k, _ = w.ctx.propertyKeyString(fr, p.Key)
		case parser.NodeMethodDefinition:
			k = p.Name
		default:
			continue
		}
		if k == "value" || k == "get" {
			fr.exports.insert(name)
			return true
		}
	}
	return true
}

// descriptorValue extracts a property descriptor's "value" member.
func descriptorValue(ctx *evalCtx, fr *frame, props []*parser.Node) (*parser.Node, bool) {
	for _, p := range props {
		if p.Type != parser.NodeProperty || p.Key == nil {
			continue
		}
		if k, _ := ctx.propertyKeyString(fr, p.Key); k == "value" {
			return p.PropValue, true
		}
	}
	return nil, false
}

// handleDefineProperties recognizes
// `Object.defineProperties(exports, { a: {...}, b: {...} })`.
func (w *walker) handleDefineProperties(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) != 2 {
		return false
	}
	target, descs := call.Arguments[0], call.Arguments[1]
	if !isExportsReceiver(fr, target) {
		return false
	}
	props, ok := w.ctx.asObjectShape(fr, descs)
	if !ok {
		return false
	}
	for _, p := range props {
		if p.Type == parser.NodeProperty && p.Key != nil {
			if k, ok := w.ctx.propertyKeyString(fr, p.Key); ok {
				fr.exports.insert(k)
			}
		}
	}
	return true
}

// handleObjectAssign recognizes `Object.assign(exports, {...}, ...)`.
func (w *walker) handleObjectAssign(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) < 2 {
		return false
	}

	if isModuleIdentifier(call.Arguments[0]) {
		for _, src := range call.Arguments[1:] {
			props, ok := w.ctx.asObjectShape(fr, src)
			if !ok {
				continue
			}
			for _, p := range props {
				if p.Type == parser.NodeProperty && p.Key != nil {
					if k, ok := w.ctx.propertyKeyString(fr, p.Key); ok && k == "exports" {
						w.applyReset(fr, p.PropValue, modeStatement)
					}
				}
			}
		}
		return true
	}

	if !isExportsReceiver(fr, call.Arguments[0]) {
		return false
	}
	for _, src := range call.Arguments[1:] {
		if spec, ok := w.ctx.asReexport(fr, src); ok {
			fr.reexports.insert(spec)
			continue
		}
		if props, ok := w.ctx.asObjectShape(fr, src); ok {
			w.harvestProperties(fr, props)
		}
	}
	return true
}

// handleExportStar recognizes the TypeScript-transpiler helper
// `__exportStar(require("mod"), exports)` (and the module-object variant).
func (w *walker) handleExportStar(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) != 2 {
		return false
	}
	src, target := call.Arguments[0], call.Arguments[1]
	if !isExportsReceiver(fr, target) {
		return false
	}
	if spec, ok := w.ctx.asReexport(fr, src); ok {
		fr.reexports.insert(spec)
		return true
	}
	return true
}

// handleExport recognizes the transpiler helper
// `__export(exports, { name: () => value, ... })`.
func (w *walker) handleExport(fr *frame, call *parser.Node) bool {
	if len(call.Arguments) != 2 {
		return false
	}
	target, shape := call.Arguments[0], call.Arguments[1]
	if !isExportsReceiver(fr, target) {
		return false
	}
	props, ok := w.ctx.asObjectShape(fr, shape)
	if !ok {
		return false
	}
	for _, p := range props {
		if p.Type != parser.NodeProperty || p.Key == nil {
			continue
		}
		if k, ok := w.ctx.propertyKeyString(fr, p.Key); ok {
			fr.exports.insert(k)
		}
	}
	return true
}

// dispatchLogicalAnnotation recognizes the build-tool annotation idiom
// `0 && (module.exports = { ... })`: even though the branch is
// unreachable at runtime, tools emit it purely so static analysis can
// recover the named-exports shape, so it is honored unconditionally.
func (w *walker) dispatchLogicalAnnotation(fr *frame, e *parser.Node, mode walkMode) {
	if e.Operator != "&&" {
		return
	}
	right := unwrapParens(e.Right)
	if right == nil || right.Type != parser.NodeAssignmentExpression {
		return
	}
	left := unwrapParens(right.Left)
	if left == nil || !isModuleExportsReceiver(left) {
		return
	}
	w.applyReset(fr, right.Right, mode)
}

// dispatchIIFE recognizes an immediately-invoked function expression used as
// a UMD factory or a bundler module-table wrapper, and walks its body in
// statement mode sharing the current frame (the wrapper contributes directly
// to the enclosing module's exports, it does not introduce a reset
// boundary of its own). For any other IIFE, each non-spread call argument is
// also tested against the bare-export idiom before the body is walked (§4.5).
func (w *walker) dispatchIIFE(fr *frame, call *parser.Node, _ walkMode) {
	if w.tryUMDFactory(fr, call, modeStatement) {
		return
	}
	if w.tryBundlerModuleTable(fr, call, modeStatement) {
		return
	}

	for _, arg := range call.Arguments {
		if arg == nil || arg.Type == parser.NodeSpreadElement {
			continue
		}
		if key, ok := bareExportIdiomKey(fr, arg); ok {
			fr.exports.insert(key)
		}
	}

	callee := unwrapParens(call.Callee)
	if callee == nil {
		return
	}

	var fnBody []*parser.Node
	switch callee.Type {
	case parser.NodeFunctionExpression, parser.NodeFunction, parser.NodeArrowFunction:
		fnBody = normalizeFunctionBody(callee)
	default:
		return
	}

	w.walkStatements(fr, fnBody, modeStatement)
}
