package analyzer

import "github.com/ludo-technologies/jscan/internal/parser"

// walkMode distinguishes top-level/block statement walking from walking the
// body of a function whose value is being consumed as an export expression.
type walkMode int

const (
	modeStatement walkMode = iota
	modeFunctionCall
)

// walker is the partial-evaluator orchestrator (§4.4). It holds only the
// read-only evaluation context; all mutable state lives in the frame being
// walked.
type walker struct {
	ctx *evalCtx
}

// AnalyzeExports runs the partial-evaluation pass over a parsed source file
// and returns the names it directly exposes and the module specifiers it
// re-exports wholesale. The analyzer is total: it never errors, and an
// unrecognized idiom simply contributes nothing.
func AnalyzeExports(program *parser.Node, opts ExportsOptions) ExportsResult {
	w := &walker{ctx: &evalCtx{environment: opts.Environment}}
	fr := newFrame()

	var body []*parser.Node
	if program != nil {
		body = program.Body
	}

	w.walkStatements(fr, body, modeStatement)

	return ExportsResult{
		Exports:   fr.exports.items,
		Reexports: fr.reexports.items,
	}
}

// walkStatements walks a statement list in source order, stopping early once
// a function-call-mode return has fired.
func (w *walker) walkStatements(fr *frame, stmts []*parser.Node, mode walkMode) {
	for _, stmt := range stmts {
		if fr.returned {
			return
		}
		w.walkStatement(fr, stmt, mode)
	}
}

func (w *walker) walkStatement(fr *frame, stmt *parser.Node, mode walkMode) {
	if stmt == nil {
		return
	}

	switch stmt.Type {
	case parser.NodeVariableDeclaration:
		for _, decl := range stmt.Declarations {
			w.handleDeclarator(fr, decl)
		}
	case parser.NodeFunction:
		if stmt.Name != "" {
			fr.bindings[stmt.Name] = binding{kind: kindFunction, funcBody: normalizeFunctionBody(stmt)}
		}
	case parser.NodeClass:
		if stmt.Name != "" {
			fr.bindings[stmt.Name] = binding{kind: kindClass, class: stmt}
		}
	case parser.NodeBlockStatement:
		w.walkStatements(fr, stmt.Body, mode)
	case parser.NodeIfStatement:
		if w.ctx.isTrue(fr, stmt.Test) {
			w.walkStatement(fr, stmt.Consequent, mode)
		} else if stmt.Alternate != nil {
			w.walkStatement(fr, stmt.Alternate, mode)
		}
	case parser.NodeReturnStatement:
		w.handleReturn(fr, stmt, mode)
	default:
		w.dispatchExpression(fr, stmt, mode)
	}
}

// handleDeclarator runs alias detection, process.env destructuring, and the
// general mark() classification for one variable declarator.
func (w *walker) handleDeclarator(fr *frame, decl *parser.Node) {
	if decl == nil || decl.Left == nil {
		return
	}
	pattern := decl.Left

	if pattern.Type == parser.NodeIdentifier {
		if decl.Init == nil {
			fr.bindings[pattern.Name] = binding{kind: kindUnknown}
			return
		}
		w.detectModuleExportsAlias(fr, pattern.Name, decl.Init)
		markBinding(fr, w.ctx, pattern.Name, decl.Init)
		return
	}

	if pattern.Type == parser.NodeObjectExpression && decl.Init != nil {
		w.bindProcessEnvDestructure(fr, pattern, decl.Init)
	}
}

// bindProcessEnvDestructure handles `const { NODE_ENV } = process.env` and
// `const { NODE_ENV: x } = process.env`.
func (w *walker) bindProcessEnvDestructure(fr *frame, pattern *parser.Node, init *parser.Node) {
	init = unwrapParens(init)
	if !isProcessEnv(init) {
		return
	}
	for _, el := range pattern.Elements {
		if el.Type == parser.NodeIdentifier {
			// shorthand `{ NODE_ENV }`
			if el.Name == "NODE_ENV" {
				fr.bindings[el.Name] = binding{kind: kindLiteral, literal: w.ctx.environment}
			}
			continue
		}
		if el.Type != parser.NodeProperty || el.Key == nil {
			continue
		}
		if el.Key.Name != "NODE_ENV" {
			continue
		}
		target := el.Key.Name
		if el.PropValue != nil && el.PropValue.Type == parser.NodeIdentifier {
			target = el.PropValue.Name
		}
		fr.bindings[target] = binding{kind: kindLiteral, literal: w.ctx.environment}
	}
}

// detectModuleExportsAlias recognizes `var x = module.exports` and
// `var x = module.exports = <E>`, adding x to the exports-alias set.
func (w *walker) detectModuleExportsAlias(fr *frame, name string, init *parser.Node) {
	init = unwrapParens(init)
	if init == nil {
		return
	}
	if isModuleExportsReceiver(init) {
		fr.aliases[name] = true
		return
	}
	if init.Type == parser.NodeAssignmentExpression && init.Operator == "=" {
		left := unwrapParens(init.Left)
		if isModuleExportsReceiver(left) {
			fr.aliases[name] = true
			w.applyReset(fr, init.Right, modeStatement)
		}
	}
}

func (w *walker) handleReturn(fr *frame, stmt *parser.Node, mode walkMode) {
	if mode == modeFunctionCall {
		fr.returned = true
		if stmt.Argument != nil {
			w.applyReset(fr, stmt.Argument, mode)
		}
		return
	}

	// Statement mode: recognize the bundler-wrapper last-return pattern —
	// an identifier previously used as the inner exports receiver promoted
	// to an alias (§4.3, §4.6).
	arg := unwrapParens(stmt.Argument)
	if arg != nil && arg.Type == parser.NodeIdentifier {
		fr.aliases[arg.Name] = true
	}
}

// isModuleExportsReceiver recognizes the `module.exports` member chain.
func isModuleExportsReceiver(n *parser.Node) bool {
	n = unwrapParens(n)
	if n == nil || n.Type != parser.NodeMemberExpression {
		return false
	}
	if n.Property == nil || n.Property.Name != "exports" {
		return false
	}
	return n.Object != nil && n.Object.Type == parser.NodeIdentifier && n.Object.Name == "module"
}

// isModuleIdentifier recognizes the bare `module` identifier.
func isModuleIdentifier(n *parser.Node) bool {
	n = unwrapParens(n)
	return n != nil && n.Type == parser.NodeIdentifier && n.Name == "module"
}

// isExportsReceiver recognizes any identifier proven to alias the exports
// object, or the `module.exports` member chain itself.
func isExportsReceiver(fr *frame, n *parser.Node) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}
	if n.Type == parser.NodeIdentifier && fr.isAlias(n.Name) {
		return true
	}
	return isModuleExportsReceiver(n)
}
