package analyzer

import (
	"strconv"
	"strings"

	"github.com/ludo-technologies/jscan/internal/parser"
)

// evalCtx carries the read-only configuration (the environment sentinel)
// shared by every literal/shape evaluation in one analysis run.
type evalCtx struct {
	environment string
}

// unwrapParens strips parenthesized-expression wrappers.
func unwrapParens(n *parser.Node) *parser.Node {
	for n != nil && n.Type == parser.NodeParenthesizedExpression {
		n = n.Argument
	}
	return n
}

// unquoteString strips the surrounding quote characters from a string
// literal's raw source text and resolves the handful of escapes that show
// up in practice.
func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if quote != '\'' && quote != '"' && quote != '`' {
		return raw
	}
	if raw[len(raw)-1] != quote {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	replacer := strings.NewReplacer(
		`\'`, `'`,
		`\"`, `"`,
		"\\`", "`",
		`\\`, `\`,
		`\n`, "\n",
		`\t`, "\t",
	)
	return replacer.Replace(inner)
}

// isProcessEnvNodeEnv recognizes the `process.env.NODE_ENV` member chain.
func isProcessEnvNodeEnv(n *parser.Node) bool {
	if n == nil || n.Type != parser.NodeMemberExpression {
		return false
	}
	if n.Property == nil || n.Property.Name != "NODE_ENV" {
		return false
	}
	obj := n.Object
	if obj == nil || obj.Type != parser.NodeMemberExpression {
		return false
	}
	if obj.Property == nil || obj.Property.Name != "env" {
		return false
	}
	return obj.Object != nil && obj.Object.Type == parser.NodeIdentifier && obj.Object.Name == "process"
}

// isProcessEnv recognizes the bare `process.env` member chain.
func isProcessEnv(n *parser.Node) bool {
	if n == nil || n.Type != parser.NodeMemberExpression {
		return false
	}
	if n.Property == nil || n.Property.Name != "env" {
		return false
	}
	return n.Object != nil && n.Object.Type == parser.NodeIdentifier && n.Object.Name == "process"
}

// resolveAlias chases a chain of Alias bindings, guarding against the mutual
// cycles mark() is responsible for not introducing.
func resolveAlias(fr *frame, name string) (binding, bool) {
	visited := map[string]bool{}
	for {
		if visited[name] {
			return binding{}, false
		}
		visited[name] = true
		b, ok := fr.bindings[name]
		if !ok {
			return binding{}, false
		}
		if b.kind != kindAlias {
			return b, true
		}
		name = b.alias
	}
}

// lookup resolves an expression, chasing identifier aliases, to the final
// binding table entry it designates (if any).
func (c *evalCtx) lookup(fr *frame, n *parser.Node) (binding, bool) {
	n = unwrapParens(n)
	if n == nil || n.Type != parser.NodeIdentifier {
		return binding{}, false
	}
	return resolveAlias(fr, n.Name)
}

// asString implements the literal evaluator's string projection.
func (c *evalCtx) asString(fr *frame, n *parser.Node) (string, bool) {
	n = unwrapParens(n)
	if n == nil {
		return "", false
	}

	switch n.Type {
	case parser.NodeStringLiteral:
		return unquoteString(n.Raw), true
	case parser.NodeMemberExpression:
		if isProcessEnvNodeEnv(n) {
			return c.environment, true
		}
		return "", false
	case parser.NodeIdentifier:
		b, ok := resolveAlias(fr, n.Name)
		if !ok || b.kind != kindLiteral {
			return "", false
		}
		s, ok := b.literal.(string)
		return s, ok
	default:
		return "", false
	}
}

// asNumber implements the literal evaluator's numeric projection.
func (c *evalCtx) asNumber(fr *frame, n *parser.Node) (float64, bool) {
	n = unwrapParens(n)
	if n == nil {
		return 0, false
	}

	switch n.Type {
	case parser.NodeNumberLiteral:
		v, err := strconv.ParseFloat(strings.TrimSpace(n.Raw), 64)
		return v, err == nil
	case parser.NodeIdentifier:
		b, ok := resolveAlias(fr, n.Name)
		if !ok || b.kind != kindLiteral {
			return 0, false
		}
		v, ok := b.literal.(float64)
		return v, ok
	default:
		return 0, false
	}
}

// asBoolean implements the literal evaluator's boolean projection.
func (c *evalCtx) asBoolean(fr *frame, n *parser.Node) (bool, bool) {
	n = unwrapParens(n)
	if n == nil {
		return false, false
	}

	switch n.Type {
	case parser.NodeBooleanLiteral:
		return n.Raw == "true", true
	case parser.NodeIdentifier:
		b, ok := resolveAlias(fr, n.Name)
		if !ok || b.kind != kindLiteral {
			return false, false
		}
		v, ok := b.literal.(bool)
		return v, ok
	default:
		return false, false
	}
}

// asNull implements the literal evaluator's null projection.
func (c *evalCtx) asNull(fr *frame, n *parser.Node) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}

	switch n.Type {
	case parser.NodeNullLiteral:
		return true
	case parser.NodeIdentifier:
		b, ok := resolveAlias(fr, n.Name)
		return ok && b.kind == kindLiteral && b.literal == nil
	default:
		return false
	}
}

// eq implements structural equality over literal interpretations.
// Heterogeneous comparisons yield false.
func (c *evalCtx) eq(fr *frame, a, b *parser.Node) bool {
	if sa, oka := c.asString(fr, a); oka {
		sb, okb := c.asString(fr, b)
		return okb && sa == sb
	}
	if na, oka := c.asNumber(fr, a); oka {
		nb, okb := c.asNumber(fr, b)
		return okb && na == nb
	}
	if ba, oka := c.asBoolean(fr, a); oka {
		bb, okb := c.asBoolean(fr, b)
		return okb && ba == bb
	}
	if c.asNull(fr, a) {
		return c.asNull(fr, b)
	}
	return false
}

// isTrue implements the canonical truthiness rules, including the
// unbound-vs-bound-to-unknown distinction that guards conditional exports.
func (c *evalCtx) isTrue(fr *frame, n *parser.Node) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}

	switch n.Type {
	case parser.NodeBooleanLiteral:
		return n.Raw == "true"
	case parser.NodeNumberLiteral:
		v, ok := c.asNumber(fr, n)
		return ok && v != 0
	case parser.NodeStringLiteral:
		s, _ := c.asString(fr, n)
		return s != ""
	case parser.NodeNullLiteral:
		return false
	case parser.NodeIdentifier:
		b, ok := fr.bindings[n.Name]
		if !ok {
			return false // unbound: "undefined" is falsy
		}
		switch b.kind {
		case kindUnknown:
			return true // bound-to-unknown: conservatively truthy
		case kindLiteral:
			return c.isTrueLiteral(b.literal)
		case kindAlias:
			resolved, ok := resolveAlias(fr, n.Name)
			if !ok {
				return true
			}
			if resolved.kind == kindLiteral {
				return c.isTrueLiteral(resolved.literal)
			}
			return true
		default:
			return true // object/class/function/reexport bindings are truthy
		}
	case parser.NodeLogicalExpression:
		switch n.Operator {
		case "&&":
			return c.isTrue(fr, n.Left) && c.isTrue(fr, n.Right)
		case "||":
			return c.isTrue(fr, n.Left) || c.isTrue(fr, n.Right)
		}
		return false
	case parser.NodeBinaryExpression:
		switch n.Operator {
		case "==", "===":
			return c.eq(fr, n.Left, n.Right)
		case "!=", "!==":
			return !c.eq(fr, n.Left, n.Right)
		}
		return false
	case parser.NodeUnaryExpression:
		switch n.Operator {
		case "!":
			return !c.isTrue(fr, n.Argument)
		case "typeof":
			return true // typeof always yields a non-empty string
		}
		return false
	default:
		return false
	}
}

func (c *evalCtx) isTrueLiteral(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	case nil:
		return false
	default:
		return true
	}
}

// --- Shape resolver (§4.2) ---

// asReexport recognizes `require(spec)` calls, directly or through an
// identifier bound to kindReexportOf.
func (c *evalCtx) asReexport(fr *frame, n *parser.Node) (string, bool) {
	n = unwrapParens(n)
	if n == nil {
		return "", false
	}
	if n.Type == parser.NodeIdentifier {
		b, ok := resolveAlias(fr, n.Name)
		if ok && b.kind == kindReexportOf {
			return b.reexportSpec, true
		}
		return "", false
	}
	if spec, ok := matchRequireCall(c, fr, n); ok {
		return spec, true
	}
	return "", false
}

// matchRequireCall recognizes `require(<string>)` directly on the node.
func matchRequireCall(c *evalCtx, fr *frame, n *parser.Node) (string, bool) {
	if n == nil || n.Type != parser.NodeCallExpression {
		return "", false
	}
	callee := unwrapParens(n.Callee)
	if callee == nil || callee.Type != parser.NodeIdentifier || callee.Name != "require" {
		return "", false
	}
	if len(n.Arguments) != 1 {
		return "", false
	}
	return c.asString(fr, n.Arguments[0])
}

// asObjectShape resolves an expression to its object-literal property list.
func (c *evalCtx) asObjectShape(fr *frame, n *parser.Node) ([]*parser.Node, bool) {
	n = unwrapParens(n)
	if n == nil {
		return nil, false
	}
	if n.Type == parser.NodeObjectExpression {
		return n.Elements, true
	}
	if n.Type == parser.NodeIdentifier {
		b, ok := resolveAlias(fr, n.Name)
		if ok && b.kind == kindObjectShape {
			return b.properties, true
		}
	}
	return nil, false
}

// asClass resolves an expression to a class declaration/expression node.
func (c *evalCtx) asClass(fr *frame, n *parser.Node) (*parser.Node, bool) {
	n = unwrapParens(n)
	if n == nil {
		return nil, false
	}
	if n.Type == parser.NodeClass || n.Type == parser.NodeClassExpression {
		return n, true
	}
	if n.Type == parser.NodeIdentifier {
		b, ok := resolveAlias(fr, n.Name)
		if ok && b.kind == kindClass {
			return b.class, true
		}
	}
	return nil, false
}

// funcInfo is the payload returned by asFunction: the body to walk and any
// statics already attached via dot-assignment before this reference.
type funcInfo struct {
	body   []*parser.Node
	extras []string
}

// asFunction resolves an expression to a function value.
func (c *evalCtx) asFunction(fr *frame, n *parser.Node) (funcInfo, bool) {
	n = unwrapParens(n)
	if n == nil {
		return funcInfo{}, false
	}
	switch n.Type {
	case parser.NodeFunction, parser.NodeFunctionExpression, parser.NodeArrowFunction:
		return funcInfo{body: normalizeFunctionBody(n)}, true
	case parser.NodeIdentifier:
		b, ok := resolveAlias(fr, n.Name)
		if ok && b.kind == kindFunction {
			return funcInfo{body: b.funcBody, extras: b.funcExtras}, true
		}
	}
	return funcInfo{}, false
}

// normalizeFunctionBody turns an arrow function's expression body into a
// single synthetic return statement, so the walker's return-statement
// handling applies uniformly regardless of how the function was written.
func normalizeFunctionBody(fn *parser.Node) []*parser.Node {
	if fn.Type != parser.NodeArrowFunction {
		return fn.Body
	}
	if len(fn.Body) == 1 && !isStatementNode(fn.Body[0]) {
		synthetic := parser.NewNode(parser.NodeReturnStatement)
		synthetic.Argument = fn.Body[0]
		return []*parser.Node{synthetic}
	}
	return fn.Body
}

// isStatementNode distinguishes a statement keyword node from a bare
// expression appearing as a solitary arrow-function body element.
func isStatementNode(n *parser.Node) bool {
	switch n.Type {
	case parser.NodeVariableDeclaration, parser.NodeFunction, parser.NodeClass,
		parser.NodeIfStatement, parser.NodeBlockStatement, parser.NodeReturnStatement,
		parser.NodeSwitchStatement, parser.NodeForStatement, parser.NodeForInStatement,
		parser.NodeForOfStatement, parser.NodeWhileStatement, parser.NodeDoWhileStatement,
		parser.NodeTryStatement, parser.NodeThrowStatement, parser.NodeBreakStatement,
		parser.NodeContinueStatement, parser.NodeEmptyStatement, parser.NodeLabeledStatement:
		return true
	}
	return false
}

// propertyKeyString resolves a property/field key to its string form:
// identifier name, string-literal content, or (for computed keys) whatever
// the literal evaluator can determine.
func (c *evalCtx) propertyKeyString(fr *frame, key *parser.Node) (string, bool) {
	if key == nil {
		return "", false
	}
	switch key.Type {
	case parser.NodeIdentifier:
		return key.Name, true
	case parser.NodeStringLiteral:
		return unquoteString(key.Raw), true
	case parser.NodeNumberLiteral:
		return strings.TrimSpace(key.Raw), true
	default:
		return c.asString(fr, key)
	}
}
