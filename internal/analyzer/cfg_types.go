package analyzer

import (
	corecfg "github.com/ludo-technologies/codescan-core/cfg"
)

// CFG, BasicBlock and Edge are aliases onto codescan-core's graph types so the
// builder, complexity and dead-code passes below can share one control-flow
// representation with the rest of the analyzer package.
type (
	CFG        = corecfg.CFG
	BasicBlock = corecfg.BasicBlock
	Edge       = corecfg.Edge
	EdgeType   = corecfg.EdgeType
)

const (
	EdgeNormal    = corecfg.EdgeNormal
	EdgeCondTrue  = corecfg.EdgeCondTrue
	EdgeCondFalse = corecfg.EdgeCondFalse
	EdgeLoop      = corecfg.EdgeLoop
	EdgeException = corecfg.EdgeException
	EdgeReturn    = corecfg.EdgeReturn
	EdgeBreak     = corecfg.EdgeBreak
	EdgeContinue  = corecfg.EdgeContinue
)

// NewCFG creates an empty control flow graph named after its owning function.
func NewCFG(name string) *CFG {
	return corecfg.NewCFG(name)
}

// NewBasicBlock creates a block with the given id, ready to be attached to a CFG.
func NewBasicBlock(id string) *BasicBlock {
	return corecfg.NewBasicBlock(id)
}
