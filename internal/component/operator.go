package component

// Operator enumerates the operators an atomic transaction can carry.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpMod Operator = "%"

	OpEq Operator = "=="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpLe Operator = "<="
	OpGt Operator = ">"
	OpGe Operator = ">="

	OpAssign    Operator = "="
	OpAssignAdd Operator = "+="
	OpAssignSub Operator = "-="
	OpAssignMul Operator = "*="
	OpAssignDiv Operator = "/="
	OpAssignMod Operator = "%="

	OpAnd Operator = "&"
	OpOr  Operator = "|"
	OpXor Operator = "^"
	OpNot Operator = "~"

	// OpRaw marks a transaction that carries a verbatim Minecraft command
	// instead of an operation over operands.
	OpRaw Operator = "raw"
)

// assignOperators is the subset valid on the left edge of an assignment
// statement.
var assignOperators = map[Operator]struct{}{
	OpAssign:    {},
	OpAssignAdd: {},
	OpAssignSub: {},
	OpAssignMul: {},
	OpAssignDiv: {},
	OpAssignMod: {},
}

// IsAssignOperator reports whether op mutates its left operand.
func IsAssignOperator(op Operator) bool {
	_, ok := assignOperators[op]
	return ok
}
