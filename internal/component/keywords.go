package component

// RootNamespaceName is the reserved name of the synthetic root namespace of
// every compilation unit.
const RootNamespaceName = "__root__"

// hardKeywords is the set of words that can never be an identifier.
var hardKeywords = map[string]struct{}{
	// Types
	"int":      {},
	"bool":     {},
	"float":    {},
	"null":     {},
	"string":   {},
	"deque":    {},
	"selector": {},
	"D3":       {},
	"R2":       {},
	"map":      {},
	"auto":     {},
	// Literals
	"true":  {},
	"false": {},
	// Qualifiers
	"immutable": {},
	"export":    {},
	// Special statements
	"sleep":    {},
	"return":   {},
	"continue": {},
	"break":    {},
	"alias":    {},
	"author":   {},
	// MC command related
	"raw":     {},
	"execute": {},
	// Compounds
	"function":  {},
	"while":     {},
	"if":        {},
	"else":      {},
	"namespace": {},
	"import":    {},
	// Custom types and generics
	"struct":   {},
	"enum":     {},
	"typename": {},
	"typemap":  {},
}

// IsKeyword reports whether name is a reserved hard keyword.
func IsKeyword(name string) bool {
	_, ok := hardKeywords[name]
	return ok
}
