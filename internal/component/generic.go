package component

import (
	"strings"

	"github.com/McDic/MCDIL/internal/mcerr"
)

// GenericKind enumerates the four generic parameter kinds.
type GenericKind int

const (
	GenericTypename GenericKind = iota
	GenericInt
	GenericBool
	GenericTypemap
)

// String returns the lowercase generic kind name.
func (k GenericKind) String() string {
	switch k {
	case GenericTypename:
		return "typename"
	case GenericInt:
		return "int"
	case GenericBool:
		return "bool"
	case GenericTypemap:
		return "typemap"
	default:
		return "unknown"
	}
}

// GenericParam is one compile-time parameter of a definition. The binding
// matching Kind may be nil/absent while the parameter is unbound:
//
//	Typename -> Type points at a definition
//	Int      -> Int
//	Bool     -> Bool
//	Typemap  -> Typemap maps names to optional definitions (nil = unbound)
type GenericParam struct {
	Name string
	Kind GenericKind

	Type    *ID
	Int     *int64
	Bool    *bool
	Typemap map[string]*ID
}

// verifyGenerics validates the parameter list of a definition under
// construction. Every parameter name must be an entirely uppercase word;
// an empty list marks the definition as non-generic.
func (g *Graph) verifyGenerics(params []GenericParam) ([]GenericParam, error) {
	if len(params) == 0 {
		return nil, nil
	}
	for _, param := range params {
		if param.Name == "" || param.Name != strings.ToUpper(param.Name) {
			return nil, mcerr.NewMalformedGeneric(g.locs, param.Name)
		}
	}
	return params, nil
}

// Generics returns the ordered generic parameters of a definition. An empty
// result means the definition is non-generic.
func (g *Graph) Generics(id ID) []GenericParam {
	return g.nodes[id].generics
}

// IsGeneric reports whether id carries at least one generic parameter.
func (g *Graph) IsGeneric(id ID) bool {
	return len(g.nodes[id].generics) > 0
}
