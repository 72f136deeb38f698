// Package pytype is the closed set of Python types serpentine understands.
package pytype

type Type int

const (
	Integer Type = iota + 1
	Float
	String
	Boolean
	List
	Dict
	Tuple
)

var names = map[Type]string{
	Integer: "int",
	Float:   "float",
	String:  "str",
	Boolean: "bool",
	List:    "list",
	Dict:    "dict",
	Tuple:   "tuple",
}

var byName = map[string]Type{
	"int":   Integer,
	"float": Float,
	"str":   String,
	"bool":  Boolean,
	"list":  List,
	"dict":  Dict,
	"tuple": Tuple,
}

// Parse looks up one of the seven canonical lowercase type names.
func Parse(name string) (Type, bool) {
	t, ok := byName[name]
	return t, ok
}

func (t Type) String() string {
	return names[t]
}

// IsAssignable reports whether a value of type actual may be stored where
// expected is declared. bool widens to int; nothing else converts.
func IsAssignable(actual, expected Type) bool {
	if actual == expected {
		return true
	}
	return actual == Boolean && expected == Integer
}

func All() []Type {
	return []Type{Integer, Float, String, Boolean, List, Dict, Tuple}
}
