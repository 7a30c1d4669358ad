package ir

import (
	"unicode"
	"unicode/utf8"
)

// Expr is the closed set of source value expressions.
type Expr interface {
	String() string
	isExpr()
}

// Var reads a named variable.
type Var struct {
	Name string
}

// Field reads X.Name.
type Field struct {
	X    Expr
	Name string
}

// Call calls the zero-argument method X.Method().
type Call struct {
	X      Expr
	Method string
}

// Elem reads X[Index] where Index is a loop variable.
type Elem struct {
	X     Expr
	Index string
}

// Deref reads the value X points to. X must be checked for nil first.
type Deref struct {
	X Expr
}

func (Var) isExpr()   {}
func (Field) isExpr() {}
func (Call) isExpr()  {}
func (Elem) isExpr()  {}
func (Deref) isExpr() {}

func (v Var) String() string   { return v.Name }
func (f Field) String() string { return f.X.String() + "." + f.Name }
func (c Call) String() string  { return c.X.String() + "." + c.Method + "()" }
func (e Elem) String() string  { return e.X.String() + "[" + e.Index + "]" }
func (d Deref) String() string { return "(*" + d.X.String() + ")" }

// Sanitize flattens an expression into an identifier fragment:
// model.GetCustomer().Tags[index2] becomes modelGetCustomerTagsIndex2.
func Sanitize(e Expr) string {
	switch v := e.(type) {
	case Var:
		return v.Name
	case Field:
		return Sanitize(v.X) + UpperFirst(v.Name)
	case Call:
		return Sanitize(v.X) + UpperFirst(v.Method)
	case Elem:
		return Sanitize(v.X) + UpperFirst(v.Index)
	case Deref:
		return Sanitize(v.X)
	}
	return ""
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Mentions reports whether e reads the variable name.
func Mentions(e Expr, name string) bool {
	switch v := e.(type) {
	case Var:
		return v.Name == name
	case Field:
		return Mentions(v.X, name)
	case Call:
		return Mentions(v.X, name)
	case Elem:
		return v.Index == name || Mentions(v.X, name)
	case Deref:
		return Mentions(v.X, name)
	}
	return false
}
