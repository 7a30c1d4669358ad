// Package ir is the statement tree produced by codegen and consumed by a
// renderer.
//
// Statements write into output locations described by a Path and read from
// source values described by an Expr. A renderer owns the concrete syntax:
// the tree never contains target-language text.
package ir

import (
	"github.com/teranos/dtogen/shape"
)

// Function is one generated serialization routine.
type Function struct {
	Name string

	// Param is the name of the input parameter, ParamType its type.
	Param     string
	ParamType shape.TypeID

	// Pointer reports whether the parameter is received by pointer. Interface
	// contracts are received by value.
	Pointer bool

	Request shape.GenerationRequest
	Body    Block
}

// Source returns the expression that reads the function parameter.
func (f *Function) Source() Expr { return Var{Name: f.Param} }

// Statement is the closed set of tree nodes.
type Statement interface {
	isStatement()
}

// Block is an ordered statement list.
type Block []Statement

// Empty reports whether the block writes nothing but empty objects.
func (b Block) Empty() bool {
	for _, st := range b {
		obj, ok := st.(Object)
		if !ok || !obj.Body.Empty() {
			return false
		}
	}
	return true
}

// Object opens a string-keyed container at Target and runs Body inside it.
// At the root path the function's own result container is used.
type Object struct {
	Target Path
	Body   Block
}

// Assign writes Value at Target.
type Assign struct {
	Target Path
	Value  Expr
}

// FormatTime writes Value formatted with Layout at Target.
type FormatTime struct {
	Target Path
	Value  Expr
	Layout string
}

// Copy writes a whole scalar collection at Target without iterating it.
type Copy struct {
	Target Path
	Value  Expr
}

// Guard binds Value to Temp and runs Body. When Nillable, Body only runs if
// the value is present. An empty Temp reuses Value directly.
type Guard struct {
	Temp     string
	Value    Expr
	Nillable bool
	Body     Block
}

// ListLoop opens an ordered container at Target sized like Source and runs
// Body once per element with Index bound to the position.
type ListLoop struct {
	Target Path
	Source Expr
	Index  string
	Body   Block
}

// MapLoop opens a string-keyed container at Target and runs Body once per
// entry of Source with Index bound to the key.
type MapLoop struct {
	Target Path
	Source Expr
	Index  string
	Body   Block
}

// EmptyList writes an empty ordered container at Target.
type EmptyList struct {
	Target Path
}

// EmptyMap writes an empty string-keyed container at Target.
type EmptyMap struct {
	Target Path
}

// VariantSwitch dispatches on the dynamic type of Source. Exactly one case
// runs for a matching concrete type; an unmatched value writes nothing.
type VariantSwitch struct {
	Target Path
	Source Expr
	Var    string
	Cases  []VariantCase
}

// VariantCase is one branch of a VariantSwitch. Var is bound to the concrete
// value inside Body.
type VariantCase struct {
	Type     shape.TypeID
	Abstract bool
	Body     Block
}

func (Object) isStatement()        {}
func (Assign) isStatement()        {}
func (FormatTime) isStatement()    {}
func (Copy) isStatement()          {}
func (Guard) isStatement()         {}
func (ListLoop) isStatement()      {}
func (MapLoop) isStatement()       {}
func (EmptyList) isStatement()     {}
func (EmptyMap) isStatement()      {}
func (VariantSwitch) isStatement() {}
