package ir

import "github.com/google/uuid"

// Module is spec.md §3's IR module: "name-indexed maps of functions,
// global constants, global variables." BuildID is a fresh uuid minted
// by NewModule; it is not taken from ast.Program.BuildID, and nothing
// else in this module reads it.
type Module struct {
	Name    string
	BuildID uuid.UUID

	Functions       map[string]*Function
	GlobalConstants map[string]*GlobalConstant
	GlobalVariables map[string]*GlobalVariable
}

// NewModule creates an empty module with a fresh build id.
func NewModule(name string) *Module {
	return &Module{
		Name:            name,
		BuildID:         uuid.New(),
		Functions:       make(map[string]*Function),
		GlobalConstants: make(map[string]*GlobalConstant),
		GlobalVariables: make(map[string]*GlobalVariable),
	}
}

// AddFunction registers fn under its own name.
func (m *Module) AddFunction(fn *Function) { m.Functions[fn.Name] = fn }

// AddGlobalConstant registers gc under its own name.
func (m *Module) AddGlobalConstant(gc *GlobalConstant) { m.GlobalConstants[gc.Name] = gc }

// AddGlobalVariable registers gv under its own name.
func (m *Module) AddGlobalVariable(gv *GlobalVariable) { m.GlobalVariables[gv.Name] = gv }
