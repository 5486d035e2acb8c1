package klass

import "coolc/internal/ast"

// Build walks root in pre-order (spec.md §4.2) assigning tags starting
// at 1 (tag 0 is reserved for "free memory"), constructing one Klass
// per ClassNode that inherits its parent's fields and methods and then
// applies this class's own features in source order — replacing a
// method's dispatch-table entry in place on override, or appending a
// new field/method.
func Build(root *ast.ClassNode, types *ast.TypeTable) *Registry {
	reg := &Registry{
		ByName: make(map[ast.TypeID]*Klass),
		ByTag:  []*Klass{nil}, // index 0 is the "free memory" tag, never a real Klass
	}

	var nextTag int32 = 1

	var visit func(node *ast.ClassNode, parent *Klass) *Klass
	visit = func(node *ast.ClassNode, parent *Klass) *Klass {
		k := &Klass{
			Name:   node.Class.Name,
			Parent: parent,
			Tag:    nextTag,
			types:  types,
		}
		nextTag++

		if parent != nil {
			k.Fields = append([]Field(nil), parent.Fields...)
			k.Methods = append([]MethodSlot(nil), parent.Methods...)
		}

		for _, feature := range node.Class.Features {
			switch f := feature.(type) {
			case *ast.AttrFeature:
				k.Fields = append(k.Fields, Field{
					Name:   f.Name,
					Decl:   f.Decl,
					Offset: len(k.Fields),
				})
			case *ast.MethodFeature:
				slot := MethodSlot{
					DefiningClass: node.Class.Name,
					Name:          f.Name,
					Formals:       f.Formals,
					Ret:           f.Ret,
				}
				replaced := false
				for i := range k.Methods {
					if k.Methods[i].Name == f.Name {
						k.Methods[i] = slot
						replaced = true
						break
					}
				}
				if !replaced {
					k.Methods = append(k.Methods, slot)
				}
			}
		}

		reg.ByName[k.Name] = k
		reg.ByTag = append(reg.ByTag, k)

		maxTag := k.Tag
		for _, child := range node.Children {
			childK := visit(child, k)
			if childK.ChildMaxTag > maxTag {
				maxTag = childK.ChildMaxTag
			}
		}
		k.ChildMaxTag = maxTag
		return k
	}

	visit(root, nil)
	return reg
}
