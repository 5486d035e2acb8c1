package ast

import "testing"

func TestTypeTableInternsBuiltinsStably(t *testing.T) {
	tbl := NewTypeTable()
	if id, ok := tbl.Lookup("Object"); !ok || id != ObjectType {
		t.Fatalf("Object = %v, %v; want %v, true", id, ok, ObjectType)
	}
	if id, ok := tbl.Lookup("Int"); !ok || id != IntType {
		t.Fatalf("Int = %v, %v; want %v, true", id, ok, IntType)
	}
	if !tbl.IsBuiltin(IntType) || tbl.IsBuiltin(SelfType) {
		t.Fatal("IsBuiltin disagrees with spec.md's basic-type set")
	}
}

func TestTypeTableInternUser(t *testing.T) {
	tbl := NewTypeTable()
	a := tbl.Intern("A")
	again := tbl.Intern("A")
	if a != again {
		t.Fatalf("Intern not idempotent: %v != %v", a, again)
	}
	b := tbl.Intern("B")
	if a == b {
		t.Fatal("distinct names got the same TypeID")
	}
	if tbl.Name(a) != "A" {
		t.Fatalf("Name(a) = %q, want A", tbl.Name(a))
	}
}

func TestClassNodeWalkIsPreOrder(t *testing.T) {
	tbl := NewTypeTable()
	object := &ClassNode{Class: &Class{Name: ObjectType}}
	io := &ClassNode{Class: &Class{Name: IOType}}
	a := &ClassNode{Class: &Class{Name: tbl.Intern("A")}}
	b := &ClassNode{Class: &Class{Name: tbl.Intern("B")}}
	object.AddChild(io)
	object.AddChild(a)
	a.AddChild(b)

	var order []TypeID
	object.Walk(func(n *ClassNode) { order = append(order, n.Class.Name) })

	want := []TypeID{ObjectType, IOType, a.Class.Name, b.Class.Name}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %v, want %v (full: %v)", i, order[i], want[i], order)
		}
	}

	if found := object.Find(b.Class.Name); found != b {
		t.Fatalf("Find(B) = %v, want %v", found, b)
	}
	if found := object.Find(tbl.Intern("NoSuchClass")); found != nil {
		t.Fatalf("Find(missing) = %v, want nil", found)
	}
}
