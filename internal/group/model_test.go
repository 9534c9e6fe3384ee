package group

import "testing"

// top layer 1
//
//	top group 2
//	bottom layer 10
//	  bottom group 11
//	bottom layer 20
var (
	topGroup     = Placement{GroupID: 2, LayerGroupID: 1, LayerAncestorIDs: []int64{1}}
	bottomOne    = Placement{GroupID: 10, LayerGroupID: 10, LayerAncestorIDs: []int64{10, 1}}
	bottomGroup  = Placement{GroupID: 11, LayerGroupID: 10, LayerAncestorIDs: []int64{10, 1}}
	bottomTwo    = Placement{GroupID: 20, LayerGroupID: 20, LayerAncestorIDs: []int64{20, 1}}
	topLeader    = &Role{Type: "top_group_leader", GroupID: 2, LayerGroupID: 1, GroupName: "TopGroup"}
	bottomLeader = &Role{Type: "bottom_layer_leader", GroupID: 10, LayerGroupID: 10, GroupName: "Bottom One"}
	bottomMember = &Role{Type: "bottom_layer_member", GroupID: 10, LayerGroupID: 10, GroupName: "Bottom One"}
	groupLeader  = &Role{Type: "bottom_group_leader", GroupID: 11, LayerGroupID: 10, GroupName: "Group 11"}
	globalLeader = &Role{Type: "global_group_leader", GroupID: 2, LayerGroupID: 1, GroupName: "TopGroup"}
)

func TestWritesOn(t *testing.T) {
	tests := []struct {
		name string
		role *Role
		on   Placement
		want bool
	}{
		{name: "layer and below covers own layer", role: topLeader, on: topGroup, want: true},
		{name: "layer and below covers lower layer", role: topLeader, on: bottomOne, want: true},
		{name: "lower layer leader on own layer", role: bottomLeader, on: bottomGroup, want: true},
		{name: "lower layer leader on sibling layer", role: bottomLeader, on: bottomTwo, want: false},
		{name: "lower layer leader on upper layer", role: bottomLeader, on: topGroup, want: false},
		{name: "read role never writes", role: bottomMember, on: bottomOne, want: false},
		{name: "group full on own group", role: groupLeader, on: bottomGroup, want: true},
		{name: "group full on layer group", role: groupLeader, on: bottomOne, want: false},
		{name: "layer full on own layer", role: globalLeader, on: topGroup, want: true},
		{name: "layer full not below", role: globalLeader, on: bottomOne, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.WritesOn(tt.on); got != tt.want {
				t.Fatalf("WritesOn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadsOn(t *testing.T) {
	if !bottomMember.ReadsOn(bottomGroup) {
		t.Fatal("layer and below read should cover groups of the layer")
	}
	if bottomMember.ReadsOn(bottomTwo) {
		t.Fatal("layer and below read must not cover sibling layers")
	}
	if !topLeader.ReadsOn(bottomTwo) {
		t.Fatal("write implies read")
	}
}

func TestWriteRolesOnScopesToHierarchy(t *testing.T) {
	otherLayerLeader := &Role{Type: "bottom_layer_leader", GroupID: 20, LayerGroupID: 20, GroupName: "Bottom Two"}
	roles := []*Role{bottomLeader, bottomMember, topLeader, otherLayerLeader}

	got := WriteRolesOn(roles, bottomOne)
	if len(got) != 2 {
		t.Fatalf("got %d roles, want 2", len(got))
	}
	if got[0].String() != "Leader in Bottom One" || got[1].String() != "Leader in TopGroup" {
		t.Fatalf("roles = %q, %q", got[0].String(), got[1].String())
	}
}

func TestGroupDisplayNameWithType(t *testing.T) {
	g := &Group{Type: "bottom_layer", Name: "Bottom One"}
	if got := g.DisplayNameWithType(); got != "Bottom Layer Bottom One" {
		t.Fatalf("display = %q", got)
	}
	if !g.IsLayer() {
		t.Fatal("bottom layer should be a layer")
	}
}

func TestWriteRoleTypes(t *testing.T) {
	types := WriteRoleTypes()
	want := map[string]bool{"bottom_layer_leader": true, "global_group_leader": true, "top_group_leader": true}
	if len(types) != len(want) {
		t.Fatalf("types = %v", types)
	}
	for _, name := range types {
		if !want[name] {
			t.Fatalf("unexpected type %q", name)
		}
	}
}
