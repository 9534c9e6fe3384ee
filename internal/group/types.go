package group

import "sort"

// Permission is granted to a role by its type
type Permission string

const (
	PermAdmin               Permission = "admin"
	PermLayerAndBelowFull   Permission = "layer_and_below_full"
	PermLayerFull           Permission = "layer_full"
	PermGroupFull           Permission = "group_full"
	PermLayerAndBelowRead   Permission = "layer_and_below_read"
	PermLayerRead           Permission = "layer_read"
	PermGroupRead           Permission = "group_read"
	PermContactData         Permission = "contact_data"
	PermApproveApplications Permission = "approve_applications"
)

type groupType struct {
	Label string
	Layer bool
}

var groupTypes = map[string]groupType{
	"top_layer":    {Label: "Top Layer", Layer: true},
	"top_group":    {Label: "Top Group"},
	"bottom_layer": {Label: "Bottom Layer", Layer: true},
	"bottom_group": {Label: "Bottom Group"},
	"global_group": {Label: "Global Group"},
}

type roleType struct {
	Name        string
	Permissions []Permission
}

var roleTypes = map[string]roleType{
	"top_group_leader": {
		Name:        "Leader",
		Permissions: []Permission{PermAdmin, PermLayerAndBelowFull, PermContactData},
	},
	"top_group_secretary": {
		Name:        "Secretary",
		Permissions: []Permission{PermLayerAndBelowRead, PermContactData},
	},
	"top_group_member": {
		Name:        "Member",
		Permissions: []Permission{PermGroupRead, PermContactData},
	},
	"bottom_layer_leader": {
		Name:        "Leader",
		Permissions: []Permission{PermLayerAndBelowFull, PermApproveApplications, PermContactData},
	},
	"bottom_layer_member": {
		Name:        "Member",
		Permissions: []Permission{PermLayerAndBelowRead},
	},
	"bottom_group_leader": {
		Name:        "Leader",
		Permissions: []Permission{PermGroupFull},
	},
	"bottom_group_member": {
		Name:        "Member",
		Permissions: []Permission{PermGroupRead},
	},
	"global_group_leader": {
		Name:        "Leader",
		Permissions: []Permission{PermLayerFull},
	},
	"external": {
		Name: "External",
	},
}

// WriteRoleTypes lists role types granting layer wide write access. Their
// holders are responsible for the people of their layer.
func WriteRoleTypes() []string {
	var out []string
	for name, t := range roleTypes {
		for _, p := range t.Permissions {
			if p == PermLayerAndBelowFull || p == PermLayerFull {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// KnownRoleType reports whether name is a registered group role type
func KnownRoleType(name string) bool {
	_, ok := roleTypes[name]
	return ok
}
