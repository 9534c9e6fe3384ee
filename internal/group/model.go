package group

import "time"

// Group is a node of the organisational tree. Layer groups scope
// permissions for everything below them.
type Group struct {
	ID           int64     `json:"id"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	LayerGroupID int64     `json:"layer_group_id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// TypeLabel is the human readable label of the group type
func (g *Group) TypeLabel() string {
	if t, ok := groupTypes[g.Type]; ok {
		return t.Label
	}
	return g.Type
}

// IsLayer reports whether the group opens a new layer
func (g *Group) IsLayer() bool {
	return groupTypes[g.Type].Layer
}

// DisplayNameWithType is the type label followed by the group name,
// e.g. "Bottom Layer Bottom One"
func (g *Group) DisplayNameWithType() string {
	return g.TypeLabel() + " " + g.Name
}

// Placement locates a group in the layer hierarchy
type Placement struct {
	GroupID      int64
	LayerGroupID int64
	// LayerAncestorIDs holds the group's layer and every layer above it
	LayerAncestorIDs []int64
}

// Role is a person's role in a group
type Role struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	GroupID   int64     `json:"group_id"`
	Type      string    `json:"type"`
	Label     *string   `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Populated from JOIN
	GroupName    string `json:"group_name,omitempty"`
	LayerGroupID int64  `json:"layer_group_id,omitempty"`
}

// Name is the label of the role type
func (r *Role) Name() string {
	if t, ok := roleTypes[r.Type]; ok {
		return t.Name
	}
	return r.Type
}

// String renders the role with its group, e.g. "Leader in Bottom One"
func (r *Role) String() string {
	return r.Name() + " in " + r.GroupName
}

// Permissions returns the permissions granted by the role type
func (r *Role) Permissions() []Permission {
	return roleTypes[r.Type].Permissions
}

// Has reports whether the role type grants perm
func (r *Role) Has(perm Permission) bool {
	for _, p := range r.Permissions() {
		if p == perm {
			return true
		}
	}
	return false
}

// WritesOn reports whether the role grants write access on the placed group.
// group_full covers the role's own group, layer_full the role's layer and
// layer_and_below_full the role's layer and every layer below it.
func (r *Role) WritesOn(p Placement) bool {
	for _, perm := range r.Permissions() {
		switch perm {
		case PermGroupFull:
			if r.GroupID == p.GroupID {
				return true
			}
		case PermLayerFull:
			if r.LayerGroupID == p.LayerGroupID {
				return true
			}
		case PermLayerAndBelowFull:
			if containsID(p.LayerAncestorIDs, r.LayerGroupID) {
				return true
			}
		}
	}
	return false
}

// ReadsOn reports whether the role grants read access on the placed group
func (r *Role) ReadsOn(p Placement) bool {
	if r.WritesOn(p) {
		return true
	}
	for _, perm := range r.Permissions() {
		switch perm {
		case PermGroupRead:
			if r.GroupID == p.GroupID {
				return true
			}
		case PermLayerRead:
			if r.LayerGroupID == p.LayerGroupID {
				return true
			}
		case PermLayerAndBelowRead:
			if containsID(p.LayerAncestorIDs, r.LayerGroupID) {
				return true
			}
		}
	}
	return false
}

// HasWritePermission reports whether the role type carries any write permission
func (r *Role) HasWritePermission() bool {
	return r.Has(PermGroupFull) || r.Has(PermLayerFull) || r.Has(PermLayerAndBelowFull)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
