package group

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	TypeLabel    string          `json:"type_label"`
	ParentID     *int64          `json:"parent_id,omitempty"`
	LayerGroupID int64           `json:"layer_group_id"`
	Layer        bool            `json:"layer"`
	CreatedAt    string          `json:"created_at"`
	Roles        []*RoleResponse `json:"roles,omitempty"`
}

// RoleResponse represents a role in a group response
type RoleResponse struct {
	ID       int64        `json:"id"`
	PersonID int64        `json:"person_id"`
	Type     string       `json:"type"`
	Name     string       `json:"name"`
	Label    *string      `json:"label,omitempty"`
	Perms    []Permission `json:"permissions"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Type:         g.Type,
		TypeLabel:    g.TypeLabel(),
		ParentID:     g.ParentID,
		LayerGroupID: g.LayerGroupID,
		Layer:        g.IsLayer(),
		CreatedAt:    g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Role model to a RoleResponse DTO
func (r *Role) ToResponse() *RoleResponse {
	return &RoleResponse{
		ID:       r.ID,
		PersonID: r.PersonID,
		Type:     r.Type,
		Name:     r.Name(),
		Label:    r.Label,
		Perms:    r.Permissions(),
	}
}
