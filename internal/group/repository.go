package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/membership/internal/database"
)

// Repository handles group data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new group repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, parent_id, COALESCE(layer_group_id, id), type, name, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.ParentID,
		&group.LayerGroupID,
		&group.Type,
		&group.Name,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// Placement resolves the layer hierarchy above a group
func (r *Repository) Placement(ctx context.Context, groupID int64) (*Placement, error) {
	group, err := r.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}

	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id, COALESCE(layer_group_id, id) AS layer_group_id, 0 AS depth
			FROM groups
			WHERE id = $1
			UNION ALL
			SELECT g.id, g.parent_id, COALESCE(g.layer_group_id, g.id), a.depth + 1
			FROM groups g
			JOIN ancestors a ON g.id = a.parent_id
		)
		SELECT layer_group_id
		FROM ancestors
		GROUP BY layer_group_id
		ORDER BY MIN(depth)
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve layers: %w", err)
	}
	defer rows.Close()

	placement := &Placement{GroupID: group.ID, LayerGroupID: group.LayerGroupID}
	for rows.Next() {
		var layerID int64
		if err := rows.Scan(&layerID); err != nil {
			return nil, fmt.Errorf("failed to scan layer: %w", err)
		}
		placement.LayerAncestorIDs = append(placement.LayerAncestorIDs, layerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate layers: %w", err)
	}

	return placement, nil
}

const roleColumns = `
	r.id, r.person_id, r.group_id, r.type, r.label, r.created_at,
	g.name, COALESCE(g.layer_group_id, g.id)
`

func scanRoles(rows *sql.Rows) ([]*Role, error) {
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(
			&role.ID,
			&role.PersonID,
			&role.GroupID,
			&role.Type,
			&role.Label,
			&role.CreatedAt,
			&role.GroupName,
			&role.LayerGroupID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, nil
}

// RolesForPerson retrieves the active group roles of a person
func (r *Repository) RolesForPerson(ctx context.Context, personID int64) ([]*Role, error) {
	query := `
		SELECT ` + roleColumns + `
		FROM roles r
		JOIN groups g ON r.group_id = g.id
		WHERE r.person_id = $1 AND r.deleted_at IS NULL
		ORDER BY r.created_at, r.id
	`

	rows, err := r.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	return scanRoles(rows)
}

// GetRoles retrieves the active roles of a group
func (r *Repository) GetRoles(ctx context.Context, groupID int64) ([]*Role, error) {
	query := `
		SELECT ` + roleColumns + `
		FROM roles r
		JOIN groups g ON r.group_id = g.id
		WHERE r.group_id = $1 AND r.deleted_at IS NULL
		ORDER BY r.created_at, r.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	return scanRoles(rows)
}

// PersonIDsWithRolesInLayer returns the people holding one of roleTypes in
// a group of the given layer
func (r *Repository) PersonIDsWithRolesInLayer(ctx context.Context, layerGroupID int64, roleTypes []string) ([]int64, error) {
	query := `
		SELECT DISTINCT r.person_id
		FROM roles r
		JOIN groups g ON r.group_id = g.id
		WHERE COALESCE(g.layer_group_id, g.id) = $1
		  AND r.type = ANY($2)
		  AND r.deleted_at IS NULL
		ORDER BY r.person_id
	`

	rows, err := r.db.QueryContext(ctx, query, layerGroupID, pq.Array(roleTypes))
	if err != nil {
		return nil, fmt.Errorf("failed to get responsibles: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan person id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
