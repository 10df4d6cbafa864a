package studio

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles studio and membership persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new studio repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new studio and its owner membership in one transaction
func (r *Repository) Create(ctx context.Context, req *CreateStudioRequest, creatorID int64) (*Studio, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	studio := &Studio{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO studios (name, slug, description, join_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, description, join_type, created_at
	`, req.Name, req.Slug, req.Description, req.JoinType).Scan(
		&studio.ID,
		&studio.Name,
		&studio.Slug,
		&studio.Description,
		&studio.JoinType,
		&studio.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create studio: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO studio_members (studio_id, user_id, role)
		VALUES ($1, $2, $3)
	`, studio.ID, creatorID, RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit studio creation: %w", err)
	}

	return studio, nil
}

// GetByID retrieves a studio by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Studio, error) {
	query := `
		SELECT id, name, slug, description, join_type, created_at
		FROM studios
		WHERE id = $1
	`

	studio := &Studio{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&studio.ID,
		&studio.Name,
		&studio.Slug,
		&studio.Description,
		&studio.JoinType,
		&studio.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get studio: %w", err)
	}

	return studio, nil
}

// ListByUserID retrieves all studios a user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Studio, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM studios s
		JOIN studio_members m ON s.id = m.studio_id
		WHERE m.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count studios: %w", err)
	}

	query := `
		SELECT s.id, s.name, s.slug, s.description, s.join_type, s.created_at
		FROM studios s
		JOIN studio_members m ON s.id = m.studio_id
		WHERE m.user_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list studios: %w", err)
	}
	defer rows.Close()

	var studios []*Studio
	for rows.Next() {
		studio := &Studio{}
		if err := rows.Scan(
			&studio.ID,
			&studio.Name,
			&studio.Slug,
			&studio.Description,
			&studio.JoinType,
			&studio.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan studio: %w", err)
		}
		studios = append(studios, studio)
	}

	return studios, total, nil
}

// Update modifies an existing studio
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateStudioRequest) (*Studio, error) {
	query := `
		UPDATE studios
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    join_type = COALESCE($4, join_type)
		WHERE id = $1
		RETURNING id, name, slug, description, join_type, created_at
	`

	studio := &Studio{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.JoinType).Scan(
		&studio.ID,
		&studio.Name,
		&studio.Slug,
		&studio.Description,
		&studio.JoinType,
		&studio.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update studio: %w", err)
	}

	return studio, nil
}

// Delete removes a studio; memberships and admission records cascade
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM studios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete studio: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStudioNotFound
	}

	return nil
}

// AddMember inserts a membership row. The unique index on
// (studio_id, user_id) rejects duplicates.
func (r *Repository) AddMember(ctx context.Context, studioID, userID int64, role Role) (*Member, error) {
	query := `
		INSERT INTO studio_members (studio_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, studio_id, user_id, role, joined_at
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, studioID, userID, role).Scan(
		&member.ID,
		&member.StudioID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMember retrieves a specific member of a studio
func (r *Repository) GetMember(ctx context.Context, studioID, userID int64) (*Member, error) {
	query := `
		SELECT m.id, m.studio_id, m.user_id, m.role, m.joined_at, u.username, u.email
		FROM studio_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.studio_id = $1 AND m.user_id = $2
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, studioID, userID).Scan(
		&member.ID,
		&member.StudioID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
		&member.Username,
		&member.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a studio
func (r *Repository) GetMembers(ctx context.Context, studioID int64) ([]*Member, error) {
	query := `
		SELECT m.id, m.studio_id, m.user_id, m.role, m.joined_at, u.username, u.email
		FROM studio_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.studio_id = $1
		ORDER BY m.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, studioID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(
			&member.ID,
			&member.StudioID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// UpdateMemberRole changes a member's role
func (r *Repository) UpdateMemberRole(ctx context.Context, studioID, userID int64, role Role) (*Member, error) {
	query := `
		UPDATE studio_members
		SET role = $3
		WHERE studio_id = $1 AND user_id = $2
		RETURNING id, studio_id, user_id, role, joined_at
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, studioID, userID, role).Scan(
		&member.ID,
		&member.StudioID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	return member, nil
}

// RemoveMember deletes a membership row
func (r *Repository) RemoveMember(ctx context.Context, studioID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM studio_members WHERE studio_id = $1 AND user_id = $2
	`, studioID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}
