package invite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hfarran/studiohub/internal/studio"
)

const inviteColumns = "id, studio_id, user_id, invited_by, role, status, created_at, updated_at"

// Repository handles invite persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new invite repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanInvite(row interface{ Scan(...any) error }) (*Invite, error) {
	inv := &Invite{}
	err := row.Scan(
		&inv.ID,
		&inv.StudioID,
		&inv.UserID,
		&inv.InvitedBy,
		&inv.Role,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID retrieves an invite by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

// GetByStudioUser retrieves the invite for a (studio, user) pair
func (r *Repository) GetByStudioUser(ctx context.Context, studioID, userID int64) (*Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE studio_id = $1 AND user_id = $2`

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, studioID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

// Create inserts a new pending invite
func (r *Repository) Create(ctx context.Context, studioID, userID, invitedBy int64, role studio.Role) (*Invite, error) {
	query := `
		INSERT INTO invites (studio_id, user_id, invited_by, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + inviteColumns

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, studioID, userID, invitedBy, role))
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return inv, nil
}

// Reinstate resets a rejected invite to PENDING with a new role and
// inviter, reusing the existing row
func (r *Repository) Reinstate(ctx context.Context, id, invitedBy int64, role studio.Role) (*Invite, error) {
	query := `
		UPDATE invites
		SET status = 'PENDING', role = $2, invited_by = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + inviteColumns

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, id, role, invitedBy))
	if err != nil {
		return nil, fmt.Errorf("failed to reinstate invite: %w", err)
	}
	return inv, nil
}

// UpdateStatus sets the invite status
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Invite, error) {
	query := `
		UPDATE invites
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + inviteColumns

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, fmt.Errorf("failed to update invite status: %w", err)
	}
	return inv, nil
}

// Accept marks the invite ACCEPTED and creates the membership in one
// transaction. If a membership already exists the transaction aborts
// on the membership unique index and nothing is applied.
func (r *Repository) Accept(ctx context.Context, inv *Invite) (*Invite, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	accepted, err := scanInvite(tx.QueryRowContext(ctx, `
		UPDATE invites
		SET status = 'ACCEPTED', updated_at = now()
		WHERE id = $1
		RETURNING `+inviteColumns, inv.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO studio_members (studio_id, user_id, role)
		VALUES ($1, $2, $3)
	`, inv.StudioID, inv.UserID, inv.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invite acceptance: %w", err)
	}

	return accepted, nil
}

// ListPendingForUser retrieves a user's pending invites, newest first
func (r *Repository) ListPendingForUser(ctx context.Context, userID int64) ([]*Invite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invites
		WHERE user_id = $1 AND status = 'PENDING'
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, userID)
}

// ListByStudio retrieves all invites issued by a studio, newest first
func (r *Repository) ListByStudio(ctx context.Context, studioID int64) ([]*Invite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invites
		WHERE studio_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, studioID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Invite, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, inv)
	}

	return invites, nil
}
