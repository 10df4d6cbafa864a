package joinrequest

import (
	"context"
	"database/sql"
	"fmt"
)

const requestColumns = "id, studio_id, user_id, message, status, created_at, updated_at"

// Repository handles join-request persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new join-request repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*JoinRequest, error) {
	req := &JoinRequest{}
	err := row.Scan(
		&req.ID,
		&req.StudioID,
		&req.UserID,
		&req.Message,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// GetByID retrieves a join request by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*JoinRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM join_requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return req, nil
}

// GetByStudioUser retrieves the request for a (studio, user) pair
func (r *Repository) GetByStudioUser(ctx context.Context, studioID, userID int64) (*JoinRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM join_requests WHERE studio_id = $1 AND user_id = $2`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, studioID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return req, nil
}

// Create inserts a new pending join request
func (r *Repository) Create(ctx context.Context, studioID, userID int64, message *string) (*JoinRequest, error) {
	query := `
		INSERT INTO join_requests (studio_id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, studioID, userID, message))
	if err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}
	return req, nil
}

// Reinstate resets a rejected request to PENDING with a new message,
// reusing the existing row
func (r *Repository) Reinstate(ctx context.Context, id int64, message *string) (*JoinRequest, error) {
	query := `
		UPDATE join_requests
		SET status = 'PENDING', message = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, message))
	if err != nil {
		return nil, fmt.Errorf("failed to reinstate join request: %w", err)
	}
	return req, nil
}

// UpdateStatus sets the request status
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (*JoinRequest, error) {
	query := `
		UPDATE join_requests
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, fmt.Errorf("failed to update join request status: %w", err)
	}
	return req, nil
}

// Approve marks the request APPROVED and creates the membership in
// one transaction. A concurrent admission for the same pair aborts
// the transaction on the membership unique index.
func (r *Repository) Approve(ctx context.Context, req *JoinRequest) (*JoinRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	approved, err := scanRequest(tx.QueryRowContext(ctx, `
		UPDATE join_requests
		SET status = 'APPROVED', updated_at = now()
		WHERE id = $1
		RETURNING `+requestColumns, req.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to approve join request: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO studio_members (studio_id, user_id, role)
		VALUES ($1, $2, 'MEMBER')
	`, req.StudioID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	return approved, nil
}

// ListPendingByStudio retrieves a studio's pending requests in review
// order, oldest first
func (r *Repository) ListPendingByStudio(ctx context.Context, studioID int64) ([]*JoinRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM join_requests
		WHERE studio_id = $1 AND status = 'PENDING'
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, studioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	defer rows.Close()

	var requests []*JoinRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan join request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}
