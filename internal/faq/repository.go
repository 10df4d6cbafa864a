package faq

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles FAQ persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new FAQ repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new FAQ entry
func (r *Repository) Create(ctx context.Context, studioID int64, req *CreateFAQRequest) (*FAQ, error) {
	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	query := `
		INSERT INTO studio_faqs (studio_id, question, answer, ord)
		VALUES ($1, $2, $3, $4)
		RETURNING id, studio_id, question, answer, ord, created_at
	`

	f := &FAQ{}
	err := r.db.QueryRowContext(ctx, query, studioID, req.Question, req.Answer, order).Scan(
		&f.ID,
		&f.StudioID,
		&f.Question,
		&f.Answer,
		&f.Order,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create faq: %w", err)
	}

	return f, nil
}

// GetByID retrieves a FAQ entry by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*FAQ, error) {
	query := `
		SELECT id, studio_id, question, answer, ord, created_at
		FROM studio_faqs
		WHERE id = $1
	`

	f := &FAQ{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.StudioID,
		&f.Question,
		&f.Answer,
		&f.Order,
		&f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get faq: %w", err)
	}

	return f, nil
}

// ListByStudio retrieves a studio's FAQ entries in display order
func (r *Repository) ListByStudio(ctx context.Context, studioID int64) ([]*FAQ, error) {
	query := `
		SELECT id, studio_id, question, answer, ord, created_at
		FROM studio_faqs
		WHERE studio_id = $1
		ORDER BY ord, id
	`

	rows, err := r.db.QueryContext(ctx, query, studioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []*FAQ
	for rows.Next() {
		f := &FAQ{}
		if err := rows.Scan(&f.ID, &f.StudioID, &f.Question, &f.Answer, &f.Order, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}

	return faqs, nil
}

// Update modifies a FAQ entry
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateFAQRequest) (*FAQ, error) {
	query := `
		UPDATE studio_faqs
		SET question = COALESCE($2, question),
		    answer = COALESCE($3, answer),
		    ord = COALESCE($4, ord)
		WHERE id = $1
		RETURNING id, studio_id, question, answer, ord, created_at
	`

	f := &FAQ{}
	err := r.db.QueryRowContext(ctx, query, id, req.Question, req.Answer, req.Order).Scan(
		&f.ID,
		&f.StudioID,
		&f.Question,
		&f.Answer,
		&f.Order,
		&f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update faq: %w", err)
	}

	return f, nil
}

// Delete removes a FAQ entry
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM studio_faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrFAQNotFound
	}

	return nil
}
