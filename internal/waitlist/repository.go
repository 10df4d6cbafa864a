package waitlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const applicationColumns = "id, studio_id, user_id, answers, status, created_at, updated_at"

// Repository handles waitlist persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new waitlist repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanApplication(row interface{ Scan(...any) error }) (*Application, error) {
	app := &Application{}
	var answersJSON []byte
	err := row.Scan(
		&app.ID,
		&app.StudioID,
		&app.UserID,
		&answersJSON,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersJSON, &app.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return app, nil
}

// ReplaceQuestions deletes all of a studio's questions and recreates
// them from the supplied ordered list, in one transaction
func (r *Repository) ReplaceQuestions(ctx context.Context, studioID int64, inputs []QuestionInput) ([]*Question, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM waitlist_questions WHERE studio_id = $1`, studioID); err != nil {
		return nil, fmt.Errorf("failed to clear questions: %w", err)
	}

	questions := make([]*Question, 0, len(inputs))
	for i, input := range inputs {
		order := i
		if input.Order != nil {
			order = *input.Order
		}

		q := &Question{}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO waitlist_questions (studio_id, question, ord)
			VALUES ($1, $2, $3)
			RETURNING id, studio_id, question, ord, created_at
		`, studioID, input.Question, order).Scan(
			&q.ID,
			&q.StudioID,
			&q.Question,
			&q.Order,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit question replacement: %w", err)
	}

	return questions, nil
}

// ListQuestions retrieves a studio's questions in display order
func (r *Repository) ListQuestions(ctx context.Context, studioID int64) ([]*Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, studio_id, question, ord, created_at
		FROM waitlist_questions
		WHERE studio_id = $1
		ORDER BY ord, id
	`, studioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*Question
	for rows.Next() {
		q := &Question{}
		if err := rows.Scan(&q.ID, &q.StudioID, &q.Question, &q.Order, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// GetApplicationByID retrieves an application by its ID
func (r *Repository) GetApplicationByID(ctx context.Context, id int64) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM waitlist_responses WHERE id = $1`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// GetApplicationByStudioUser retrieves the application for a (studio, user) pair
func (r *Repository) GetApplicationByStudioUser(ctx context.Context, studioID, userID int64) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM waitlist_responses WHERE studio_id = $1 AND user_id = $2`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, studioID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// CreateApplication inserts a new pending application
func (r *Repository) CreateApplication(ctx context.Context, studioID, userID int64, answers []Answer) (*Application, error) {
	answersJSON, err := marshalAnswers(answers)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO waitlist_responses (studio_id, user_id, answers)
		VALUES ($1, $2, $3)
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, studioID, userID, answersJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// Resubmit overwrites a rejected application's answers and resets it
// to PENDING, reusing the existing row
func (r *Repository) Resubmit(ctx context.Context, id int64, answers []Answer) (*Application, error) {
	answersJSON, err := marshalAnswers(answers)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE waitlist_responses
		SET status = 'PENDING', answers = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id, answersJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to resubmit application: %w", err)
	}
	return app, nil
}

// UpdateApplicationStatus sets the application status
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	query := `
		UPDATE waitlist_responses
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return app, nil
}

// Approve marks the application APPROVED and creates the membership
// in one transaction, matching the other admission pathways
func (r *Repository) Approve(ctx context.Context, app *Application) (*Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	approved, err := scanApplication(tx.QueryRowContext(ctx, `
		UPDATE waitlist_responses
		SET status = 'APPROVED', updated_at = now()
		WHERE id = $1
		RETURNING `+applicationColumns, app.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to approve application: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO studio_members (studio_id, user_id, role)
		VALUES ($1, $2, 'MEMBER')
	`, app.StudioID, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	return approved, nil
}

// ListApplications retrieves a studio's applications in review order
// (oldest first), optionally filtered by status
func (r *Repository) ListApplications(ctx context.Context, studioID int64, status *Status, limit, offset int) ([]*Application, int, error) {
	countQuery := `SELECT COUNT(*) FROM waitlist_responses WHERE studio_id = $1 AND ($2::text IS NULL OR status = $2)`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, studioID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `
		SELECT ` + applicationColumns + `
		FROM waitlist_responses
		WHERE studio_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, studioID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, total, nil
}

func marshalAnswers(answers []Answer) ([]byte, error) {
	if answers == nil {
		answers = []Answer{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	return data, nil
}
