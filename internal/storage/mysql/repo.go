package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"property_reviews/internal/domain"
)

// Repo is an approval store on a single MySQL table.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the approvals table if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createApprovalsSQL); err != nil {
		return fmt.Errorf("create review_approvals: %w", err)
	}
	return nil
}

func (r *Repo) Load(ctx context.Context) (domain.ApprovalSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, listApprovalsSQL)
	if err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	defer rows.Close()

	out := domain.ApprovalSnapshot{ApprovedReviewIDs: []string{}}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return domain.ApprovalSnapshot{}, err
		}
		out.ApprovedReviewIDs = append(out.ApprovedReviewIDs, id)
	}
	if err := rows.Err(); err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	return out, nil
}

func (r *Repo) Approve(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	if _, err := r.db.ExecContext(ctx, insertApprovalSQL, id); err != nil {
		return domain.ApprovalSnapshot{}, fmt.Errorf("approve %s: %w", id, err)
	}
	return r.Load(ctx)
}

func (r *Repo) Unapprove(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	if _, err := r.db.ExecContext(ctx, deleteApprovalSQL, id); err != nil {
		return domain.ApprovalSnapshot{}, fmt.Errorf("unapprove %s: %w", id, err)
	}
	return r.Load(ctx)
}

func (r *Repo) Kind() string { return "mysql" }
