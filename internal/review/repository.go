package review

import (
	"context"
	"database/sql"

	"gigmarket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListByGig(ctx context.Context, gigID uint, onlyApproved bool) ([]*Review, error)
	UpdateStatus(ctx context.Context, id uint, status Status) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.Uint("gig_id", rv.GigID),
		zap.Uint("user_id", rv.UserID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (gig_id, user_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rv.GigID, rv.UserID, rv.Rating, rv.Comment, rv.Status).Scan(&rv.ID, &rv.CreatedAt)

	if err != nil {
		log.Error("failed to insert review", zap.Error(err))
		return err
	}

	log.Info("review created", zap.Uint("review_id", rv.ID))
	return nil
}

func (r *repository) ListByGig(ctx context.Context, gigID uint, onlyApproved bool) ([]*Review, error) {
	query := `
		SELECT id, gig_id, user_id, rating, comment, status, created_at
		FROM reviews
		WHERE gig_id = $1
	`
	if onlyApproved {
		query += ` AND status = 'approved'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, gigID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.GigID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.Status, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
