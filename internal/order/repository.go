package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gigmarket-be/internal/logger"
	"gigmarket-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	// Insert writes the order unless one with the same transaction id already
	// exists. The unique index on transaction_id makes this a hard guarantee,
	// not a read-then-write race. Returns false when the row was a duplicate.
	Insert(ctx context.Context, o *Order) (bool, error)

	GetByTransactionID(ctx context.Context, transactionID string) (*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uint, status Status) error
	SetCancelRequested(ctx context.Context, id, userID uint) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, external_id,
	user_id, user_name, user_email, user_phone,
	gig_id, gig_title, tier, price,
	payment_method, transaction_id, payment_status,
	order_status, cancel_requested,
	created_at, updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ExternalID,
		&o.UserID, &o.UserName, &o.UserEmail, &o.UserPhone,
		&o.GigID, &o.GigTitle, &o.Tier, &o.Price,
		&o.PaymentMethod, &o.TransactionID, &o.PaymentStatus,
		&o.Status, &o.CancelRequested,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Insert(ctx context.Context, o *Order) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Insert"),
		zap.String("transaction_id", o.TransactionID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			external_id,
			user_id, user_name, user_email, user_phone,
			gig_id, gig_title, tier, price,
			payment_method, transaction_id, payment_status,
			order_status, cancel_requested
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (transaction_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`,
		o.ExternalID,
		o.UserID, o.UserName, o.UserEmail, o.UserPhone,
		o.GigID, o.GigTitle, o.Tier, o.Price,
		o.PaymentMethod, o.TransactionID, o.PaymentStatus,
		o.Status, o.CancelRequested,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// Duplicate transaction -> idempotent no-op
		log.Info("order insert skipped, transaction already recorded")
		return false, nil
	}
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return false, err
	}

	log.Info("order inserted", zap.Uint("order_id", o.ID))
	return true, nil
}

func (r *repository) GetByTransactionID(ctx context.Context, transactionID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE transaction_id = $1`, transactionID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, page int32,
) ([]*Order, error) {

	userID, _ := utils.GetUserIDFromContext(ctx)
	isAdmin := utils.IsAdmin(ctx)

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	log := logger.FromCtx(ctx).With(
		zap.String("method", "List"),
		zap.Bool("is_admin", isAdmin),
		zap.Int32("limit", limit),
		zap.Int32("page", page),
	)

	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`

	args := []any{}
	argIndex := 1

	if !isAdmin {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, userID)
		argIndex++
	}

	if filter != nil {
		if filter.Search != nil && *filter.Search != "" {
			query += fmt.Sprintf(
				" AND (gig_title ILIKE $%d OR user_email ILIKE $%d OR transaction_id ILIKE $%d)",
				argIndex, argIndex, argIndex,
			)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}

		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND order_status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	orderBy := "created_at DESC"
	if sort != nil {
		dir := strings.ToUpper(sort.Direction)
		if dir != "ASC" && dir != "DESC" {
			dir = "DESC"
		}
		switch sort.Field {
		case SortFieldPrice:
			orderBy = "price " + dir
		case SortFieldCreatedAt:
			orderBy = "created_at " + dir
		}
	}

	query += " ORDER BY " + orderBy
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Info("orders listed", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET order_status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) SetCancelRequested(ctx context.Context, id, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET cancel_requested = TRUE, updated_at = NOW()
		WHERE id = $1
		  AND user_id = $2
		  AND order_status IN ('pending', 'in progress')
	`, id, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotCancellable
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
