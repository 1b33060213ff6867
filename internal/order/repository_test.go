package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Insert(t *testing.T) {
	ctx := context.Background()

	newOrder := func() *Order {
		return &Order{
			ExternalID:    uuid.New(),
			UserID:        7,
			UserName:      "Alice",
			UserEmail:     "alice@example.com",
			GigID:         1,
			GigTitle:      "Logo Design",
			Tier:          "basic",
			Price:         50,
			PaymentMethod: MethodStripe,
			TransactionID: "pi_123",
			PaymentStatus: PaymentPaid,
			Status:        StatusPending,
		}
	}

	t.Run("Success", func(t *testing.T) {
		db, mk, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mk.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(1, now, now))

		repo := NewRepository(db)
		o := newOrder()

		inserted, err := repo.Insert(ctx, o)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.Equal(t, uint(1), o.ID)
		assert.NoError(t, mk.ExpectationsWereMet())
	})

	t.Run("DuplicateTransactionReturnsFalse", func(t *testing.T) {
		db, mk, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		// ON CONFLICT DO NOTHING yields zero rows for the RETURNING clause
		mk.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

		repo := NewRepository(db)

		inserted, err := repo.Insert(ctx, newOrder())
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mk.ExpectationsWereMet())
	})
}

func TestRepository_GetByTransactionID(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		db, mk, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mk.ExpectQuery("SELECT (.+) FROM orders WHERE transaction_id").
			WithArgs("pi_missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewRepository(db)

		_, err = repo.GetByTransactionID(ctx, "pi_missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_SetCancelRequested(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mk, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mk.ExpectExec("UPDATE orders").
			WithArgs(1, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRepository(db)
		assert.NoError(t, repo.SetCancelRequested(ctx, 1, 7))
	})

	t.Run("AlreadyCompleted", func(t *testing.T) {
		db, mk, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		// status guard in the WHERE clause matches no rows
		mk.ExpectExec("UPDATE orders").
			WithArgs(1, 7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRepository(db)
		assert.ErrorIs(t, repo.SetCancelRequested(ctx, 1, 7), ErrNotCancellable)
	})
}
