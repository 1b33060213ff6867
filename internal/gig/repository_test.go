package gig

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gigRows := sqlmock.NewRows([]string{
			"id", "title", "description", "category", "active", "created_at", "updated_at",
		}).AddRow(1, "Logo Design", "A logo", "design", true, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT id, title, description, category, active, created_at, updated_at FROM gigs WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(gigRows)

		pkgRows := sqlmock.NewRows([]string{
			"id", "gig_id", "name", "description", "delivery_days", "revisions", "regular_price", "sale_price",
		}).
			AddRow(10, 1, "basic", "one concept", 3, 1, 80.0, 50.0).
			AddRow(11, 1, "premium", "three concepts", 7, 5, 200.0, 150.0)

		mock.ExpectQuery(`SELECT id, gig_id, name, description, delivery_days, revisions, regular_price, sale_price FROM gig_packages WHERE gig_id = \$1 ORDER BY sale_price ASC`).
			WithArgs(uint(1)).
			WillReturnRows(pkgRows)

		g, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Logo Design", g.Title)
		assert.Len(t, g.Packages, 2)
		assert.Equal(t, 50.0, g.FindPackage("basic").SalePrice)
		assert.Nil(t, g.FindPackage("standard"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM gigs WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrGigNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO gigs`).
			WithArgs("Logo Design", "A logo", "design", true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(1, time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO gig_packages`).
			WithArgs(uint(1), "basic", "one concept", 3, 1, 80.0, 50.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		mock.ExpectCommit()

		g := &Gig{
			Title:       "Logo Design",
			Description: "A logo",
			Category:    "design",
			Active:      true,
			Packages: []Package{
				{Name: "basic", Description: "one concept", DeliveryDays: 3, Revisions: 1, RegularPrice: 80, SalePrice: 50},
			},
		}

		require.NoError(t, repo.Create(ctx, g))
		assert.Equal(t, uint(1), g.ID)
		assert.Equal(t, uint(10), g.Packages[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnPackageError", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO gigs`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(2, time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO gig_packages`).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		g := &Gig{
			Title:    "Broken",
			Packages: []Package{{Name: "basic", SalePrice: 10}},
		}

		assert.Error(t, repo.Create(ctx, g))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM gigs WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 1))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM gigs WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 99), ErrGigNotFound)
	})
}
