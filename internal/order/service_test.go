package order

import (
	"context"
	"errors"
	"testing"

	"gigmarket-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, o *Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetByTransactionID(ctx context.Context, transactionID string) (*Order, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error) {
	args := m.Called(ctx, filter, sort, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepository) SetCancelRequested(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func confirmation() ConfirmationInput {
	return ConfirmationInput{
		UserID:        7,
		UserName:      "Alice",
		UserEmail:     "alice@example.com",
		GigID:         1,
		GigTitle:      "Logo Design",
		Tier:          "basic",
		Price:         50,
		Method:        MethodStripe,
		TransactionID: "pi_123",
	}
}

// --- Tests ---

func TestService_CreateFromConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Insert", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.TransactionID == "pi_123" &&
				o.PaymentStatus == PaymentPaid &&
				o.Status == StatusPending &&
				o.Price == 50.0 &&
				o.GigTitle == "Logo Design"
		})).Return(true, nil)

		o, created, err := svc.CreateFromConfirmation(ctx, confirmation())
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, PaymentPaid, o.PaymentStatus)
		assert.Equal(t, StatusPending, o.Status)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateTransactionIsIdempotent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		existing := &Order{ID: 42, TransactionID: "pi_123", PaymentStatus: PaymentPaid}
		repo.On("Insert", ctx, mock.Anything).Return(false, nil)
		repo.On("GetByTransactionID", ctx, "pi_123").Return(existing, nil)

		o, created, err := svc.CreateFromConfirmation(ctx, confirmation())
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, uint(42), o.ID)

		// the insert was attempted exactly once, nothing else written
		repo.AssertNumberOfCalls(t, "Insert", 1)
	})

	t.Run("MissingTransactionID", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		in := confirmation()
		in.TransactionID = ""

		_, _, err := svc.CreateFromConfirmation(ctx, in)
		assert.ErrorIs(t, err, ErrMissingTransactionID)
		repo.AssertNotCalled(t, "Insert")
	})

	t.Run("InsertError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Insert", ctx, mock.Anything).Return(false, errors.New("db down"))

		_, _, err := svc.CreateFromConfirmation(ctx, confirmation())
		assert.Error(t, err)
	})
}

func TestService_GetDetail(t *testing.T) {
	t.Run("OwnerCanRead", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := utils.SetUserContext(context.Background(), 7, "alice@example.com", utils.RoleUser)

		repo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, UserID: 7}, nil)

		o, err := svc.GetDetail(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), o.ID)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := utils.SetUserContext(context.Background(), 8, "bob@example.com", utils.RoleUser)

		repo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, UserID: 7}, nil)

		_, err := svc.GetDetail(ctx, 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("AdminCanReadAny", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := utils.SetUserContext(context.Background(), 99, "admin@example.com", utils.RoleAdmin)

		repo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, UserID: 7}, nil)

		_, err := svc.GetDetail(ctx, 1)
		assert.NoError(t, err)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("UpdateStatus", ctx, uint(1), StatusCompleted).Return(nil)

		assert.NoError(t, svc.UpdateStatus(ctx, 1, StatusCompleted))
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		err := svc.UpdateStatus(ctx, 1, Status("shipped"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
		repo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("RejectsResettingToPending", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		err := svc.UpdateStatus(ctx, 1, StatusPending)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestService_RequestCancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := utils.SetUserContext(context.Background(), 7, "alice@example.com", utils.RoleUser)

		repo.On("SetCancelRequested", ctx, uint(1), uint(7)).Return(nil)

		assert.NoError(t, svc.RequestCancel(ctx, 1))
	})

	t.Run("Anonymous", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		err := svc.RequestCancel(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
		repo.AssertNotCalled(t, "SetCancelRequested")
	})
}
