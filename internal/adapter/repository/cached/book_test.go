package cached

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "library-management-service/internal/domain/book"
)

// mockDBRepo is a mock implementation of the book Repository interface
type mockDBRepo struct {
	mock.Mock
}

func (m *mockDBRepo) Create(ctx context.Context, b *domain.Book) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDBRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockDBRepo) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *mockDBRepo) ListByOwner(ctx context.Context, userID int64) ([]domain.Book, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *mockDBRepo) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Book, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *mockDBRepo) MostBorrowed(ctx context.Context, limit int) ([]domain.Book, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *mockDBRepo) Update(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockDBRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDBRepo) Borrow(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockDBRepo) Return(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

// fakeCache is an in-memory BookCache for exercising the decorator
type fakeCache struct {
	store map[int64]*domain.Book
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[int64]*domain.Book)}
}

func (c *fakeCache) Get(_ context.Context, id int64) (*domain.Book, error) {
	return c.store[id], nil
}

func (c *fakeCache) Set(_ context.Context, b *domain.Book) error {
	c.store[b.ID] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id int64) error {
	delete(c.store, id)
	return nil
}

func TestCachedRepo_GetByID_CacheMissPopulates(t *testing.T) {
	db := new(mockDBRepo)
	fc := newFakeCache()
	repo := NewCachedBookRepository(db, fc, zaptest.NewLogger(t))
	ctx := context.Background()

	b := &domain.Book{ID: 7, Title: "Dune"}
	db.On("GetByID", ctx, int64(7)).Return(b, nil).Once()

	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	// Second read is served from the cache, not the DB
	got, err = repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	db.AssertExpectations(t)
}

func TestCachedRepo_GetByID_DBError(t *testing.T) {
	db := new(mockDBRepo)
	repo := NewCachedBookRepository(db, newFakeCache(), zaptest.NewLogger(t))
	ctx := context.Background()

	db.On("GetByID", ctx, int64(7)).Return(nil, assert.AnError)

	_, err := repo.GetByID(ctx, 7)
	assert.Error(t, err)
}

func TestCachedRepo_Update_InvalidatesCache(t *testing.T) {
	db := new(mockDBRepo)
	fc := newFakeCache()
	repo := NewCachedBookRepository(db, fc, zaptest.NewLogger(t))
	ctx := context.Background()

	fc.store[7] = &domain.Book{ID: 7, Title: "Stale"}

	b := &domain.Book{ID: 7, Title: "Fresh"}
	db.On("Update", ctx, b).Return(nil)

	require.NoError(t, repo.Update(ctx, b))
	assert.Nil(t, fc.store[7])
}

func TestCachedRepo_Delete_InvalidatesCache(t *testing.T) {
	db := new(mockDBRepo)
	fc := newFakeCache()
	repo := NewCachedBookRepository(db, fc, zaptest.NewLogger(t))
	ctx := context.Background()

	fc.store[7] = &domain.Book{ID: 7}
	db.On("Delete", ctx, int64(7)).Return(nil)

	require.NoError(t, repo.Delete(ctx, 7))
	assert.Nil(t, fc.store[7])
}

func TestCachedRepo_Borrow_RefreshesCache(t *testing.T) {
	db := new(mockDBRepo)
	fc := newFakeCache()
	repo := NewCachedBookRepository(db, fc, zaptest.NewLogger(t))
	ctx := context.Background()

	fc.store[7] = &domain.Book{ID: 7, AvailableCopies: 3}
	db.On("Borrow", ctx, int64(7)).Return(&domain.Book{ID: 7, AvailableCopies: 2, BorrowCount: 1}, nil)

	b, err := repo.Borrow(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.AvailableCopies)
	assert.Equal(t, int64(2), fc.store[7].AvailableCopies)
}

func TestCachedRepo_Return_RefreshesCache(t *testing.T) {
	db := new(mockDBRepo)
	fc := newFakeCache()
	repo := NewCachedBookRepository(db, fc, zaptest.NewLogger(t))
	ctx := context.Background()

	db.On("Return", ctx, int64(7)).Return(&domain.Book{ID: 7, AvailableCopies: 3}, nil)

	b, err := repo.Return(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.AvailableCopies)
	assert.Equal(t, int64(3), fc.store[7].AvailableCopies)
}

func TestCachedRepo_NilCacheFallsThrough(t *testing.T) {
	db := new(mockDBRepo)
	repo := NewCachedBookRepository(db, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	db.On("GetByID", ctx, int64(7)).Return(&domain.Book{ID: 7}, nil)

	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}
