package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "library-management-service/internal/domain/book"
)

func setupTestCache(t *testing.T) (BookCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBookCache(client, time.Minute, zaptest.NewLogger(t)), mr
}

func TestBookCache_SetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	b := &domain.Book{
		ID: 7, UserID: 1, Title: "Dune", Author: "Herbert", Category: "Science Fiction",
		TotalCopies: 3, AvailableCopies: 2, BorrowCount: 1,
	}

	require.NoError(t, c.Set(ctx, b))

	got, err := c.Get(ctx, 7)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, b.AvailableCopies, got.AvailableCopies)
	assert.Equal(t, b.BorrowCount, got.BorrowCount)
}

func TestBookCache_Get_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	got, err := c.Get(context.Background(), 999)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookCache_Delete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.Book{ID: 7, Title: "Dune"}))
	require.NoError(t, c.Delete(ctx, 7))

	got, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookCache_Expiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.Book{ID: 7, Title: "Dune"}))

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookCache_Set_NilBook(t *testing.T) {
	c, _ := setupTestCache(t)

	assert.Error(t, c.Set(context.Background(), nil))
}
