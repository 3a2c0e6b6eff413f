package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"library-management-service/internal/adapter/gin/middleware"
	domain "library-management-service/internal/domain/book"
	userdomain "library-management-service/internal/domain/user"
	"library-management-service/internal/usecase/book"
	apperrors "library-management-service/pkg/errors"
)

// MockBookUsecase is a mock implementation of the BookUsecase interface
type MockBookUsecase struct {
	mock.Mock
}

func (m *MockBookUsecase) Create(ctx context.Context, in book.CreateBookRequest) (*domain.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookUsecase) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookUsecase) ListOwn(ctx context.Context, actorID int64) ([]domain.Book, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookUsecase) Search(ctx context.Context, in book.SearchRequest) ([]domain.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookUsecase) MostBorrowed(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookUsecase) Update(ctx context.Context, in book.UpdateBookRequest) (*domain.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookUsecase) Delete(ctx context.Context, in book.DeleteBookRequest) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockBookUsecase) Borrow(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookUsecase) Return(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

// actAs injects an authenticated identity the way the auth middleware would
func actAs(u *userdomain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActingUser(c, u)
		c.Next()
	}
}

func setupBookRouter(t *testing.T, uc BookUsecase, actor *userdomain.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewBookHandler(uc, zaptest.NewLogger(t))

	r := gin.New()
	books := r.Group("/books")
	{
		books.GET("", h.List)
		books.GET("/search", h.Search)
		books.GET("/most-borrowed", h.MostBorrowed)

		authed := books.Group("")
		authed.Use(actAs(actor))
		{
			authed.GET("/user", h.ListOwn)
			authed.POST("", h.Create)
			authed.PUT("/:id", h.Update)
			authed.DELETE("/:id", h.Delete)
			authed.POST("/borrow/:id", h.Borrow)
			authed.POST("/return/:id", h.Return)
		}
	}
	return r
}

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var testActor = &userdomain.User{ID: 1, Email: "alice@example.com"}

func TestBookHandler_List(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("List", mock.Anything).Return([]domain.Book{{ID: 1, Title: "Dune"}}, nil)

	w := performRequest(r, http.MethodGet, "/books", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	books := body["books"].([]interface{})
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].(map[string]interface{})["title"])
}

func TestBookHandler_List_Empty(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("List", mock.Anything).Return([]domain.Book{}, nil)

	w := performRequest(r, http.MethodGet, "/books", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No books found.", decodeBody(t, w)["message"])
}

func TestBookHandler_ListOwn(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("ListOwn", mock.Anything, int64(1)).Return([]domain.Book{{ID: 1, UserID: 1}}, nil)

	w := performRequest(r, http.MethodGet, "/books/user", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Len(t, body["userBooks"], 1)
}

func TestBookHandler_Search(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Search", mock.Anything, book.SearchRequest{Title: "dune"}).
		Return([]domain.Book{{ID: 1, Title: "Dune"}}, nil)

	w := performRequest(r, http.MethodGet, "/books/search?title=dune", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["books"], 1)
}

func TestBookHandler_Search_NoResults(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Search", mock.Anything, mock.Anything).Return([]domain.Book{}, nil)

	w := performRequest(r, http.MethodGet, "/books/search?title=ghost", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "No books found.", body["message"])
	assert.Empty(t, body["books"])
}

func TestBookHandler_MostBorrowed(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("MostBorrowed", mock.Anything).Return([]domain.Book{{ID: 1, BorrowCount: 9}}, nil)

	w := performRequest(r, http.MethodGet, "/books/most-borrowed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["mostBorrowedBooks"], 1)
}

func TestBookHandler_Create(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Create", mock.Anything, mock.MatchedBy(func(in book.CreateBookRequest) bool {
		return in.ActorID == 1 && in.Title == "Dune"
	})).Return(&domain.Book{ID: 7, UserID: 1, Title: "Dune"}, nil)

	w := performRequest(r, http.MethodPost, "/books", gin.H{
		"title": "Dune", "author": "Herbert", "category": "Science Fiction",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Book created successfully", body["success"])
	assert.Equal(t, float64(7), body["book"].(map[string]interface{})["id"])
}

func TestBookHandler_Create_ValidationError(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Create", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("", "All fields are required"))

	w := performRequest(r, http.MethodPost, "/books", gin.H{"title": "Dune"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decodeBody(t, w)["error"])
}

func TestBookHandler_Update(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Update", mock.Anything, mock.MatchedBy(func(in book.UpdateBookRequest) bool {
		return in.ID == 7 && in.ActorID == 1 && in.Title != nil && *in.Title == "New"
	})).Return(&domain.Book{ID: 7}, nil)

	w := performRequest(r, http.MethodPut, "/books/7", gin.H{"title": "New"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book updated successfully", decodeBody(t, w)["success"])
}

func TestBookHandler_Update_Forbidden(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Update", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewForbiddenError("You do not own this book"))

	w := performRequest(r, http.MethodPut, "/books/7", gin.H{"title": "New"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not own this book", decodeBody(t, w)["error"])
}

func TestBookHandler_Update_InvalidID(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	w := performRequest(r, http.MethodPut, "/books/abc", gin.H{"title": "New"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id.", decodeBody(t, w)["error"])
	uc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookHandler_Delete(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Delete", mock.Anything, book.DeleteBookRequest{ID: 7, ActorID: 1}).Return(nil)

	w := performRequest(r, http.MethodDelete, "/books/7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book deleted successfully", decodeBody(t, w)["success"])
}

func TestBookHandler_Delete_NotFound(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Delete", mock.Anything, mock.Anything).
		Return(apperrors.NewNotFoundError("book", "Book not found"))

	w := performRequest(r, http.MethodDelete, "/books/99", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Book not found", decodeBody(t, w)["error"])
}

func TestBookHandler_Borrow(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Borrow", mock.Anything, int64(7)).Return(&domain.Book{
		ID: 7, TotalCopies: 3, AvailableCopies: 2, BorrowCount: 1,
	}, nil)

	w := performRequest(r, http.MethodPost, "/books/borrow/7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	b := decodeBody(t, w)["book"].(map[string]interface{})
	assert.Equal(t, float64(2), b["availableCopies"])
	assert.Equal(t, float64(1), b["borrowCount"])
}

func TestBookHandler_Borrow_NoCopies(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Borrow", mock.Anything, int64(7)).
		Return(nil, apperrors.NewConflictError("No available copies to borrow"))

	w := performRequest(r, http.MethodPost, "/books/borrow/7", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No available copies to borrow", decodeBody(t, w)["error"])
}

func TestBookHandler_Return(t *testing.T) {
	uc := new(MockBookUsecase)
	r := setupBookRouter(t, uc, testActor)

	uc.On("Return", mock.Anything, int64(7)).Return(&domain.Book{
		ID: 7, TotalCopies: 3, AvailableCopies: 3, BorrowCount: 1,
	}, nil)

	w := performRequest(r, http.MethodPost, "/books/return/7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	b := decodeBody(t, w)["book"].(map[string]interface{})
	assert.Equal(t, float64(3), b["availableCopies"])
}
