package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/kicho/internal/model"
)

// --- モック定義 ---

type mockCategoryService struct {
	createFn func(ctx context.Context, userID, name string, categoryType model.TransactionType) (*model.Category, error)
	listFn   func(ctx context.Context, userID string, categoryType model.TransactionType) ([]*model.Category, error)
	renameFn func(ctx context.Context, userID, categoryID, name string) (*model.Category, error)
	deleteFn func(ctx context.Context, userID, categoryID string) error
}

func (m *mockCategoryService) Create(ctx context.Context, userID, name string, categoryType model.TransactionType) (*model.Category, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, name, categoryType)
	}
	return nil, nil
}

func (m *mockCategoryService) List(ctx context.Context, userID string, categoryType model.TransactionType) ([]*model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, categoryType)
	}
	return nil, nil
}

func (m *mockCategoryService) Rename(ctx context.Context, userID, categoryID, name string) (*model.Category, error) {
	if m.renameFn != nil {
		return m.renameFn(ctx, userID, categoryID, name)
	}
	return nil, nil
}

func (m *mockCategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, categoryID)
	}
	return nil
}

// --- テストヘルパー ---

// testCategory はテスト用のユーザー作成カテゴリを返す。
func testCategory() *model.Category {
	return &model.Category{
		ID:        "cat-1",
		UserID:    "user-1",
		Name:      "外注費",
		Type:      model.TransactionTypeExpense,
		IsDefault: false,
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- POST /api/categories テスト ---

func TestCategoryHandler_Create_Success(t *testing.T) {
	svc := &mockCategoryService{
		createFn: func(ctx context.Context, userID, name string, categoryType model.TransactionType) (*model.Category, error) {
			if name != "外注費" {
				t.Errorf("name = %q, want %q", name, "外注費")
			}
			if categoryType != model.TransactionTypeExpense {
				t.Errorf("categoryType = %q, want %q", categoryType, model.TransactionTypeExpense)
			}
			return testCategory(), nil
		},
	}
	h := NewCategoryHandler(svc)

	body := `{"name": "外注費", "type": "expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}

	result := parseSuccessResponse(t, w)
	data := dataObject(t, result)
	if data["name"] != "外注費" {
		t.Errorf("data.name = %v, want %q", data["name"], "外注費")
	}
	if data["is_default"] != false {
		t.Errorf("data.is_default = %v, want false", data["is_default"])
	}
}

func TestCategoryHandler_Create_DuplicateName_ReturnsBadRequest(t *testing.T) {
	svc := &mockCategoryService{
		createFn: func(ctx context.Context, userID, name string, categoryType model.TransactionType) (*model.Category, error) {
			return nil, model.NewDuplicateCategoryError(name)
		},
	}
	h := NewCategoryHandler(svc)

	body := `{"name": "交通費", "type": "expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeDuplicateCategory {
		t.Errorf("code = %v, want %q", errResp["code"], model.ErrCodeDuplicateCategory)
	}
}

func TestCategoryHandler_Create_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	h := NewCategoryHandler(&mockCategoryService{})

	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- GET /api/categories テスト ---

func TestCategoryHandler_List_PassesTypeFilter(t *testing.T) {
	var gotType model.TransactionType
	svc := &mockCategoryService{
		listFn: func(ctx context.Context, userID string, categoryType model.TransactionType) ([]*model.Category, error) {
			gotType = categoryType
			return []*model.Category{testCategory()}, nil
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/categories?type=expense", nil)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotType != model.TransactionTypeExpense {
		t.Errorf("categoryType = %q, want %q", gotType, model.TransactionTypeExpense)
	}

	result := parseSuccessResponse(t, w)
	if items := dataArray(t, result); len(items) != 1 {
		t.Errorf("data length = %d, want 1", len(items))
	}
}

func TestCategoryHandler_List_Empty_ReturnsEmptyArray(t *testing.T) {
	svc := &mockCategoryService{
		listFn: func(ctx context.Context, userID string, categoryType model.TransactionType) ([]*model.Category, error) {
			return nil, nil
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	result := parseSuccessResponse(t, w)
	if items := dataArray(t, result); len(items) != 0 {
		t.Errorf("data length = %d, want 0", len(items))
	}
}

// --- PUT /api/categories/{id} テスト ---

func TestCategoryHandler_Update_Success(t *testing.T) {
	svc := &mockCategoryService{
		renameFn: func(ctx context.Context, userID, categoryID, name string) (*model.Category, error) {
			if categoryID != "cat-1" {
				t.Errorf("categoryID = %q, want %q", categoryID, "cat-1")
			}
			renamed := testCategory()
			renamed.Name = name
			return renamed, nil
		},
	}
	h := NewCategoryHandler(svc)

	body := `{"name": "業務委託費"}`
	req := httptest.NewRequest(http.MethodPut, "/api/categories/cat-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "cat-1")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	result := parseSuccessResponse(t, w)
	data := dataObject(t, result)
	if data["name"] != "業務委託費" {
		t.Errorf("data.name = %v, want %q", data["name"], "業務委託費")
	}
}

func TestCategoryHandler_Update_NotFound_ReturnsNotFound(t *testing.T) {
	svc := &mockCategoryService{
		renameFn: func(ctx context.Context, userID, categoryID, name string) (*model.Category, error) {
			return nil, model.NewNotFoundError()
		},
	}
	h := NewCategoryHandler(svc)

	body := `{"name": "業務委託費"}`
	req := httptest.NewRequest(http.MethodPut, "/api/categories/unknown", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "unknown")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// --- DELETE /api/categories/{id} テスト ---

func TestCategoryHandler_Delete_Success_ReturnsNoContent(t *testing.T) {
	var deletedID string
	svc := &mockCategoryService{
		deleteFn: func(ctx context.Context, userID, categoryID string) error {
			deletedID = categoryID
			return nil
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/cat-1", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "cat-1")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deletedID != "cat-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "cat-1")
	}
}

func TestCategoryHandler_Delete_DefaultCategory_ReturnsBadRequest(t *testing.T) {
	svc := &mockCategoryService{
		deleteFn: func(ctx context.Context, userID, categoryID string) error {
			return model.NewDefaultCategoryError()
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/default-cat", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "default-cat")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeDefaultCategory {
		t.Errorf("code = %v, want %q", errResp["code"], model.ErrCodeDefaultCategory)
	}
}

func TestCategoryHandler_Delete_NotFound_ReturnsNotFound(t *testing.T) {
	svc := &mockCategoryService{
		deleteFn: func(ctx context.Context, userID, categoryID string) error {
			return model.NewNotFoundError()
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/unknown", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "unknown")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}
