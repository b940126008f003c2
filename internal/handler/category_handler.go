package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kicho/internal/middleware"
	"github.com/hitoshi/kicho/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	// Create はユーザーのカテゴリを作成する。
	Create(ctx context.Context, userID, name string, categoryType model.TransactionType) (*model.Category, error)
	// List はユーザーのカテゴリ一覧を返す。
	List(ctx context.Context, userID string, categoryType model.TransactionType) ([]*model.Category, error)
	// Rename はカテゴリの名前を変更する。
	Rename(ctx context.Context, userID, categoryID, name string) (*model.Category, error)
	// Delete はカテゴリを削除する。既定カテゴリは削除できない。
	Delete(ctx context.Context, userID, categoryID string) error
}

// CategoryHandler はカテゴリ管理のHTTPハンドラー。
type CategoryHandler struct {
	service CategoryServiceInterface
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// createCategoryRequest はカテゴリ作成リクエストのボディ。
type createCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// updateCategoryRequest はカテゴリ更新リクエストのボディ。種別は変更できない。
type updateCategoryRequest struct {
	Name string `json:"name"`
}

// categoryResponse はカテゴリ情報のAPIレスポンス。
type categoryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create はカテゴリ作成を処理する。
// POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	category, err := h.service.Create(r.Context(), userID, req.Name, model.TransactionType(req.Type))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusCreated, toCategoryResponse(category))
}

// List はカテゴリ一覧を取得する。
// GET /api/categories?type=income|expense
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	categoryType := model.TransactionType(r.URL.Query().Get("type"))

	categories, err := h.service.List(r.Context(), userID, categoryType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]categoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = toCategoryResponse(category)
	}

	writeSuccessResponse(w, http.StatusOK, responses)
}

// Update はカテゴリ名の変更を処理する。
// PUT /api/categories/:id
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	category, err := h.service.Rename(r.Context(), userID, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toCategoryResponse(category))
}

// Delete はカテゴリ削除を処理する。
// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toCategoryResponse はmodel.CategoryからAPIレスポンスに変換する。
func toCategoryResponse(category *model.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		UserID:    category.UserID,
		Name:      category.Name,
		Type:      string(category.Type),
		IsDefault: category.IsDefault,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
