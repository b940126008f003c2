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

// BalanceItemServiceInterface は貸借項目ハンドラーが必要とするサービスインターフェース。
type BalanceItemServiceInterface interface {
	// Create は貸借項目を作成する。
	Create(ctx context.Context, userID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error)
	// List はユーザーの貸借項目一覧を返す。
	List(ctx context.Context, userID string) ([]*model.BalanceItem, error)
	// Get は貸借項目を1件取得する。
	Get(ctx context.Context, userID, itemID string) (*model.BalanceItem, error)
	// Update は貸借項目を更新する。
	Update(ctx context.Context, userID, itemID string, kind model.BalanceItemKind, name string, amountCents int64, note string) (*model.BalanceItem, error)
	// Delete は貸借項目を削除する。
	Delete(ctx context.Context, userID, itemID string) error
}

// BalanceItemHandler は貸借対照表項目のHTTPハンドラー。
type BalanceItemHandler struct {
	service BalanceItemServiceInterface
}

// NewBalanceItemHandler はBalanceItemHandlerを生成する。
func NewBalanceItemHandler(service BalanceItemServiceInterface) *BalanceItemHandler {
	return &BalanceItemHandler{
		service: service,
	}
}

// balanceItemRequest は貸借項目の作成・更新リクエストのボディ。
type balanceItemRequest struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
}

// balanceItemResponse は貸借項目のAPIレスポンス。
type balanceItemResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create は貸借項目作成を処理する。
// POST /api/balance-items
func (h *BalanceItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req balanceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	item, err := h.service.Create(r.Context(), userID, model.BalanceItemKind(req.Kind), req.Name, req.AmountCents, req.Note)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusCreated, toBalanceItemResponse(item))
}

// List は貸借項目一覧を取得する。
// GET /api/balance-items
func (h *BalanceItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]balanceItemResponse, len(items))
	for i, item := range items {
		responses[i] = toBalanceItemResponse(item)
	}

	writeSuccessResponse(w, http.StatusOK, responses)
}

// Get は貸借項目詳細を取得する。
// GET /api/balance-items/:id
func (h *BalanceItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	item, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toBalanceItemResponse(item))
}

// Update は貸借項目更新を処理する。
// PUT /api/balance-items/:id
func (h *BalanceItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req balanceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	item, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), model.BalanceItemKind(req.Kind), req.Name, req.AmountCents, req.Note)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toBalanceItemResponse(item))
}

// Delete は貸借項目削除を処理する。
// DELETE /api/balance-items/:id
func (h *BalanceItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// toBalanceItemResponse はmodel.BalanceItemからAPIレスポンスに変換する。
func toBalanceItemResponse(item *model.BalanceItem) balanceItemResponse {
	return balanceItemResponse{
		ID:          item.ID,
		UserID:      item.UserID,
		Kind:        string(item.Kind),
		Name:        item.Name,
		AmountCents: item.AmountCents,
		Note:        item.Note,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
