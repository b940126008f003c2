package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kicho/internal/middleware"
	"github.com/hitoshi/kicho/internal/model"
	"github.com/hitoshi/kicho/internal/repository"
)

// transactionDateLayout は取引日のリクエスト・レスポンス形式。
const transactionDateLayout = "2006-01-02"

// TransactionServiceInterface は取引ハンドラーが必要とするサービスインターフェース。
type TransactionServiceInterface interface {
	// CreateIncome は収入取引を作成する。
	CreateIncome(ctx context.Context, userID string, amountCents int64, description, customerName, invoiceNumber, categoryID string, occurredAt time.Time) (*model.Transaction, error)
	// CreateExpense は支出取引を作成する。
	CreateExpense(ctx context.Context, userID string, amountCents int64, description, categoryID string, occurredAt time.Time) (*model.Transaction, error)
	// List はユーザーの取引一覧を絞り込み付きで返す。
	List(ctx context.Context, userID string, filter repository.TransactionFilter) ([]*model.Transaction, error)
	// Get は取引を1件取得する。
	Get(ctx context.Context, userID, transactionID string) (*model.Transaction, error)
	// Update は取引を更新する。
	Update(ctx context.Context, userID, transactionID string, amountCents int64, description, customerName, invoiceNumber, categoryID string, occurredAt time.Time) (*model.Transaction, error)
	// Delete は取引を削除する。
	Delete(ctx context.Context, userID, transactionID string) error
}

// TransactionMetricsRecorder は取引ハンドラーが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type TransactionMetricsRecorder interface {
	RecordTransactionCreated(transactionType string)
}

// TransactionHandler は取引管理のHTTPハンドラー。
type TransactionHandler struct {
	service TransactionServiceInterface
	metrics TransactionMetricsRecorder
}

// NewTransactionHandler はTransactionHandlerを生成する。
func NewTransactionHandler(service TransactionServiceInterface, metrics TransactionMetricsRecorder) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		metrics: metrics,
	}
}

// createTransactionRequest は取引作成リクエストのボディ。
// customer_nameとinvoice_numberはtype=incomeの場合のみ指定できる。
type createTransactionRequest struct {
	Type          string `json:"type"`
	AmountCents   int64  `json:"amount_cents"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	OccurredAt    string `json:"occurred_at"`
	CustomerName  string `json:"customer_name"`
	InvoiceNumber string `json:"invoice_number"`
}

// updateTransactionRequest は取引更新リクエストのボディ。取引種別は変更できない。
type updateTransactionRequest struct {
	AmountCents   int64  `json:"amount_cents"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	OccurredAt    string `json:"occurred_at"`
	CustomerName  string `json:"customer_name"`
	InvoiceNumber string `json:"invoice_number"`
}

// transactionResponse は取引情報のAPIレスポンス。
type transactionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	AmountCents   int64     `json:"amount_cents"`
	Description   string    `json:"description"`
	CategoryID    string    `json:"category_id,omitempty"`
	OccurredAt    string    `json:"occurred_at"`
	CustomerName  string    `json:"customer_name,omitempty"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Create は取引作成を処理する。
// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	occurredAt, apiErr := parseOccurredAt(req.OccurredAt)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	var tx *model.Transaction
	switch model.TransactionType(req.Type) {
	case model.TransactionTypeIncome:
		tx, err = h.service.CreateIncome(r.Context(), userID, req.AmountCents, req.Description, req.CustomerName, req.InvoiceNumber, req.CategoryID, occurredAt)
	case model.TransactionTypeExpense:
		if req.CustomerName != "" || req.InvoiceNumber != "" {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("支出取引に顧客名・請求書番号は設定できません"))
			return
		}
		tx, err = h.service.CreateExpense(r.Context(), userID, req.AmountCents, req.Description, req.CategoryID, occurredAt)
	default:
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("取引種別はincomeまたはexpenseを指定してください"))
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordTransactionCreated(string(tx.Type))

	writeSuccessResponse(w, http.StatusCreated, toTransactionResponse(tx))
}

// List は取引一覧を取得する。
// GET /api/transactions?type=income|expense&month=YYYY-MM
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	filter := repository.TransactionFilter{
		Type:  model.TransactionType(r.URL.Query().Get("type")),
		Month: r.URL.Query().Get("month"),
	}

	txs, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toTransactionListResponse(txs))
}

// Get は取引詳細を取得する。
// GET /api/transactions/:id
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	tx, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toTransactionResponse(tx))
}

// Update は取引更新を処理する。
// PUT /api/transactions/:id
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	occurredAt, apiErr := parseOccurredAt(req.OccurredAt)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	tx, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req.AmountCents, req.Description, req.CustomerName, req.InvoiceNumber, req.CategoryID, occurredAt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toTransactionResponse(tx))
}

// Delete は取引削除を処理する。
// DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// --- ヘルパー関数 ---

// parseOccurredAt は取引日文字列を検証して時刻に変換する。
func parseOccurredAt(value string) (time.Time, *model.APIError) {
	if value == "" {
		return time.Time{}, model.NewValidationError("取引日を指定してください")
	}
	t, err := time.Parse(transactionDateLayout, value)
	if err != nil {
		return time.Time{}, model.NewValidationError("取引日はYYYY-MM-DD形式で指定してください")
	}
	return t, nil
}

// toTransactionResponse はmodel.TransactionからAPIレスポンスに変換する。
func toTransactionResponse(tx *model.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		UserID:        tx.UserID,
		Type:          string(tx.Type),
		AmountCents:   tx.AmountCents,
		Description:   tx.Description,
		CategoryID:    tx.CategoryID,
		OccurredAt:    tx.OccurredAt.Format(transactionDateLayout),
		CustomerName:  tx.CustomerName,
		InvoiceNumber: tx.InvoiceNumber,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

// toTransactionListResponse は取引一覧をAPIレスポンスに変換する。
// 空の一覧はnullではなく[]として描画する。
func toTransactionListResponse(txs []*model.Transaction) []transactionResponse {
	responses := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = toTransactionResponse(tx)
	}
	return responses
}
