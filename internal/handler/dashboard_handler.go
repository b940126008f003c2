package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/kicho/internal/dashboard"
	"github.com/hitoshi/kicho/internal/middleware"
	"github.com/hitoshi/kicho/internal/repository"
)

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	// Summary はユーザーのダッシュボードサマリーを集計する。
	Summary(ctx context.Context, userID, month string) (*dashboard.Summary, error)
}

// DashboardHandler はダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// categoryTotalResponse はカテゴリ別合計のAPIレスポンス。
// カテゴリ未設定の取引はcategory_id・category_nameとも空で表す。
type categoryTotalResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	TotalCents   int64  `json:"total_cents"`
}

// dashboardSummaryResponse はダッシュボードサマリーのAPIレスポンス。
type dashboardSummaryResponse struct {
	Month                 string                  `json:"month,omitempty"`
	TotalIncomeCents      int64                   `json:"total_income_cents"`
	TotalExpenseCents     int64                   `json:"total_expense_cents"`
	NetCents              int64                   `json:"net_cents"`
	TransactionCount      int                     `json:"transaction_count"`
	IncomeByCategory      []categoryTotalResponse `json:"income_by_category"`
	ExpenseByCategory     []categoryTotalResponse `json:"expense_by_category"`
	TotalAssetsCents      int64                   `json:"total_assets_cents"`
	TotalLiabilitiesCents int64                   `json:"total_liabilities_cents"`
	NetWorthCents         int64                   `json:"net_worth_cents"`
}

// Summary はダッシュボードサマリーを取得する。
// GET /api/dashboard?month=YYYY-MM
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, r.URL.Query().Get("month"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toDashboardSummaryResponse(summary))
}

// toDashboardSummaryResponse はdashboard.SummaryからAPIレスポンスに変換する。
func toDashboardSummaryResponse(summary *dashboard.Summary) dashboardSummaryResponse {
	return dashboardSummaryResponse{
		Month:                 summary.Month,
		TotalIncomeCents:      summary.TotalIncomeCents,
		TotalExpenseCents:     summary.TotalExpenseCents,
		NetCents:              summary.NetCents,
		TransactionCount:      summary.TransactionCount,
		IncomeByCategory:      toCategoryTotalResponses(summary.IncomeByCategory),
		ExpenseByCategory:     toCategoryTotalResponses(summary.ExpenseByCategory),
		TotalAssetsCents:      summary.TotalAssetsCents,
		TotalLiabilitiesCents: summary.TotalLiabilitiesCents,
		NetWorthCents:         summary.NetWorthCents,
	}
}

// toCategoryTotalResponses はカテゴリ別合計の一覧をAPIレスポンスに変換する。
func toCategoryTotalResponses(totals []repository.CategoryTotal) []categoryTotalResponse {
	responses := make([]categoryTotalResponse, len(totals))
	for i, total := range totals {
		responses[i] = categoryTotalResponse{
			CategoryID:   total.CategoryID,
			CategoryName: total.CategoryName,
			TotalCents:   total.TotalCents,
		}
	}
	return responses
}
