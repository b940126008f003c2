package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/kicho/internal/metrics"
	"github.com/hitoshi/kicho/internal/middleware"
)

// HealthChecker はヘルスチェックが必要とする死活確認のインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// NewHealthHandler は/healthのハンドラーを返す。
// DBへの疎通確認に失敗した場合は503を返す。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := checker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.HTTPMetricsRecorder
	MetricsGatherer   prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthMetrics AuthMetricsRecorder

	// 取引
	TransactionService TransactionServiceInterface
	TransactionMetrics TransactionMetricsRecorder

	// 貸借項目
	BalanceItemService BalanceItemServiceInterface

	// カテゴリ
	CategoryService CategoryServiceInterface

	// ダッシュボード
	DashboardService DashboardServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// 全ルート共通のミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeadersMiddleware → LoggingMiddleware → MetricsMiddleware → RecoveryMiddleware
//
// /api/* にはさらに AuthMiddleware → RateLimitMiddleware(GeneralMiddleware) を適用する。
// /auth/register と /auth/login にはログイン専用レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	r.Use(middleware.NewRecoveryMiddleware())

	authGuard := middleware.NewAuthMiddleware(deps.TokenVerifier, deps.UserFinder)

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthMetrics)
	txHandler := NewTransactionHandler(deps.TransactionService, deps.TransactionMetrics)
	itemHandler := NewBalanceItemHandler(deps.BalanceItemService)
	categoryHandler := NewCategoryHandler(deps.CategoryService)
	dashboardHandler := NewDashboardHandler(deps.DashboardService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))

	r.Route("/auth", func(r chi.Router) {
		// 登録とログインには総当たり対策のレート制限を適用
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.LoginMiddleware())
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.With(authGuard).Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: AuthGuard → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(authGuard)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 取引管理
		r.Route("/api/transactions", func(r chi.Router) {
			r.Get("/", txHandler.List)
			r.Post("/", txHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", txHandler.Get)
				r.Put("/", txHandler.Update)
				r.Delete("/", txHandler.Delete)
			})
		})

		// 貸借項目管理
		r.Route("/api/balance-items", func(r chi.Router) {
			r.Get("/", itemHandler.List)
			r.Post("/", itemHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itemHandler.Get)
				r.Put("/", itemHandler.Update)
				r.Delete("/", itemHandler.Delete)
			})
		})

		// カテゴリ管理
		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Post("/", categoryHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", categoryHandler.Update)
				r.Delete("/", categoryHandler.Delete)
			})
		})

		// ダッシュボード
		r.Get("/api/dashboard", dashboardHandler.Summary)
	})

	return r
}
