package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/meatsafe/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"

	appmetrics "github.com/hitoshi/meatsafe/internal/metrics"
)

// HealthChecker はDB接続の死活確認を提供する。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	AdminEmail        string
	Logger            *slog.Logger

	// メトリクス
	Metrics         appmetrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer

	// サービス
	AuthService      AuthServiceInterface
	AuthConfig       AuthHandlerConfig
	UserService      UserServiceInterface
	AdminService     AdminServiceInterface
	AnalyticsService AnalyticsServiceInterface
	UploadService    UploadServiceInterface
	QuizService      QuizServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS
//
// 認証が必要なルートにはさらに Session → RateLimit(General) を適用し、
// 承認済み限定ルートにはApproval、管理者ルートにはAdminを追加する。
// 認証ルート（/api/auth/*）と/health、/metricsは認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	adminHandler := NewAdminHandler(deps.AdminService, deps.AnalyticsService, deps.Metrics)
	uploadHandler := NewUploadHandler(deps.UploadService, deps.Metrics, deps.AdminEmail)
	quizHandler := NewQuizHandler(deps.QuizService, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				deps.Logger.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", appmetrics.Handler(deps.MetricsGatherer))
	}

	// 認証ルート（トークン交換フロー）
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Post("/profile", authHandler.Exchange)
		r.Post("/logout", authHandler.Logout)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.UserFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール管理（承認前でもアクセス可能）
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateMe)
		})

		// ファイル取得（所有者チェックはハンドラー内で行う）
		r.Get("/api/compliance/file/{id}", uploadHandler.ServeFile)

		// --- 承認済みユーザー限定ルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewApprovalMiddleware())

			r.Route("/api/compliance", func(r chi.Router) {
				// POST /api/compliance/upload - アップロード専用レート制限を追加
				r.With(deps.RateLimiter.UploadMiddleware()).Post("/upload", uploadHandler.Upload)
				r.Get("/uploads", uploadHandler.ListUploads)
			})

			r.Route("/api/quiz", func(r chi.Router) {
				r.Get("/questions", quizHandler.Questions)
				r.Post("/submit", quizHandler.Submit)
				r.Get("/attempts", quizHandler.Attempts)
			})
		})

		// --- 管理者限定ルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAdminMiddleware(deps.AdminEmail))

			r.Route("/api/admin", func(r chi.Router) {
				r.Get("/users", adminHandler.ListUsers)
				r.Put("/users/{id}", adminHandler.UpdateStatus)
				r.Get("/analytics", adminHandler.Analytics)
			})
		})
	})

	return r
}
