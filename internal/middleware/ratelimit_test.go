package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/meatsafe/internal/model"
	"golang.org/x/time/rate"
)

func testRateLimiterConfig(generalBurst, uploadBurst int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // テスト中の補充を実質的に無効化
		GeneralBurst:    generalBurst,
		UploadRate:      rate.Limit(0.001),
		UploadBurst:     uploadBurst,
		CleanupInterval: time.Hour,
	}
}

func requestAs(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	ctx := ContextWithUser(req.Context(), &model.User{ID: userID, Status: model.StatusApproved})
	return req.WithContext(ctx)
}

func TestGeneralMiddleware_WithinLimit_Passes(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(3, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("user-1"))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Result().StatusCode, http.StatusOK)
		}
	}
}

func TestGeneralMiddleware_ExceedsLimit_Returns429(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("user-1"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs("user-1"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestGeneralMiddleware_PerUserIsolation(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user-1が上限に達する
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs("user-1"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs("user-1"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("user-1 second request: status = %d, want 429", w.Result().StatusCode)
	}

	// user-2には影響しない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs("user-2"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("user-2 status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestUploadMiddleware_IndependentFromGeneral(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	upload := rl.UploadMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// API全般の上限に達してもアップロードは通過する
	w := httptest.NewRecorder()
	general.ServeHTTP(w, requestAs("user-1"))
	w = httptest.NewRecorder()
	general.ServeHTTP(w, requestAs("user-1"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("general second request: status = %d, want 429", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	upload.ServeHTTP(w, requestAs("user-1"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("upload status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestGeneralMiddleware_NoUser_Returns401(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRateLimiter_LimiterCounts(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upload := rl.UploadMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	general.ServeHTTP(httptest.NewRecorder(), requestAs("user-1"))
	general.ServeHTTP(httptest.NewRecorder(), requestAs("user-2"))
	upload.ServeHTTP(httptest.NewRecorder(), requestAs("user-1"))

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
	if got := rl.UploadLimiterCount(); got != 1 {
		t.Errorf("UploadLimiterCount() = %d, want 1", got)
	}
}
