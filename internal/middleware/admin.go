package middleware

import (
	"net/http"

	"github.com/hitoshi/meatsafe/internal/model"
)

// NewAdminMiddleware は管理者のみを通過させるミドルウェアを返す。
// セッションミドルウェアの後に配置する。
// 管理者の判定は設定されたメールアドレスとの一致で行う。
func NewAdminMiddleware(adminEmail string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
				return
			}

			if user.Email != adminEmail {
				WriteErrorResponse(w, http.StatusForbidden, model.NewAdminRequiredError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
