package middleware

import (
	"net/http"

	"github.com/hitoshi/meatsafe/internal/model"
)

// NewApprovalMiddleware は承認済みユーザーのみを通過させるミドルウェアを返す。
// セッションミドルウェアの後に配置する。
// 承認待ち・却下済みユーザーには403でAPPROVAL_PENDINGを返す。
func NewApprovalMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
				return
			}

			if !user.IsApproved() {
				WriteErrorResponse(w, http.StatusForbidden, model.NewApprovalPendingError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
