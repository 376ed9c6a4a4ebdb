package portalclient

// Decision は保護されたビューに対するアクセス判定の結果を表す。
type Decision string

const (
	// Allow はビューの表示を許可する。
	Allow Decision = "allow"
	// RedirectHome はホーム画面へ誘導する（未ログイン）。
	RedirectHome Decision = "redirect_home"
	// RedirectDashboard はダッシュボードへ誘導する（未承認アカウント）。
	RedirectDashboard Decision = "redirect_dashboard"
	// Pending は初回解決が完了するまで中立の待機表示を出す。
	// 未確定の状態でリダイレクトすると、正当なセッション保持者を
	// リロードのたびにホームへ弾いてしまう。
	Pending Decision = "pending"
)

// Decide は保護されたビューへのアクセス可否を判定する。
// 純粋関数であり副作用を持たない。実際の画面遷移は呼び出し側が行う。
func Decide(identity *Identity, loading bool, requireApproval bool) Decision {
	if loading {
		return Pending
	}
	if identity == nil {
		return RedirectHome
	}
	if requireApproval && !identity.IsApproved() {
		return RedirectDashboard
	}
	return Allow
}

// DecideAdmin は管理者ビューへのアクセス可否を判定する。
// 管理者はメールアドレスの一致のみで判定し、承認ステータスは関与しない。
func DecideAdmin(identity *Identity, loading bool, adminEmail string) Decision {
	if loading {
		return Pending
	}
	if identity == nil || identity.Email != adminEmail {
		return RedirectHome
	}
	return Allow
}
