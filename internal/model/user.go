// Package model はドメインモデルを定義する。
package model

import "time"

// UserStatus はアカウントの承認状態を表す。
// pending（初期値）→ approved / rejected の3値で、
// 管理者操作により任意の状態から任意の状態へ再割り当てできる。
type UserStatus string

const (
	// StatusPending はアカウント作成直後の承認待ち状態。
	StatusPending UserStatus = "pending"
	// StatusApproved は管理者による承認済み状態。
	StatusApproved UserStatus = "approved"
	// StatusRejected は管理者による拒否状態。
	StatusRejected UserStatus = "rejected"
)

// Valid はUserStatusが定義済みの3値のいずれかであるかを判定する。
func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// User はレストランのサービス利用ユーザーを表す。
// Emailは一意であり、管理者判定の識別子としても使用される。
type User struct {
	ID             string
	Email          string
	Name           string
	RestaurantName string
	Status         UserStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ApprovedAt     *time.Time
	ApprovedBy     *string
}

// IsApproved はユーザーが承認済みかどうかを判定する。
func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

// Session はユーザーのログインセッションを表す。
// IDは暗号的に安全な不透明トークンで、HTTP Only Cookieで持ち回る。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
