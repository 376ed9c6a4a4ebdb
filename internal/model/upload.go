package model

import "time"

// UploadKind はコンプライアンス証跡ファイルの種別を表す。
type UploadKind string

const (
	// UploadKindImage は画像ファイル（jpg, jpeg, png, gif）。
	UploadKindImage UploadKind = "image"
	// UploadKindVideo は動画ファイル（mp4, mov, avi, wmv）。
	UploadKindVideo UploadKind = "video"
)

// ComplianceUpload はレストランがアップロードしたコンプライアンス証跡を表す。
// ObjectKeyはストレージバックエンド上のオブジェクトキーで、
// 元のファイル名とは独立したUUIDベースの値を使用する。
type ComplianceUpload struct {
	ID          string
	UserID      string
	Filename    string
	ObjectKey   string
	Kind        UploadKind
	Description string
	UploadedAt  time.Time
}
