package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/meatsafe/internal/model"
)

// PostgresUploadRepo はPostgreSQLを使用したコンプライアンス証跡リポジトリ。
type PostgresUploadRepo struct {
	db *sql.DB
}

// NewPostgresUploadRepo はPostgresUploadRepoを生成する。
func NewPostgresUploadRepo(db *sql.DB) *PostgresUploadRepo {
	return &PostgresUploadRepo{db: db}
}

// Create はアップロードレコードを作成する。
func (r *PostgresUploadRepo) Create(ctx context.Context, upload *model.ComplianceUpload) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO compliance_uploads (id, user_id, filename, object_key, kind, description, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		upload.ID, upload.UserID, upload.Filename, upload.ObjectKey,
		upload.Kind, upload.Description, upload.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

// FindByID は指定IDのアップロードを取得する。見つからない場合はnilを返す。
func (r *PostgresUploadRepo) FindByID(ctx context.Context, id string) (*model.ComplianceUpload, error) {
	upload := &model.ComplianceUpload{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, object_key, kind, description, uploaded_at
		 FROM compliance_uploads WHERE id = $1`,
		id,
	).Scan(&upload.ID, &upload.UserID, &upload.Filename, &upload.ObjectKey,
		&upload.Kind, &upload.Description, &upload.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find upload: %w", err)
	}

	return upload, nil
}

// ListByUserID はユーザーのアップロード一覧をアップロード日時の降順で返す。
func (r *PostgresUploadRepo) ListByUserID(ctx context.Context, userID string) ([]*model.ComplianceUpload, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, filename, object_key, kind, description, uploaded_at
		 FROM compliance_uploads
		 WHERE user_id = $1
		 ORDER BY uploaded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*model.ComplianceUpload
	for rows.Next() {
		upload := &model.ComplianceUpload{}
		if err := rows.Scan(&upload.ID, &upload.UserID, &upload.Filename, &upload.ObjectKey,
			&upload.Kind, &upload.Description, &upload.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, upload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}

	return uploads, nil
}

// CountByKind はファイル種別ごとのアップロード数を返す。
func (r *PostgresUploadRepo) CountByKind(ctx context.Context) (map[model.UploadKind]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM compliance_uploads GROUP BY kind`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count uploads by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.UploadKind]int)
	for rows.Next() {
		var kind model.UploadKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan upload count: %w", err)
		}
		counts[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upload counts: %w", err)
	}

	return counts, nil
}

// compile-time interface check
var _ UploadRepository = (*PostgresUploadRepo)(nil)
