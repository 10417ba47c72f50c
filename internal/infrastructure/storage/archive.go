package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
)

// ArchiveStore は履歴アーカイブの保存先です
type ArchiveStore struct {
	client *MinIOClient
}

// NewArchiveStore は新しいArchiveStoreを作成します
func NewArchiveStore(client *MinIOClient) *ArchiveStore {
	return &ArchiveStore{client: client}
}

// PutObject はオブジェクトを保存します
func (s *ArchiveStore) PutObject(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.client.PutObject(ctx, s.client.BucketName(), objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// DeleteObject はオブジェクトを削除します
func (s *ArchiveStore) DeleteObject(ctx context.Context, objectKey string) error {
	err := s.client.client.RemoveObject(ctx, s.client.BucketName(), objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DownloadURL はアーカイブのダウンロード用Presigned URLを生成します
func (s *ArchiveStore) DownloadURL(ctx context.Context, objectKey, filename string, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	u, err := s.client.client.PresignedGetObject(ctx, s.client.BucketName(), objectKey, expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate download url: %w", err)
	}
	return u.String(), nil
}

// インターフェースの実装を保証
var _ service.ArchiveStorage = (*ArchiveStore)(nil)
