package service

import (
	"context"
	"io"
)

// ArchiveStorage は履歴アーカイブを保存するオブジェクトストレージのインターフェースです
type ArchiveStorage interface {
	// PutObject はオブジェクトを保存します
	// size が不明な場合は -1 を指定します
	PutObject(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error

	// DeleteObject はオブジェクトを削除します
	DeleteObject(ctx context.Context, objectKey string) error
}
