// Package storage は履歴アーカイブをMinIO(S3互換)に保存します
package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config はMinIO接続設定を定義します
type Config struct {
	Endpoint        string // MinIOエンドポイント (例: localhost:9000)
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	Region          string // default: us-east-1
}

// DefaultConfig はデフォルト設定を返します
func DefaultConfig() Config {
	return Config{
		BucketName: "pdfops-history",
		Region:     "us-east-1",
	}
}

// MinIOClient はMinIO操作を提供します
type MinIOClient struct {
	client *minio.Client
	config Config
}

// NewMinIOClient は新しいMinIOClientを作成します
// 接続は最初の操作まで行われません
func NewMinIOClient(cfg Config) (*MinIOClient, error) {
	if cfg.Region == "" {
		cfg.Region = DefaultConfig().Region
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("storage bucket name is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOClient{
		client: client,
		config: cfg,
	}, nil
}

// BucketName はバケット名を返します
func (m *MinIOClient) BucketName() string {
	return m.config.BucketName
}

// Health はMinIOの接続状態を確認します
func (m *MinIOClient) Health(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.config.BucketName)
	return err
}

// EnsureBucket はバケットが存在しない場合は作成します
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{
		Region: m.config.Region,
	})
	if err != nil {
		// 並行起動した別プロセスが先に作成した場合
		if resp := minio.ToErrorResponse(err); resp.Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}
