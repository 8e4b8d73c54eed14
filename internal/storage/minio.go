package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"talent-match-go/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// JobSourceStorage 职位描述源文件的对象存储接口。
// 目录源对象由带外流程维护，服务侧只读。
type JobSourceStorage interface {
	// DownloadJobsObject 下载目录源对象（CSV/JSON）
	DownloadJobsObject(ctx context.Context, objectName string) ([]byte, error)
}

var _ JobSourceStorage = (*MinIO)(nil)

// MinIO 对象存储客户端。
type MinIO struct {
	client     *minio.Client
	cfg        *config.MinIOConfig
	jobsBucket string
	logger     *log.Logger
}

// NewMinIO 创建MinIO客户端并确保职位源文件桶存在。
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client:     client,
		cfg:        cfg,
		jobsBucket: cfg.JobsBucket,
		logger:     logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.ensureBucket(ctx, m.jobsBucket); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIO) ensureBucket(ctx context.Context, bucket string) error {
	if bucket == "" {
		return fmt.Errorf("未配置职位源文件桶")
	}
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查桶 %s 是否存在失败: %w", bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("创建桶 %s 失败: %w", bucket, err)
		}
		m.logger.Printf("[MinIO] created bucket %s", bucket)
	}

	// 配置源文件生命周期（可选）
	if m.cfg.SourceExpireDays > 0 {
		lc := lifecycle.NewConfiguration()
		lc.Rules = []lifecycle.Rule{{
			ID:     "expire-job-sources",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(m.cfg.SourceExpireDays),
			},
		}}
		if err := m.client.SetBucketLifecycle(ctx, bucket, lc); err != nil {
			// 生命周期失败不阻断启动
			m.logger.Printf("[MinIO] set lifecycle for %s failed: %v", bucket, err)
		}
	}
	return nil
}

// DownloadJobsObject 下载目录源对象的完整内容。
func (m *MinIO) DownloadJobsObject(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.jobsBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", m.jobsBucket, objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s/%s 失败: %w", m.jobsBucket, objectName, err)
	}
	return data, nil
}
