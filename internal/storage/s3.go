package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"serverprobe/internal/logger"
)

// objectPutter s3.Client 中用到的部分
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader 结果文件上传器
type Uploader struct {
	client objectPutter
	bucket string
	prefix string
}

// NewUploader 使用默认凭证链创建上传器，endpoint 非空时使用兼容 S3 的自定义服务
func NewUploader(ctx context.Context, bucket, region, endpoint, prefix string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newUploader(client, bucket, prefix), nil
}

func newUploader(client objectPutter, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Key 文件在存储桶中的路径
func (u *Uploader) Key(localPath string) string {
	return path.Join(u.prefix, filepath.Base(localPath))
}

// UploadFile 上传本地文件，返回对象路径
func (u *Uploader) UploadFile(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("打开结果文件失败: %w", err)
	}
	defer f.Close()

	key := u.Key(localPath)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("上传到S3失败: %w", err)
	}

	logger.Infof("结果已上传到: s3://%s/%s", u.bucket, key)
	return key, nil
}
