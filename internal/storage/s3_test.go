package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	b, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestUploadFile(t *testing.T) {
	local := filepath.Join(t.TempDir(), "mc_servers_20250830_010203.txt")
	if err := os.WriteFile(local, []byte("1. a.example\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fake := &fakePutter{}
	u := newUploader(fake, "results", "probe/runs")

	key, err := u.UploadFile(context.Background(), local)
	if err != nil {
		t.Fatal(err)
	}
	if key != "probe/runs/mc_servers_20250830_010203.txt" || fake.key != key {
		t.Fatalf("key = %s, fake key = %s", key, fake.key)
	}
	if fake.bucket != "results" || string(fake.body) != "1. a.example\n" {
		t.Fatalf("unexpected upload bucket=%s body=%q", fake.bucket, fake.body)
	}
}

func TestUploadFileErrors(t *testing.T) {
	u := newUploader(&fakePutter{}, "results", "")
	if _, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}

	local := filepath.Join(t.TempDir(), "r.txt")
	if err := os.WriteFile(local, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	u = newUploader(&fakePutter{err: errors.New("denied")}, "results", "")
	if _, err := u.UploadFile(context.Background(), local); err == nil {
		t.Fatal("expected upload error")
	}
	if got := u.Key(local); got != "r.txt" {
		t.Fatalf("key without prefix = %s", got)
	}
}
