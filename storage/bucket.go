package storage

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

func (t StorageType) String() string {
	if t == StorageTypeS3 {
		return "s3"
	}
	return "file"
}

type Bucket struct {
	Name          string
	StorageType   StorageType
	Path          string // Path on a drive or a prefix in a S3 bucket
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SSEEncryption string
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prefixes path with the configured key prefix
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

// CreateSVC builds an S3 client. Static credentials are used when configured,
// the default AWS credential chain otherwise.
func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().WithRegion(b.Region)
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	if b.AccessKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(b.AccessKey, b.SecretKey, ""))
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}
