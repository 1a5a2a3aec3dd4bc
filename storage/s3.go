package storage

import (
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignServeURLFor = 15 * time.Minute

type S3Storage struct {
	Bucket   Bucket
	s3Client s3iface.S3API
}

func NewS3Storage(bucket *Bucket) *S3Storage {
	return NewS3StorageWithClient(bucket, bucket.CreateSVC())
}

func NewS3StorageWithClient(bucket *Bucket, client s3iface.S3API) *S3Storage {
	return &S3Storage{Bucket: *bucket, s3Client: client}
}

func (s *S3Storage) key(path string) (*string, error) {
	cleaned, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	return aws.String(s.Bucket.GetRemotePath(cleaned)), nil
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	key, err := s.key(path)
	if err != nil {
		return 0, err
	}
	counter := &countingReader{reader: reader}
	input := s3manager.UploadInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
		Body:   counter,
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.Bucket.SSEEncryption
	}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	if _, err = uploader.Upload(&input); err != nil {
		return 0, err
	}
	return counter.read, nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	key, err := s.key(path)
	if err != nil {
		return 0, err
	}
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{Bucket: &s.Bucket.Name, Key: key})
	if isMissing(err) {
		return 0, ErrFileNotFound
	}
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

// Serve redirects to a short lived pre-signed URL instead of proxying the bytes
func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	key, err := s.key(path)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{Bucket: &s.Bucket.Name, Key: key})
	url, err := req.Presign(presignServeURLFor)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadGateway)
		return
	}
	http.Redirect(writer, request, url, http.StatusTemporaryRedirect)
}

func (s *S3Storage) Delete(path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	found, err := s.Exists(path)
	if err != nil {
		return err
	}
	if !found {
		return ErrFileNotFound
	}
	_, err = s.s3Client.DeleteObject(&s3.DeleteObjectInput{Bucket: &s.Bucket.Name, Key: key})
	return err
}

func (s *S3Storage) Exists(path string) (bool, error) {
	key, err := s.key(path)
	if err != nil {
		return false, err
	}
	_, err = s.s3Client.HeadObject(&s3.HeadObjectInput{Bucket: &s.Bucket.Name, Key: key})
	if isMissing(err) {
		return false, nil
	}
	return err == nil, err
}

// GetFreeSpace is unbounded for object storage
func (s *S3Storage) GetFreeSpace() uint64 {
	return math.MaxUint64
}

func (s *S3Storage) GetBucket() *Bucket {
	return &s.Bucket
}

func isMissing(err error) bool {
	var awsErr awserr.Error
	if !errors.As(err, &awsErr) {
		return false
	}
	switch awsErr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}

type countingReader struct {
	reader io.Reader
	read   int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.read += int64(n)
	return n, err
}
