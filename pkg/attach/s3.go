package attach

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
)

// S3Config holds the settings for the S3-backed attachment store.
type S3Config struct {
	Bucket    string
	Region    string
	KeyPrefix string
}

// S3Store keeps attachment bytes in an S3 bucket under
// <prefix>/<attachment-id>. Metadata lives in memory; the bucket is
// the source of truth for bytes.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	cfg     S3Config
	log     zerolog.Logger

	mu   sync.RWMutex
	meta map[string]Ref
}

// NewS3Store builds an S3 attachment store using the default AWS
// credential chain.
func NewS3Store(ctx context.Context, cfg S3Config, log zerolog.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "attachments"
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		log:     log.With().Str("component", "attach_s3").Logger(),
		meta:    make(map[string]Ref),
	}, nil
}

func (s *S3Store) key(id string) string {
	return fmt.Sprintf("%s/%s", s.cfg.KeyPrefix, id)
}

func (s *S3Store) Create(_ context.Context, name, mimeType string, size int64) (Ref, error) {
	ref := Ref{
		ID:           NewID(mimeType),
		Name:         name,
		MimeType:     mimeType,
		SizeBytes:    size,
		SourceHandle: "",
	}
	ref.SourceHandle = "s3:" + s.key(ref.ID)
	s.mu.Lock()
	s.meta[ref.ID] = ref
	s.mu.Unlock()
	return ref, nil
}

func (s *S3Store) Put(ctx context.Context, id string, data []byte) error {
	s.mu.RLock()
	ref, ok := s.meta[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("put %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ref.MimeType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload attachment %s: %w", id, err)
	}

	s.mu.Lock()
	ref.SizeBytes = int64(len(data))
	s.meta[id] = ref
	s.mu.Unlock()

	s.log.Debug().Str("attachment_id", id).Int("bytes", len(data)).Msg("Attachment uploaded")
	return nil
}

func (s *S3Store) Read(ctx context.Context, ref Ref) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(ref.ID)),
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", ref.ID, gwerrors.ErrAttachmentUnavailable, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", ref.ID, gwerrors.ErrAttachmentUnavailable, err)
	}
	return data, nil
}

func (s *S3Store) Stat(_ context.Context, id string) (Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.meta[id]
	if !ok {
		return Ref{}, fmt.Errorf("stat %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}
	return ref, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.meta[id]
	delete(s.meta, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("delete %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("attachment_id", id).Msg("Failed to delete attachment object")
	}
	return nil
}

// PresignGet returns a time-limited URL for direct download of the
// stored object, used by the download endpoint's redirect.
func (s *S3Store) PresignGet(ctx context.Context, id string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.meta[id]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("presign %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(id)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign attachment %s: %w", id, err)
	}
	return req.URL, nil
}
