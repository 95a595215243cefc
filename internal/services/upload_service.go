package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UploadKind string

const (
	UploadAttachment   UploadKind = "attachment"
	UploadProfilePhoto UploadKind = "profile-photo"
	UploadCompanyLogo  UploadKind = "company-logo"
)

const (
	maxAttachmentBytes = 10 << 20
	maxImageBytes      = 5 << 20
)

var (
	ErrUnknownUploadKind = errors.New("unknown upload kind")
	ErrNotFileOwner      = errors.New("file belongs to another user")
)

// UploadRejectedError means the file itself is unacceptable.
type UploadRejectedError struct {
	Reason string
}

func (e *UploadRejectedError) Error() string {
	return "upload rejected: " + e.Reason
}

type ObjectStore interface {
	Upload(ctx context.Context, bucket, storagePath, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, bucket, storagePath string) error
	ParsePublicURL(raw string) (string, string, bool)
}

type UploadBuckets struct {
	Attachments string
	Photos      string
	Logos       string
}

type uploadRule struct {
	bucket  string
	maxSize int64
	types   map[string]bool
}

var imageTypes = map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true}

// UploadService stores user files under users/{user}/{kind}/ and hands back
// public URLs for the wizards to keep in drafts.
type UploadService struct {
	store  ObjectStore
	rules  map[UploadKind]uploadRule
	logger *log.Logger
	now    func() time.Time
}

func NewUploadService(store ObjectStore, buckets UploadBuckets, logger *log.Logger) *UploadService {
	if logger == nil {
		logger = log.Default()
	}
	return &UploadService{
		store: store,
		rules: map[UploadKind]uploadRule{
			UploadAttachment:   {bucket: buckets.Attachments, maxSize: maxAttachmentBytes},
			UploadProfilePhoto: {bucket: buckets.Photos, maxSize: maxImageBytes, types: imageTypes},
			UploadCompanyLogo:  {bucket: buckets.Logos, maxSize: maxImageBytes, types: imageTypes},
		},
		logger: logger,
		now:    time.Now,
	}
}

// MaxSize is the largest file accepted for kind, or 0 for unknown kinds.
func (s *UploadService) MaxSize(kind UploadKind) int64 {
	return s.rules[kind].maxSize
}

func (s *UploadService) Upload(ctx context.Context, userID uuid.UUID, kind UploadKind, filename, contentType string, data []byte) (string, error) {
	rule, ok := s.rules[kind]
	if !ok {
		return "", ErrUnknownUploadKind
	}
	if len(data) == 0 {
		return "", &UploadRejectedError{Reason: "file is empty"}
	}
	if int64(len(data)) > rule.maxSize {
		return "", &UploadRejectedError{Reason: fmt.Sprintf("file is larger than %d MB", rule.maxSize>>20)}
	}

	sniffed := http.DetectContentType(data)
	if rule.types != nil {
		if !rule.types[sniffed] {
			return "", &UploadRejectedError{Reason: "only JPEG, PNG and WebP images are allowed"}
		}
		contentType = sniffed
	}
	if contentType == "" {
		contentType = sniffed
	}

	storagePath := fmt.Sprintf("users/%s/%s/%d-%s", userID, kind, s.now().UnixMilli(), CleanFilename(filename))
	url, err := s.store.Upload(ctx, rule.bucket, storagePath, contentType, data)
	if err != nil {
		s.logger.Printf("upload %s for user %s failed: %v", storagePath, userID, err)
		return "", err
	}
	return url, nil
}

// Delete removes a file previously uploaded by userID.
func (s *UploadService) Delete(ctx context.Context, userID uuid.UUID, publicURL string) error {
	bucket, storagePath, ok := s.store.ParsePublicURL(publicURL)
	if !ok || !s.knownBucket(bucket) {
		return &UploadRejectedError{Reason: "not an uploaded file"}
	}
	if !strings.HasPrefix(storagePath, "users/"+userID.String()+"/") {
		return ErrNotFileOwner
	}
	return s.store.Remove(ctx, bucket, storagePath)
}

func (s *UploadService) knownBucket(bucket string) bool {
	for _, r := range s.rules {
		if r.bucket == bucket {
			return true
		}
	}
	return false
}

// CleanFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with a dash.
func CleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	cleaned := strings.Trim(b.String(), ".-")
	if len(cleaned) > 100 {
		cleaned = cleaned[len(cleaned)-100:]
	}
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
