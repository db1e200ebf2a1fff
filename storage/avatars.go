// Package storage persists uploaded avatar images on the local filesystem
// and serves them back under the public /avatars/ path.
package storage

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/coderhythm/garden-admin/auth"
)

// PublicPrefix is the URL prefix avatar files are served under. The access
// policy keeps it public so <img> tags work without a bearer token.
const PublicPrefix = "/avatars/"

// ErrInvalidImageData rejects uploads that are not a decodable base64
// image payload.
var ErrInvalidImageData = errors.New("Error: Invalid avatar image data", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_IMAGE_DATA")

var contentTypes = map[string]string{
	".png": "image/png",
	".jpg": "image/jpeg",
}

// FileStore keeps avatar files under <uploadDir>/avatars. It implements
// auth.AvatarStore.
type FileStore struct {
	uploadDir string
	logger    auth.Logger
	fileName  func(ext string) string
}

var _ auth.AvatarStore = (*FileStore)(nil)

type FileStoreOption func(*FileStore) *FileStore

// NewFileStore builds a store rooted at uploadDir and makes sure the
// avatars directory exists.
func NewFileStore(uploadDir string, opts ...FileStoreOption) (*FileStore, error) {
	s := &FileStore{
		uploadDir: uploadDir,
		logger:    defLogger{},
		fileName: func(ext string) string {
			return "avatar_" + uuid.NewString() + ext
		},
	}

	for _, opt := range opts {
		s = opt(s)
	}

	if err := os.MkdirAll(s.avatarDir(), 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create upload directory")
	}

	return s, nil
}

// WithStorageLogger sets the store logger
func WithStorageLogger(logger auth.Logger) FileStoreOption {
	return func(s *FileStore) *FileStore {
		if logger != nil {
			s.logger = logger
		}
		return s
	}
}

func (s *FileStore) avatarDir() string {
	return filepath.Join(s.uploadDir, "avatars")
}

// SaveDataURL decodes a base64 image, with or without the data URL
// envelope, writes it under a fresh unique name and answers the public
// path to store on the profile.
func (s *FileStore) SaveDataURL(dataURL string) (string, error) {
	if dataURL == "" {
		return "", ErrInvalidImageData
	}

	payload := dataURL
	ext := ".jpg"

	if header, rest, found := strings.Cut(dataURL, ","); found {
		payload = rest
		if strings.Contains(header, "image/png") {
			ext = ".png"
		}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errors.Wrap(err, ErrInvalidImageData.Category, ErrInvalidImageData.Message).
			WithTextCode(ErrInvalidImageData.TextCode)
	}

	name := s.fileName(ext)
	if err := os.WriteFile(filepath.Join(s.avatarDir(), name), raw, 0o644); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to store avatar")
	}

	return PublicPrefix + name, nil
}

// Remove deletes a previously stored avatar by its public path. A missing
// file is not an error; callers treat removal as best effort anyway.
func (s *FileStore) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := strings.TrimPrefix(publicPath, PublicPrefix)
	if name == "" {
		return nil
	}

	// Base strips any traversal a stored path could smuggle in
	target := filepath.Join(s.avatarDir(), filepath.Base(name))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove avatar")
	}
	return nil
}

// ServeHandler answers stored avatar files by name
func (s *FileStore) ServeHandler() router.HandlerFunc {
	return func(ctx router.Context) error {
		name := filepath.Base(ctx.Param("filename"))
		if name == "" || name == "." || name == string(filepath.Separator) {
			return ctx.JSON(router.StatusBadRequest, auth.MessageResponse{Message: "Error: Invalid file name"})
		}

		raw, err := os.ReadFile(filepath.Join(s.avatarDir(), name))
		if err != nil {
			if os.IsNotExist(err) {
				return ctx.JSON(http.StatusNotFound, auth.MessageResponse{Message: "Error: File not found"})
			}
			s.logger.Error("avatar read error: %v", err)
			return ctx.JSON(router.StatusInternalServerError, auth.MessageResponse{Message: "Error: Internal server error"})
		}

		contentType, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
		if !ok {
			contentType = "application/octet-stream"
		}

		ctx.SetHeader("Content-Type", contentType)
		return ctx.Send(raw)
	}
}
