package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/pkg/apperror"
)

// AssetScheme prefixes references to files kept in the asset directory
const AssetScheme = "asset://"

// ErrPathEscape is returned for references that resolve outside the base directory
var ErrPathEscape = errors.New("path escapes asset directory")

// AssetStore turns opaque image references into something a renderer can load
type AssetStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewAssetStore creates a store rooted at baseDir
func NewAssetStore(baseDir string, logger *zap.Logger) *AssetStore {
	return &AssetStore{baseDir: baseDir, logger: logger}
}

// Resolve returns a loadable URL for ref. data: URIs and http(s) URLs pass
// through untouched; asset names are read from disk and inlined as data URIs.
// An empty ref resolves to an empty string.
func (s *AssetStore) Resolve(ctx context.Context, ref string) (string, error) {
	switch {
	case ref == "":
		return "", nil
	case strings.HasPrefix(ref, "data:"),
		strings.HasPrefix(ref, "http://"),
		strings.HasPrefix(ref, "https://"):
		return ref, nil
	}

	content, err := s.Read(ctx, strings.TrimPrefix(ref, AssetScheme))
	if err != nil {
		return "", err
	}
	return DataURI(content), nil
}

// Read returns the bytes of a stored asset
func (s *AssetStore) Read(ctx context.Context, name string) ([]byte, error) {
	fullPath, err := s.fullPath(name)
	if err != nil {
		return nil, apperror.NewInvalidInputError("asset", err.Error())
	}

	content, err := os.ReadFile(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperror.NewNotFoundError("Asset " + name)
	}
	if err != nil {
		s.logger.Error("Failed to read asset", zap.String("path", fullPath), zap.Error(err))
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}

	s.logger.Debug("Asset read", zap.String("path", fullPath), zap.Int("size", len(content)))
	return content, nil
}

// Save writes content under name and returns its asset reference
func (s *AssetStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	fullPath, err := s.fullPath(name)
	if err != nil {
		return "", apperror.NewInvalidInputError("asset", err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create asset directory", zap.String("path", fullPath), zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write asset", zap.String("path", fullPath), zap.Error(err))
		return "", fmt.Errorf("failed to write asset: %w", err)
	}

	s.logger.Debug("Asset saved", zap.String("path", fullPath), zap.Int("size", len(content)))
	return AssetScheme + filepath.ToSlash(name), nil
}

// SaveDataURI decodes a base64 data URI and stores its bytes under name
func (s *AssetStore) SaveDataURI(ctx context.Context, name, uri string) (string, error) {
	content, err := DecodeDataURI(uri)
	if err != nil {
		return "", apperror.NewInvalidInputError("image", err.Error())
	}
	return s.Save(ctx, name, content)
}

func (s *AssetStore) fullPath(name string) (string, error) {
	if name == "" {
		return "", errors.New("asset name is required")
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(name))

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return fullPath, nil
}

// DataURI inlines content as a base64 data URI with a sniffed media type
func DataURI(content []byte) string {
	return "data:" + http.DetectContentType(content) + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// DecodeDataURI returns the payload of a base64 data URI
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data URI must be base64 encoded")
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return content, nil
}
