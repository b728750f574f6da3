package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"recipe-box-server/internal/domain"
	apperrors "recipe-box-server/pkg/errors"
)

type StorageService interface {
	Upload(ctx context.Context, path string, file io.Reader) error
	Download(ctx context.Context, path string) (io.ReadCloser, error)
}

type SupabaseStorage struct {
	baseURL string
	apiKey  string
	bucket  string
}

func NewStorageService(
	baseURL string,
	apiKey string,
	bucket string,
) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
	}
}

func (s *SupabaseStorage) Upload(
	ctx context.Context,
	path string,
	file io.Reader,
) error {

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		s.objectURL(path),
		file,
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError("storage upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return apperrors.NewInternalError(fmt.Sprintf("storage upload failed with status %d", resp.StatusCode), nil)
	}

	return nil
}

func (s *SupabaseStorage) Download(
	ctx context.Context,
	path string,
) (io.ReadCloser, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", s.objectURL(path), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("storage download failed", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, domain.ErrPDFNotFound
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, apperrors.NewInternalError(fmt.Sprintf("storage download failed with status %d", resp.StatusCode), nil)
	}

	return resp.Body, nil
}

func (s *SupabaseStorage) objectURL(path string) string {
	return s.baseURL + "/storage/v1/object/" + s.bucket + "/" + path
}
