package service

import (
	"context"
	"strings"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/logging"
)

// MediaService resolves gallery keys. Absolute URLs pass through; otherwise a
// public base URL wins over S3 presigning.
type MediaService struct {
	s3         *config.S3Config
	publicBase string
}

func NewMediaService(s3 *config.S3Config, publicBaseURL string) *MediaService {
	return &MediaService{s3: s3, publicBase: strings.TrimRight(publicBaseURL, "/")}
}

func (m *MediaService) URL(ctx context.Context, key string) string {
	switch {
	case key == "":
		return ""
	case strings.HasPrefix(key, "http://"), strings.HasPrefix(key, "https://"), strings.HasPrefix(key, "/"):
		return key
	case m.publicBase != "":
		return m.publicBase + "/" + strings.TrimLeft(key, "/")
	case m.s3 != nil:
		url, err := m.s3.GeneratePresignedURL(ctx, key)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to presign media url")
			return ""
		}
		return url
	default:
		return key
	}
}
