package service

import (
	"context"
	"fmt"
	"strings"

	"neon-studio/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const logoMessage = "Thanks! Our designers will email a mockup and quote within 24 hours."

// AllowedLogoTypes lists the accepted upload formats.
var AllowedLogoTypes = []string{"image/jpeg", "image/png", "image/svg+xml"}

// logoService implements LogoService.
type logoService struct {
	maxBytes int64
	logger   zerolog.Logger
}

// NewLogoService creates a logo service accepting files up to maxBytes.
func NewLogoService(maxBytes int64, logger zerolog.Logger) LogoService {
	return &logoService{
		maxBytes: maxBytes,
		logger:   logger.With().Str("service", "logo").Logger(),
	}
}

// Submit validates the request and issues a reference id. The file itself is not kept.
func (s *logoService) Submit(_ context.Context, req *model.LogoRequest) (*model.LogoResponse, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "logo request is required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.FileName == "" || req.FileSize == 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "logo file is required")
	}
	if !allowedLogoType(req.ContentType) {
		return nil, model.NewDomainError(model.ErrCodeInvalidFile,
			fmt.Sprintf("unsupported file type %q (allowed: %s)", req.ContentType, strings.Join(AllowedLogoTypes, ", ")))
	}
	if req.FileSize > s.maxBytes {
		return nil, model.NewDomainError(model.ErrCodeFileTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	if err := validateStruct("", req); err != nil {
		return nil, err
	}

	requestID := "logo-" + uuid.NewString()

	s.logger.Info().
		Str("request_id", requestID).
		Str("email", req.Email).
		Str("file_name", req.FileName).
		Str("content_type", req.ContentType).
		Int64("file_size", req.FileSize).
		Str("size_preference", req.SizePreference).
		Msg("custom logo request received")

	return &model.LogoResponse{
		Success:   true,
		RequestID: requestID,
		Message:   logoMessage,
	}, nil
}

func allowedLogoType(contentType string) bool {
	for _, t := range AllowedLogoTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
