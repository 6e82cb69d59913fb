package service

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"

	"neon-studio/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// validateStruct runs the struct tag rules and converts the first failure into a
// domain error naming the field as clients see it.
func validateStruct(prefix string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	if prefix != "" {
		field = prefix + "." + field
	}

	switch fe.Tag() {
	case "required":
		return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("%s is required", field))
	case "email":
		return model.NewDomainError(model.ErrCodeInvalidEmail, fmt.Sprintf("%s is not a valid email address", field))
	case "max":
		return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	}
	return model.NewDomainError(model.ErrCodeInvalidField, fmt.Sprintf("%s is invalid", field))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func validateSessionID(id string) error {
	if id == "" {
		return model.ErrMissingSession
	}
	if !sessionIDPattern.MatchString(id) {
		return model.ErrInvalidSession
	}
	return nil
}

// normalizeConfig validates cfg in place, prefixing domain error messages with the
// field path.
func normalizeConfig(path string, cfg *model.Configuration) error {
	if cfg == nil {
		return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("%s is required", path))
	}
	if err := cfg.Normalize(); err != nil {
		if de, ok := model.AsDomainError(err); ok && path != "config" {
			return model.NewDomainError(de.Code, fmt.Sprintf("%s: %s", path, de.Message))
		}
		return err
	}
	return nil
}

const lockShards = 64

// sessionLocks serialises load-modify-save cycles per session within this process.
type sessionLocks struct {
	shards [lockShards]sync.Mutex
}

func (l *sessionLocks) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	m := &l.shards[h.Sum32()%lockShards]
	m.Lock()
	return m.Unlock
}
