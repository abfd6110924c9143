package ai

import (
	"context"
	"errors"
	"strings"
)

// Category classifies a failed generation call.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryInvalidCredential
	CategoryQuotaExceeded
	CategoryModelNotFound
	CategoryUnavailable
)

// User-facing diagnostics returned by the gateway instead of errors.
const (
	DiagnosticGeneric           = "AI xizmatida xatolik yuz berdi. Iltimos, keyinroq qayta urinib ko'ring."
	DiagnosticInvalidCredential = "AI xizmatining API kaliti noto'g'ri. Administrator sozlamalarni tekshirishi kerak."
	DiagnosticQuotaExceeded     = "AI xizmatidan foydalanish limiti tugadi. Iltimos, birozdan so'ng qayta urinib ko'ring."
	DiagnosticModelNotFound     = "AI modeli topilmadi. Administrator model nomini tekshirishi kerak."
	DiagnosticUnavailable       = "AI xizmati hozircha mavjud emas."
)

func (c Category) String() string {
	switch c {
	case CategoryInvalidCredential:
		return "invalid_credential"
	case CategoryQuotaExceeded:
		return "quota_exceeded"
	case CategoryModelNotFound:
		return "model_not_found"
	case CategoryUnavailable:
		return "unavailable"
	default:
		return "generic"
	}
}

// Diagnostic returns the fixed message shown to users for the category.
func (c Category) Diagnostic() string {
	switch c {
	case CategoryInvalidCredential:
		return DiagnosticInvalidCredential
	case CategoryQuotaExceeded:
		return DiagnosticQuotaExceeded
	case CategoryModelNotFound:
		return DiagnosticModelNotFound
	case CategoryUnavailable:
		return DiagnosticUnavailable
	default:
		return DiagnosticGeneric
	}
}

// ProviderError is returned by generators that already know the failure category.
type ProviderError struct {
	Category Category
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return e.Category.String()
	}
	return e.Category.String() + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Classify maps any generation error onto a Category. Errors without a known
// shape are matched by message and default to CategoryGeneric.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Category
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryGeneric
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "unauthenticated"), strings.Contains(msg, "permission_denied"):
		return CategoryInvalidCredential
	case strings.Contains(msg, "quota"), strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"):
		return CategoryQuotaExceeded
	case strings.Contains(msg, "not found"), strings.Contains(msg, "not_found"):
		return CategoryModelNotFound
	default:
		return CategoryGeneric
	}
}

// IsDiagnostic reports whether s is one of the gateway diagnostics.
func IsDiagnostic(s string) bool {
	switch strings.TrimSpace(s) {
	case DiagnosticGeneric, DiagnosticInvalidCredential, DiagnosticQuotaExceeded,
		DiagnosticModelNotFound, DiagnosticUnavailable:
		return true
	default:
		return false
	}
}
