package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxURLLength caps the size of a destination URL.
const MaxURLLength = 2048

// Base62Alphabet is the URL-safe alphabet short codes are drawn from.
const Base62Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Link maps a short code to its destination. Code and OriginalURL never change
// after creation; Clicks and LastUsedAt are visit statistics kept beside them.
type Link struct {
	Code        string     `json:"code"`
	OriginalURL string     `json:"original_url"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Clicks      int64      `json:"clicks"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

// ValidateURL accepts absolute http(s) URLs with a host and returns raw
// unchanged. Surrounding whitespace is rejected rather than trimmed so the
// stored URL is exactly the one submitted. Every failure wraps ErrInvalidURL.
func ValidateURL(raw string) (string, error) {
	if raw != strings.TrimSpace(raw) {
		return "", fmt.Errorf("%w: url must not have surrounding whitespace", ErrInvalidURL)
	}

	if err := validate.Var(raw, urlRules); err != nil {
		switch failedTag(err) {
		case "required":
			return "", fmt.Errorf("%w: url is required", ErrInvalidURL)
		case "max":
			return "", fmt.Errorf("%w: url exceeds %d characters", ErrInvalidURL, MaxURLLength)
		default:
			return "", fmt.Errorf("%w: url must be an absolute http or https url with a host", ErrInvalidURL)
		}
	}

	return raw, nil
}

// IsWellFormedCode reports whether code could have been issued by a generator
// of the given length over Base62Alphabet. A length of zero skips the length
// check.
func IsWellFormedCode(code string, length int) bool {
	if code == "" || (length > 0 && len(code) != length) {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Base62Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
