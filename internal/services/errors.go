package services

import (
	"fmt"
	"regexp"
	"strings"

	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
)

// Reads fail with the same coded errors as the write path so the HTTP layer
// has a single mapping.

func notFound(op, format string, args ...interface{}) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf(format, args...), nil)
}

func invalid(op, format string, args ...interface{}) error {
	return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf(format, args...), nil)
}

func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.Wrap(domainagg.CodeInternal, op, err)
}

// compilePattern turns a user supplied search term into a case-insensitive
// regular expression. Blank terms match everything and return nil.
func compilePattern(op, field, raw string) (*regexp.Regexp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + raw)
	if err != nil {
		return nil, invalid(op, "invalid %s pattern: %v", field, err)
	}
	return re, nil
}
