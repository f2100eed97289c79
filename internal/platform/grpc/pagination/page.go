// Package pagination normalizes page size and order_by request fields.
package pagination

import (
	"fmt"
	"strings"
)

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// OrderByConfig configures order_by validation.
type OrderByConfig struct {
	Default string
	Allowed []string
}

// ClampPageSize applies defaults and limits for page sizes. The result is
// always at least 1.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	return max(pageSize, 1)
}

// NormalizeOrderBy validates order_by and applies the default. Matching
// ignores case and repeated spaces, so "SEQ  DESC" selects "seq desc".
func NormalizeOrderBy(orderBy string, cfg OrderByConfig) (string, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(orderBy), " "))
	if normalized == "" {
		return cfg.Default, nil
	}
	for _, allowed := range cfg.Allowed {
		if normalized == allowed {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("invalid order_by %q, want one of %s", orderBy, strings.Join(cfg.Allowed, ", "))
}
