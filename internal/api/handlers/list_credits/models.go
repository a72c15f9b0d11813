package list_credits

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

const maxPageSize = 500

// ParseFilter собирает фильтр из query параметров
// studentId, category, status (через запятую), expiresFrom, expiresTo (RFC3339), limit, offset
func ParseFilter(tenantID string, q url.Values) (domain.CreditFilter, error) {
	filter := domain.CreditFilter{TenantID: tenantID}

	if v := strings.TrimSpace(q.Get("studentId")); v != "" {
		filter.StudentID = &v
	}
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		filter.Category = &v
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		for _, s := range strings.Split(v, ",") {
			status := domain.CreditStatus(strings.TrimSpace(s))
			if !status.IsValid() {
				return filter, fmt.Errorf("unknown status %q", s)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	var err error
	if filter.ExpiresFrom, err = parseTime(q, "expiresFrom"); err != nil {
		return filter, err
	}
	if filter.ExpiresTo, err = parseTime(q, "expiresTo"); err != nil {
		return filter, err
	}
	if filter.Limit, err = parseInt(q, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseInt(q, "offset"); err != nil {
		return filter, err
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	return filter, nil
}

func parseTime(q url.Values, key string) (*time.Time, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339: %w", key, err)
	}
	t = t.UTC()
	return &t, nil
}

func parseInt(q url.Values, key string) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
