package orders

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jithuth/roneywo/pkg/enums"
)

// Filter narrows the admin order listing. Zero values mean "no
// constraint"; all constraints AND together.
type Filter struct {
	// Search matches a substring of the order id or the device IMEI,
	// case-insensitively.
	Search string
	// Email matches a substring of the customer email, case-insensitively.
	Email string
	// Status matches exactly when set.
	Status enums.OrderStatus
	// StartDate keeps orders created on or after the given day.
	StartDate *time.Time
	// EndDate keeps orders created up to and including the given day.
	EndDate *time.Time
}

// apply appends the filter's WHERE clauses to the query.
func (f Filter) apply(query *gorm.DB) *gorm.DB {
	if needle := strings.ToLower(strings.TrimSpace(f.Search)); needle != "" {
		pattern := "%" + needle + "%"
		query = query.Where(
			"LOWER(CAST(id AS TEXT)) LIKE ? OR LOWER(device_imei) LIKE ?",
			pattern, pattern,
		)
	}
	if needle := strings.ToLower(strings.TrimSpace(f.Email)); needle != "" {
		query = query.Where("LOWER(user_email) LIKE ?", "%"+needle+"%")
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", startOfDay(*f.StartDate))
	}
	if f.EndDate != nil {
		query = query.Where("created_at <= ?", endOfDay(*f.EndDate))
	}
	return query
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay pushes the bound to the last instant of the calendar day, so
// an end date filter includes orders created during that day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
