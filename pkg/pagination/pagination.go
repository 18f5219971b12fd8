package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 200
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with the limit clamped and a non-negative offset.
func Normalize(p Params) Params {
	p.Limit = NormalizeLimit(p.Limit)
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
