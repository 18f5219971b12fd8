package advisor

// Advisory is the technical assessment shown after device analysis.
type Advisory struct {
	Difficulty    string `json:"difficulty"`
	EstimatedTime string `json:"estimatedTime"`
	SuccessRate   string `json:"successRate"`
	Message       string `json:"message"`
}

// FailureKind classifies why an analysis call degraded to a fallback.
// The kind is decided where the failure is observed, never recovered
// from message text later.
type FailureKind string

const (
	FailureKindNone      FailureKind = ""
	FailureKindConfig    FailureKind = "config"
	FailureKindAuth      FailureKind = "auth"
	FailureKindRateLimit FailureKind = "rate_limit"
	FailureKindNetwork   FailureKind = "network"
	FailureKindMalformed FailureKind = "malformed"
	FailureKindUnknown   FailureKind = "unknown"
)

func (k FailureKind) String() string {
	return string(k)
}
