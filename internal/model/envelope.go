package model

import "net/http"

// Status is the value of the "status" field in every response envelope.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusNotFound Status = "not_found"
)

type errorKind int

const (
	kindNone errorKind = iota
	kindValidation
	kindBackend
	kindNotFound
)

// Envelope is the common header of every response. Failures are values,
// not Go errors: a bad entity code comes back as a populated envelope so
// callers always get a JSON body.
type Envelope struct {
	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Message      string `json:"message,omitempty"`

	kind errorKind
}

// OK is the success envelope.
func OK() Envelope { return Envelope{Status: StatusSuccess} }

// ValidationError marks rejected input.
func ValidationError(msg string) Envelope {
	return Envelope{Status: StatusError, ErrorMessage: msg, kind: kindValidation}
}

// BackendError marks a storage-layer failure.
func BackendError(msg string) Envelope {
	return Envelope{Status: StatusError, ErrorMessage: msg, kind: kindBackend}
}

// NotFound marks an absent entity or county.
func NotFound(msg string) Envelope {
	return Envelope{Status: StatusNotFound, Message: msg, kind: kindNotFound}
}

// Env implements Response.
func (e Envelope) Env() Envelope { return e }

// IsSuccess reports whether the envelope carries a success status.
func (e Envelope) IsSuccess() bool { return e.Status == StatusSuccess }

// HTTPStatus maps the envelope onto an HTTP status code.
func (e Envelope) HTTPStatus() int {
	switch e.kind {
	case kindValidation:
		return http.StatusBadRequest
	case kindBackend:
		return http.StatusInternalServerError
	case kindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

// Response is anything carrying an Envelope. Service methods return
// Response so the HTTP layer can map any payload to a status code.
type Response interface {
	Env() Envelope
}

// SearchResult is the payload of an entity search.
type SearchResult struct {
	Envelope
	Count    int             `json:"count"`
	Entities []EntitySummary `json:"entities"`
}

// EntityResult wraps a single entity detail.
type EntityResult struct {
	Envelope
	Entity EntityDetail `json:"entity"`
}

// RevenueResult is the revenue breakdown for one entity.
type RevenueResult struct {
	Envelope
	Code         string     `json:"code"`
	TotalRevenue float64    `json:"total_revenue"`
	ByCategory   []LineItem `json:"by_category"`
}

// ExpenditureResult is the expenditure breakdown for one entity.
type ExpenditureResult struct {
	Envelope
	Code             string     `json:"code"`
	TotalExpenditure float64    `json:"total_expenditure"`
	ByCategory       []LineItem `json:"by_category"`
}

// FundBalanceResult is the fund balance breakdown for one entity.
type FundBalanceResult struct {
	Envelope
	Code         string     `json:"code"`
	FundBalances []LineItem `json:"fund_balances"`
}

// DebtResult is the debt detail for one entity.
type DebtResult struct {
	Envelope
	Code      string     `json:"code"`
	TotalDebt float64    `json:"total_debt"`
	Details   DebtRecord `json:"details"`
}

// PensionResult maps pension system name to its reported position.
type PensionResult struct {
	Envelope
	Code           string                   `json:"code"`
	PensionSystems map[string]PensionSystem `json:"pension_systems"`
}

// CountyEntitiesResult lists the entities of a county.
type CountyEntitiesResult struct {
	Envelope
	County           string         `json:"county"`
	EntityTypeFilter *string        `json:"entity_type_filter"`
	Count            int            `json:"count"`
	Entities         []CountyEntity `json:"entities"`
}

// CountySummaryResult wraps a county aggregate.
type CountySummaryResult struct {
	Envelope
	Summary CountySummary `json:"summary"`
}

// PeerResult lists population-similar entities.
type PeerResult struct {
	Envelope
	PeerCount int          `json:"peer_count"`
	Peers     []PeerEntity `json:"peers"`
}

// RankFilters echoes the filters applied to a ranking.
type RankFilters struct {
	EntityType *string `json:"entity_type"`
	County     *string `json:"county"`
}

// RankResult is a metric ranking.
type RankResult struct {
	Envelope
	Metric   string         `json:"metric"`
	Order    string         `json:"order"`
	Filters  RankFilters    `json:"filters"`
	Count    int            `json:"count"`
	Rankings []RankedEntity `json:"rankings"`
}

// CompareResult is a side-by-side comparison of several entities.
type CompareResult struct {
	Envelope
	EntityCount int             `json:"entity_count"`
	Comparison  []ComparisonRow `json:"comparison"`
}

// HealthScoreResult is the fiscal health assessment of one entity.
type HealthScoreResult struct {
	Envelope
	EntityCode string                  `json:"entity_code"`
	EntityName string                  `json:"entity_name"`
	Metrics    map[string]HealthMetric `json:"metrics"`
	RawValues  HealthRawValues         `json:"raw_values"`
}

// HealthResponse is the liveness payload for the service itself. It does
// not use the envelope: its shape predates it.
type HealthResponse struct {
	Status           string `json:"status"`
	DataSource       string `json:"data_source"`
	ConnectionTested bool   `json:"connection_tested"`
	Version          string `json:"version"`
	Timestamp        string `json:"timestamp"`
}
