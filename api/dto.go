/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface. They decouple the wire contract
  from the engine types: offsets travel as milliseconds, instants as both
  raw milliseconds and RFC3339 where representable, and builder programs
  arrive as a list of cutover-delimited eras.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response: response types returned to clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers. Mode characters travel
  as one-letter strings ("u", "w", "s") and are checked by the builder.

SEE ALSO:
  - handlers.go: uses these types
  - zone/builder.go: the operations a ZoneRequest maps onto
*/
package api

// =============================================================================
// BUILDER PROGRAM TYPES
// =============================================================================

// ZoneRequest is a complete builder program: eras in declared order, each
// opened by its cutover (the first era's cutover may be omitted, meaning
// the beginning of time).
type ZoneRequest struct {
	ID   string       `json:"id"`
	Eras []EraRequest `json:"eras"`
}

// EraRequest configures one cutover-delimited era.
type EraRequest struct {
	Cutover        *AnnualRequest     `json:"cutover,omitempty"`
	StandardOffset int                `json:"standard_offset"`
	FixedSavings   *FixedSavingsField `json:"fixed_savings,omitempty"`
	Rules          []RecurringRequest `json:"rules,omitempty"`
}

// AnnualRequest is an annual formula: month/day/time in a reference mode.
type AnnualRequest struct {
	Year        int    `json:"year"`
	Mode        string `json:"mode"` // "u", "w" or "s"
	Month       int    `json:"month"`
	DayOfMonth  int    `json:"day_of_month"`
	DayOfWeek   int    `json:"day_of_week,omitempty"`
	Advance     bool   `json:"advance,omitempty"`
	MillisOfDay int    `json:"millis_of_day"`
}

// FixedSavingsField pins an era to a fixed savings instead of rules.
type FixedSavingsField struct {
	Name       string `json:"name"`
	SaveMillis int    `json:"save_millis"`
}

// RecurringRequest is one daylight-saving rule.
type RecurringRequest struct {
	Name        string `json:"name"`
	SaveMillis  int    `json:"save_millis"`
	FromYear    int    `json:"from_year"`
	ToYear      int    `json:"to_year"`
	Mode        string `json:"mode"`
	Month       int    `json:"month"`
	DayOfMonth  int    `json:"day_of_month"`
	DayOfWeek   int    `json:"day_of_week,omitempty"`
	Advance     bool   `json:"advance,omitempty"`
	MillisOfDay int    `json:"millis_of_day"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ZoneListResponse lists registered zone ids.
type ZoneListResponse struct {
	Zones []string `json:"zones"`
}

// ZoneResponse summarizes a descriptor.
type ZoneResponse struct {
	ID    string `json:"id"`
	Fixed bool   `json:"fixed"`
}

// OffsetResponse answers an offset query at one instant.
type OffsetResponse struct {
	At             int64  `json:"at"`
	AtUTC          string `json:"at_utc,omitempty"`
	Name           string `json:"name"`
	Offset         int    `json:"offset"`
	StandardOffset int    `json:"standard_offset"`
	Savings        int    `json:"savings"`
}

// TransitionsResponse answers a transition query at one instant. Previous
// and Next equal At when no transition exists in that direction.
type TransitionsResponse struct {
	At       int64 `json:"at"`
	Previous int64 `json:"previous"`
	Next     int64 `json:"next"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
