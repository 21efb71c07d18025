package repair

import "time"

// DateLayout is the wire and storage format for repair dates.
const DateLayout = "2006-01-02"

// Repair represents a single repair record.
type Repair struct {
	ID          int64     `json:"id"`
	CarID       int64     `json:"car_id"`
	CarLabel    string    `json:"car_label"` // Joined in from the cars table
	Description string    `json:"description"`
	CostCents   int64     `json:"cost_cents"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DateString returns the service date in DateLayout form.
func (r *Repair) DateString() string {
	return r.Date.Format(DateLayout)
}

// Params carries the raw form values for creating or updating a repair.
// Cost and Date arrive as entered; validation parses them. A blank Date
// means today. CarID zero means no car was chosen.
type Params struct {
	CarID       int64  `json:"car_id"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	Date        string `json:"date"`
}

// SearchCriteria holds the optional report filters. Zero ids and zero
// times mean the filter is off; nil cost bounds mean unbounded.
type SearchCriteria struct {
	OwnerID      int64
	CarID        int64
	DateFrom     time.Time
	DateTo       time.Time
	MinCostCents *int64
	MaxCostCents *int64
}

// ReportRow is one line of a repair report, with the car and owner
// context joined in.
type ReportRow struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CostCents   int64     `json:"cost_cents"`
	CarLabel    string    `json:"car_label"`
	OwnerName   string    `json:"owner_name"`
}

// TotalCents sums the cost of a report.
func TotalCents(rows []ReportRow) int64 {
	var total int64
	for i := range rows {
		total += rows[i].CostCents
	}
	return total
}
