package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fleetcore/internal/repair"
)

// handleRepairReport runs the repair report query. All filters are
// optional query parameters; costs are decimal money strings and dates
// are YYYY-MM-DD.
//
// GET /api/v1/reports/repairs?owner_id=&car_id=&date_from=&date_to=&min_cost=&max_cost=
func (s *Server) handleRepairReport(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseReportQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rows, err := s.repairs.Search(r.Context(), criteria)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("repair report failed", "error", err)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows":        rows,
		"count":       len(rows),
		"total_cents": repair.TotalCents(rows),
	})
}

// parseReportQuery converts query parameters into search criteria.
func parseReportQuery(r *http.Request) (repair.SearchCriteria, error) {
	var c repair.SearchCriteria
	q := r.URL.Query()

	if v := q.Get("owner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c, fmt.Errorf("invalid owner_id %q", v)
		}
		c.OwnerID = id
	}
	if v := q.Get("car_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c, fmt.Errorf("invalid car_id %q", v)
		}
		c.CarID = id
	}
	if v := q.Get("date_from"); v != "" {
		d, err := time.Parse(repair.DateLayout, v)
		if err != nil {
			return c, fmt.Errorf("invalid date_from %q (want YYYY-MM-DD)", v)
		}
		c.DateFrom = d
	}
	if v := q.Get("date_to"); v != "" {
		d, err := time.Parse(repair.DateLayout, v)
		if err != nil {
			return c, fmt.Errorf("invalid date_to %q (want YYYY-MM-DD)", v)
		}
		c.DateTo = d
	}
	if v := q.Get("min_cost"); v != "" {
		cents, err := repair.ParseCost(v)
		if err != nil {
			return c, fmt.Errorf("invalid min_cost %q", v)
		}
		c.MinCostCents = &cents
	}
	if v := q.Get("max_cost"); v != "" {
		cents, err := repair.ParseCost(v)
		if err != nil {
			return c, fmt.Errorf("invalid max_cost %q", v)
		}
		c.MaxCostCents = &cents
	}

	return c, nil
}
