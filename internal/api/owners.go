package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fleetcore/internal/owner"
)

// parseIDParam extracts a positive integer {id} from the route.
func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleListOwners returns all owners.
//
// GET /api/v1/owners
func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.owners.List(r.Context())
	if err != nil {
		s.logger.Error("listing owners failed", "error", err)
		writeInternalError(w, "failed to list owners")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"owners": owners,
		"count":  len(owners),
	})
}

// handleCreateOwner creates a new owner.
//
// POST /api/v1/owners
func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	var p owner.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.owners.Create(r.Context(), p)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("creating owner failed", "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetOwner returns a single owner.
//
// GET /api/v1/owners/{id}
func (s *Server) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid owner id")
		return
	}

	o, err := s.owners.GetOwner(r.Context(), id)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("fetching owner failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleUpdateOwner updates an existing owner.
//
// PUT /api/v1/owners/{id}
func (s *Server) handleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid owner id")
		return
	}

	var p owner.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.owners.Update(r.Context(), id, p)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("updating owner failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteOwner deletes an owner.
// Owners with registered cars cannot be deleted.
//
// DELETE /api/v1/owners/{id}
func (s *Server) handleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid owner id")
		return
	}

	if err := s.owners.Delete(r.Context(), id); err != nil {
		if isInternal(err) {
			s.logger.Error("deleting owner failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOwnerOptions returns picker entries for owner selection.
//
// GET /api/v1/owners/options
func (s *Server) handleOwnerOptions(w http.ResponseWriter, _ *http.Request) {
	opts := s.owners.Options()
	writeJSON(w, http.StatusOK, map[string]any{
		"options": opts,
		"count":   len(opts),
	})
}
