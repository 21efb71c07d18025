package api

import (
	"encoding/json"
	"net/http"

	"fleetcore/internal/repair"
)

// handleListRepairs returns all repairs, newest first.
//
// GET /api/v1/repairs
func (s *Server) handleListRepairs(w http.ResponseWriter, r *http.Request) {
	repairs, err := s.repairs.List(r.Context())
	if err != nil {
		s.logger.Error("listing repairs failed", "error", err)
		writeInternalError(w, "failed to list repairs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"repairs": repairs,
		"count":   len(repairs),
	})
}

// handleCreateRepair records a new repair. A blank date defaults to today.
//
// POST /api/v1/repairs
func (s *Server) handleCreateRepair(w http.ResponseWriter, r *http.Request) {
	var p repair.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.repairs.Create(r.Context(), p)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("creating repair failed", "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetRepair returns a single repair.
//
// GET /api/v1/repairs/{id}
func (s *Server) handleGetRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid repair id")
		return
	}

	rec, err := s.repairs.GetRepair(r.Context(), id)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("fetching repair failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleUpdateRepair updates an existing repair.
//
// PUT /api/v1/repairs/{id}
func (s *Server) handleUpdateRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid repair id")
		return
	}

	var p repair.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.repairs.Update(r.Context(), id, p)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("updating repair failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteRepair deletes a repair.
//
// DELETE /api/v1/repairs/{id}
func (s *Server) handleDeleteRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid repair id")
		return
	}

	if err := s.repairs.Delete(r.Context(), id); err != nil {
		if isInternal(err) {
			s.logger.Error("deleting repair failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
