package api

import (
	"encoding/json"
	"net/http"

	"fleetcore/internal/car"
)

// handleListCars returns all cars with owner names joined in.
//
// GET /api/v1/cars
func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.cars.List(r.Context())
	if err != nil {
		s.logger.Error("listing cars failed", "error", err)
		writeInternalError(w, "failed to list cars")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cars":  cars,
		"count": len(cars),
	})
}

// handleCreateCar registers a new car.
//
// POST /api/v1/cars
func (s *Server) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var p car.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.cars.Create(r.Context(), p)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("creating car failed", "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetCar returns a single car.
//
// GET /api/v1/cars/{id}
func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid car id")
		return
	}

	c, err := s.cars.GetCar(r.Context(), id)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("fetching car failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleUpdateCar updates an existing car.
//
// PUT /api/v1/cars/{id}
func (s *Server) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid car id")
		return
	}

	var p car.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.cars.Update(r.Context(), id, p)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("updating car failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteCar deletes a car.
// Cars with repair records cannot be deleted.
//
// DELETE /api/v1/cars/{id}
func (s *Server) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid car id")
		return
	}

	if err := s.cars.Delete(r.Context(), id); err != nil {
		if isInternal(err) {
			s.logger.Error("deleting car failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListCarRepairs returns the repair history of one car, newest first.
//
// GET /api/v1/cars/{id}/repairs
func (s *Server) handleListCarRepairs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeBadRequest(w, "invalid car id")
		return
	}

	repairs, err := s.repairs.ListByCar(r.Context(), id)
	if err != nil {
		if isInternal(err) {
			s.logger.Error("listing car repairs failed", "id", id, "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"repairs": repairs,
		"count":   len(repairs),
	})
}

// handleCarOptions returns picker entries for car selection,
// sorted by brand then model.
//
// GET /api/v1/cars/options
func (s *Server) handleCarOptions(w http.ResponseWriter, _ *http.Request) {
	opts := s.cars.Options()
	writeJSON(w, http.StatusOK, map[string]any{
		"options": opts,
		"count":   len(opts),
	})
}
