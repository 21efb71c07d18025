package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// createOwner posts an owner and fails the test on any non-201 response.
func createOwner(t *testing.T, router http.Handler, name string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners", strings.NewReader(`{"name": "`+name+`"}`))
	w, _ := doJSON(t, router, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create owner %s status = %d; body: %s", name, w.Code, w.Body.String())
	}
}

// createCar posts a car and fails the test on any non-201 response.
func createCar(t *testing.T, router http.Handler, payload string) map[string]any {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cars", strings.NewReader(payload))
	w, body := doJSON(t, router, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create car status = %d; body: %s", w.Code, w.Body.String())
	}
	return body
}

func TestCreateAndGetCar(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")
	created := createCar(t, router, `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`)

	if created["registration_number"] != "AB12CDE" {
		t.Errorf("registration_number = %v, want AB12CDE", created["registration_number"])
	}
	if created["owner_name"] != "Ana Pop" {
		t.Errorf("owner_name = %v, want Ana Pop", created["owner_name"])
	}
	if int(created["year"].(float64)) != 2019 {
		t.Errorf("year = %v, want 2019", created["year"])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cars/1", nil)
	w, got := doJSON(t, router, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", w.Code, http.StatusOK)
	}
	if got["brand"] != "Dacia" {
		t.Errorf("brand = %v, want Dacia", got["brand"])
	}
}

func TestCreateCar_ValidationError(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")

	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "empty registration",
			payload: `{"registration_number": "", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`,
		},
		{
			name:    "year before first automobile",
			payload: `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "1885", "owner_id": 1}`,
		},
		{
			name:    "year not a number",
			payload: `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "19xx", "owner_id": 1}`,
		},
		{
			name:    "no owner selected",
			payload: `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cars", strings.NewReader(tt.payload))
			w, _ := doJSON(t, router, req)

			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
			}
		})
	}
}

func TestCreateCar_DuplicateRegistration(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")
	createCar(t, router, `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`)

	// Same registration, different case
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cars", strings.NewReader(
		`{"registration_number": "ab12cde", "brand": "Skoda", "model": "Octavia", "year": "2021", "owner_id": 1}`))
	w, body := doJSON(t, router, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
	if body["code"] != ErrCodeConflict {
		t.Errorf("code = %v, want %v", body["code"], ErrCodeConflict)
	}
}

func TestCreateCar_UnknownOwner(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cars", strings.NewReader(
		`{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 42}`))
	w, _ := doJSON(t, router, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
}

func TestUpdateCar(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")
	createOwner(t, router, "Mira Ilie")
	createCar(t, router, `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`)

	// Reassign to the second owner, keep the registration
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cars/1", strings.NewReader(
		`{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 2}`))
	w, updated := doJSON(t, router, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if updated["owner_name"] != "Mira Ilie" {
		t.Errorf("owner_name = %v, want Mira Ilie", updated["owner_name"])
	}
}

func TestDeleteCar_BlockedByRepairs(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")
	createCar(t, router, `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/repairs", strings.NewReader(
		`{"car_id": 1, "description": "brake pads", "cost": "120.00", "date": "2024-02-10"}`))
	w, _ := doJSON(t, router, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create repair status = %d; body: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/cars/1", nil)
	w, _ = doJSON(t, router, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestListCarRepairs(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")
	createCar(t, router, `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`)
	createCar(t, router, `{"registration_number": "CD34EFG", "brand": "Skoda", "model": "Fabia", "year": "2021", "owner_id": 1}`)

	for _, payload := range []string{
		`{"car_id": 1, "description": "brake pads", "cost": "120.00", "date": "2024-02-10"}`,
		`{"car_id": 1, "description": "oil change", "cost": "45.00", "date": "2024-05-20"}`,
		`{"car_id": 2, "description": "tyres", "cost": "260.00", "date": "2024-05-20"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/repairs", strings.NewReader(payload))
		w, _ := doJSON(t, router, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create repair status = %d; body: %s", w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cars/1/repairs", nil)
	w, body := doJSON(t, router, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if int(body["count"].(float64)) != 2 {
		t.Fatalf("count = %v, want 2", body["count"])
	}

	repairs := body["repairs"].([]any)
	newest := repairs[0].(map[string]any)
	if newest["description"] != "oil change" {
		t.Errorf("first repair = %v, want oil change (newest first)", newest["description"])
	}
}

func TestCarOptions(t *testing.T) {
	srv := newTestServer(t)
	router := srv.buildRouter()

	createOwner(t, router, "Ana Pop")
	createCar(t, router, `{"registration_number": "CD34EFG", "brand": "Skoda", "model": "Fabia", "year": "2021", "owner_id": 1}`)
	createCar(t, router, `{"registration_number": "AB12CDE", "brand": "Dacia", "model": "Logan", "year": "2019", "owner_id": 1}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cars/options", nil)
	w, body := doJSON(t, router, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	opts := body["options"].([]any)
	if len(opts) != 2 {
		t.Fatalf("options count = %d, want 2", len(opts))
	}
	first := opts[0].(map[string]any)
	if first["label"] != "Dacia Logan (AB12CDE)" {
		t.Errorf("first option = %v, want Dacia Logan (AB12CDE)", first["label"])
	}
}
