package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"motoreg/internal/registration/service"
	"motoreg/internal/registration/store"
)

const adminPassword = "secret-password"

func newRouter(t *testing.T) (http.Handler, *store.InMemory) {
	t.Helper()
	memory := store.NewInMemory()
	svc := service.New(memory, adminPassword)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, memory
}

func registrationPayload(nationalID, plate string) map[string]any {
	return map[string]any{
		"vehicleRegistration": map[string]any{
			"registrationNumber": "REG-" + plate,
			"issueDate":          "2021-02-02",
			"expiryDate":         "2026-02-02",
			"owner":              map[string]any{"nationalId": nationalID},
			"vehicle": map[string]any{
				"make":         "Volvo",
				"model":        "V60",
				"year":         2021,
				"color":        "blue",
				"vin":          "VIN-" + plate,
				"engineNumber": "ENG-" + plate,
				"plateNumber":  plate,
				"fuelType":     "petrol",
				"vehicleType":  "Personal",
			},
		},
		"driversLicense": map[string]any{
			"licenseNumber": "DL-" + nationalID,
			"issueDate":     "2015-06-01",
			"expiryDate":    "2030-06-01",
			"categories":    []string{"A", "B"},
			"holder": map[string]any{
				"firstName":   "Ada",
				"lastName":    "Lindqvist",
				"dateOfBirth": "1990-03-14",
				"nationalId":  nationalID,
			},
		},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateRecord(t *testing.T) {
	router, _ := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/register/createRecord",
		registrationPayload("NID-1", "ABC-123"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		RegCode string `json:"reg_code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Status || resp.Message != "Registration successful" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.RegCode == "" {
		t.Fatalf("expected a reg code in the response")
	}
}

func TestCreateRecordRejectsIncompleteDocument(t *testing.T) {
	router, _ := newRouter(t)

	payload := registrationPayload("NID-1", "ABC-123")
	delete(payload, "driversLicense")
	rec := doJSON(t, router, http.MethodPost, "/api/register/createRecord", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRecordRejectsMalformedJSON(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/register/createRecord",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestUpdateRecord(t *testing.T) {
	router, _ := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/register/createRecord",
		registrationPayload("NID-1", "ABC-123"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup registration failed: %d", rec.Code)
	}
	var created struct {
		RegCode string `json:"reg_code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	t.Run("wrong admin password is 401", func(t *testing.T) {
		payload := registrationPayload("NID-1", "ABC-123")
		payload["regCode"] = created.RegCode
		payload["adminPassword"] = "wrong"
		rec := doJSON(t, router, http.MethodPut, "/api/register/updateRecord", payload)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown reg code is 404", func(t *testing.T) {
		payload := registrationPayload("NID-1", "ABC-123")
		payload["regCode"] = uuid.NewString()
		payload["adminPassword"] = adminPassword
		rec := doJSON(t, router, http.MethodPut, "/api/register/updateRecord", payload)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("valid update succeeds with new reg code", func(t *testing.T) {
		payload := registrationPayload("NID-1", "ABC-123")
		payload["regCode"] = created.RegCode
		payload["adminPassword"] = adminPassword
		rec := doJSON(t, router, http.MethodPut, "/api/register/updateRecord", payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			RegCode string `json:"reg_code"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode update response: %v", err)
		}
		if resp.RegCode == "" || resp.RegCode == created.RegCode {
			t.Fatalf("expected a fresh reg code, got %q", resp.RegCode)
		}
	})
}

func TestVehicleDelete(t *testing.T) {
	router, memory := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/register/createRecord",
		registrationPayload("NID-1", "ABC-123"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup registration failed: %d", rec.Code)
	}
	person, err := memory.FindByNationalID(context.Background(), "NID-1")
	if err != nil {
		t.Fatalf("load person: %v", err)
	}
	vehicleID := person.Vehicles[0].ID.String()

	t.Run("missing vehicle id is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/register/vehicleDelete",
			map[string]string{"adminPassword": adminPassword})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("wrong admin password is 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/register/vehicleDelete",
			map[string]string{"vehicleId": vehicleID, "adminPassword": "wrong"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown vehicle id is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/register/vehicleDelete",
			map[string]string{"vehicleId": uuid.NewString(), "adminPassword": adminPassword})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("valid delete succeeds", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/register/vehicleDelete",
			map[string]string{"vehicleId": vehicleID, "adminPassword": adminPassword})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Status  bool   `json:"status"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Status {
			t.Fatalf("expected status true, got %+v", resp)
		}
	})
}
