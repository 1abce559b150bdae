package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("balance changed", nil)
	mapped := ToDomainError(original)
	if mapped.Code != "CONFLICT" || mapped.HTTPStatus != http.StatusConflict {
		t.Fatalf("domain errors must map to themselves, got %+v", mapped)
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("pgx.ErrNoRows should map to NOT_FOUND, got %+v", mapped)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection refused")
	mapped := ToDomainError(cause)
	if mapped.Code != "PERSISTENCE_ERROR" || mapped.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("unknown errors should map to PERSISTENCE_ERROR, got %+v", mapped)
	}
	if !errors.Is(mapped, cause) {
		t.Fatalf("the cause must stay reachable through Unwrap")
	}
}

func TestMapErrorNil(t *testing.T) {
	if err := MapError(nil); err != nil {
		t.Fatalf("MapError(nil) must be nil, got %v", err)
	}
}

func TestErrorCodesAndStatuses(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{NewPermissionError("no"), "PERMISSION_DENIED", http.StatusForbidden},
		{NewDuplicate("bank", "BDO"), "DUPLICATE", http.StatusConflict},
		{NewNonZeroBalance("nonzero", 5), "NON_ZERO_BALANCE", http.StatusConflict},
		{NewBankInUse("BDO", nil), "BANK_IN_USE", http.StatusConflict},
		{NewSelfOperation("no self ops"), "SELF_OPERATION", http.StatusForbidden},
		{NewConflict("stale", nil), "CONFLICT", http.StatusConflict},
		{NewNotFound("user", nil), "NOT_FOUND", http.StatusNotFound},
		{NewUnauthorized("who"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewPersistenceError(errors.New("down")), "PERSISTENCE_ERROR", http.StatusBadGateway},
	}
	for _, tc := range cases {
		var de *DomainError
		if !errors.As(tc.err, &de) {
			t.Fatalf("%v is not a DomainError", tc.err)
		}
		if de.Code != tc.code || de.HTTPStatus != tc.status {
			t.Fatalf("expected %s/%d, got %s/%d", tc.code, tc.status, de.Code, de.HTTPStatus)
		}
	}
}
