package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/intake"
	"pipelinetracker/pkg/domain"
)

func TestToHTTPError(t *testing.T) {
	driverErr := errors.New("driver says no")
	cases := map[string]struct {
		err    error
		code   int
		detail string
	}{
		"validation":        {&domain.ValidationError{Entity: domain.EntityStage, Field: "name", Reason: "is required"}, http.StatusUnprocessableEntity, "invalid pipeline_stage: name is required"},
		"reference":         {domain.ReferenceError{Entity: domain.EntityStage, Field: "stage_id", IDs: []string{"s"}}, http.StatusUnprocessableEntity, "stage_id references unknown pipeline_stage: s"},
		"foreign key":       {&domain.ConstraintError{Kind: domain.ConstraintForeignKey, Err: driverErr}, http.StatusUnprocessableEntity, "foreign_key constraint violated"},
		"not null":          {&domain.ConstraintError{Kind: domain.ConstraintNotNull, Err: driverErr}, http.StatusUnprocessableEntity, "not_null constraint violated"},
		"not found":         {domain.NotFoundError{Entity: domain.EntityMethod, ID: "m"}, http.StatusNotFound, "pipeline_method m not found"},
		"file not found":    {fmt.Errorf("%w: x", intake.ErrNotFound), http.StatusNotFound, "stored file not found: x"},
		"unique":            {&domain.ConstraintError{Kind: domain.ConstraintUnique, Err: driverErr}, http.StatusConflict, "conflicts with an existing record"},
		"named unique":      {&domain.ConstraintError{Kind: domain.ConstraintUnique, Constraint: "pipeline_stages_name_key", Err: driverErr}, http.StatusConflict, "conflicts with an existing record (pipeline_stages_name_key)"},
		"storage":           {fmt.Errorf("%w: a.txt: disk full", intake.ErrStorage), http.StatusInternalServerError, "file storage failed: a.txt: disk full"},
		"unknown":           {driverErr, http.StatusInternalServerError, "internal server error"},
		"wrapped not found": {fmt.Errorf("lookup: %w", domain.NotFoundError{Entity: domain.EntityActor, ID: "a"}), http.StatusNotFound, "lookup: responsible_actor a not found"},
		"echo error":        {echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			he := toHTTPError(tc.err)
			if he.Code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, he.Code)
			}
			msg, ok := he.Message.(ErrorMessage)
			if !ok {
				t.Fatalf("expected ErrorMessage body, got %T", he.Message)
			}
			if msg.Detail != tc.detail {
				t.Fatalf("expected detail %q, got %q", tc.detail, msg.Detail)
			}
		})
	}
}

func TestToHTTPErrorKeepsErrorMessages(t *testing.T) {
	orig := NewErrorMessage(http.StatusTeapot, "short and stout", nil, WithAdvice("pour"), WithAdvice(""))
	if got := toHTTPError(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Fatalf("expected the original error back, got %+v", got)
	}
	if msg := orig.Message.(ErrorMessage); msg.Advice != "pour" {
		t.Fatalf("empty advice should not overwrite: %+v", msg)
	}
}

func TestErrorHandlerHead(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/pipeline_stages/x", nil)
	rec := httptest.NewRecorder()
	errorHandler(domain.NotFoundError{Entity: domain.EntityStage, ID: "x"}, e.NewContext(req, rec))
	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected bodiless 404, got %d %q", rec.Code, rec.Body.String())
	}
}
