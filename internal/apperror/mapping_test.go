package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHTTPStatusAndGRPCCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   codes.Code
	}{
		{"not found", NotFound("product", "p1"), http.StatusNotFound, codes.NotFound},
		{"wrapped not found", fmt.Errorf("failed to load: %w", NotFound("order", "o1")), http.StatusNotFound, codes.NotFound},
		{"stock", &StockError{ProductID: "p1", Available: 1, Requested: 2}, http.StatusConflict, codes.FailedPrecondition},
		{"validation", Validation("quantity", "must be positive"), http.StatusBadRequest, codes.InvalidArgument},
		{"invalid status", ErrInvalidStatus, http.StatusBadRequest, codes.InvalidArgument},
		{"empty order", ErrEmptyOrder, http.StatusBadRequest, codes.InvalidArgument},
		{"forbidden", ErrForbidden, http.StatusForbidden, codes.PermissionDenied},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, codes.Unauthenticated},
		{"conflict", Conflict("sku %s taken", "A-1"), http.StatusConflict, codes.AlreadyExists},
		{"in use", InUse("category has products"), http.StatusConflict, codes.FailedPrecondition},
		{"webhook", ErrWebhookNotConfigured, http.StatusBadRequest, codes.FailedPrecondition},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, GRPCCode(tt.err))
			assert.Equal(t, tt.code, status.Code(ToGRPC(tt.err)))
		})
	}
	assert.NoError(t, ToGRPC(nil))
}

func TestMessageID(t *testing.T) {
	id, data := MessageID(NotFound("product", "p1"))
	assert.Equal(t, "not_found", id)
	assert.Equal(t, "product", data["Entity"])
	assert.Equal(t, "p1", data["ID"])

	id, data = MessageID(&StockError{ProductID: "p1", ProductName: "Hammer", Available: 3, Requested: 7})
	assert.Equal(t, "insufficient_stock", id)
	assert.Equal(t, "Hammer", data["Product"])
	assert.Equal(t, 3, data["Available"])
	assert.Equal(t, 7, data["Requested"])

	id, data = MessageID(Conflict("product with SKU %s already exists", "A-1"))
	assert.Equal(t, "conflict", id)
	assert.Equal(t, "product with SKU A-1 already exists", data["Detail"])

	id, data = MessageID(errors.New("boom"))
	assert.Equal(t, "internal_error", id)
	assert.Nil(t, data)
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "insufficient stock for p1: available 1, requested 2", (&StockError{ProductID: "p1", Available: 1, Requested: 2}).Error())
	assert.Equal(t, "quantity: must be positive", Validation("quantity", "must be positive").Error())
	assert.Equal(t, "must be positive", Validation("", "must be positive").Error())
	assert.Equal(t, "category has products", Detail(InUse("category has products")))
	assert.Equal(t, "plain", Detail(errors.New("plain")))
}
