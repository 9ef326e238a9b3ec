package apperror

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type mapping struct {
	sentinel  error
	status    int
	code      codes.Code
	messageID string
}

var mappings = []mapping{
	{ErrNotFound, http.StatusNotFound, codes.NotFound, "not_found"},
	{ErrInsufficientStock, http.StatusConflict, codes.FailedPrecondition, "insufficient_stock"},
	{ErrInvalidStatus, http.StatusBadRequest, codes.InvalidArgument, "invalid_status"},
	{ErrEmptyOrder, http.StatusBadRequest, codes.InvalidArgument, "empty_order"},
	{ErrValidation, http.StatusBadRequest, codes.InvalidArgument, "validation_failed"},
	{ErrWebhookNotConfigured, http.StatusBadRequest, codes.FailedPrecondition, "webhook_not_configured"},
	{ErrForbidden, http.StatusForbidden, codes.PermissionDenied, "forbidden"},
	{ErrUnauthorized, http.StatusUnauthorized, codes.Unauthenticated, "unauthorized"},
	{ErrConflict, http.StatusConflict, codes.AlreadyExists, "conflict"},
	{ErrInUse, http.StatusConflict, codes.FailedPrecondition, "in_use"},
}

func lookup(err error) (mapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.sentinel) {
			return m, true
		}
	}
	return mapping{}, false
}

func HTTPStatus(err error) int {
	if m, ok := lookup(err); ok {
		return m.status
	}
	return http.StatusInternalServerError
}

func GRPCCode(err error) codes.Code {
	if m, ok := lookup(err); ok {
		return m.code
	}
	return codes.Internal
}

// ToGRPC converts err into a status error carrying the mapped code.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(GRPCCode(err), err.Error())
}

// MessageID returns the i18n message id and its template data.
func MessageID(err error) (string, map[string]interface{}) {
	m, ok := lookup(err)
	if !ok {
		return "internal_error", nil
	}

	data := map[string]interface{}{"Detail": Detail(err), "Entity": "resource", "ID": ""}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		data["Entity"] = nf.Entity
		data["ID"] = nf.ID
	}
	var se *StockError
	if errors.As(err, &se) {
		product := se.ProductName
		if product == "" {
			product = se.ProductID
		}
		data["Product"] = product
		data["Available"] = se.Available
		data["Requested"] = se.Requested
	}
	return m.messageID, data
}
