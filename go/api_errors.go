package posserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/komsyte/pos-engine/internal/domains/billing/application"
	billingdomain "github.com/komsyte/pos-engine/internal/domains/billing/domain"
	catalogapp "github.com/komsyte/pos-engine/internal/domains/catalog/application"
	catalogdomain "github.com/komsyte/pos-engine/internal/domains/catalog/domain"
	plansdomain "github.com/komsyte/pos-engine/internal/domains/plans/domain"
	restaurantapp "github.com/komsyte/pos-engine/internal/domains/restaurant/application"
	restaurantdomain "github.com/komsyte/pos-engine/internal/domains/restaurant/domain"
	"github.com/komsyte/pos-engine/internal/gateway"
	apierrors "github.com/komsyte/pos-engine/internal/shared/errors"
)

// responder maps engine errors onto RFC 7807 responses. Order matters: the
// specific mappers run before the generic fallbacks.
var responder = apierrors.NewChainedResponder("",
	mapPlanRefusal,
	mapGatewayError,
	mapValidationError,
	mapNotFoundError,
	mapConflictError,
)

// respondServiceError renders an application or domain error.
func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondError preserves plain status call sites for bind failures.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	responder.Respond(c, problem)
}

func mapPlanRefusal(err error) (apierrors.ProblemDetail, bool) {
	var refusal *plansdomain.RefusalError
	if !errors.As(err, &refusal) {
		return apierrors.ProblemDetail{}, false
	}
	problem := apierrors.NewPlanRefusalProblem(string(refusal.Plan), string(refusal.Capability), refusal.Reason)
	return problem, true
}

func mapGatewayError(err error) (apierrors.ProblemDetail, bool) {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		return apierrors.ProblemDetail{}, false
	}
	switch gwErr.Kind {
	case gateway.KindNotFound:
		return apierrors.ErrNotFound.WithDetail(gwErr.RemoteMessage("resource not found on backend")), true
	case gateway.KindNetwork:
		return apierrors.ErrUpstreamUnreachable.WithDetail("the billing backend could not be reached; please retry"), true
	default:
		return apierrors.ErrUpstreamRejected.WithDetail(gwErr.RemoteMessage("the billing backend rejected the operation")), true
	}
}

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidQuantity),
		errors.Is(err, billingdomain.ErrLineOutOfRange),
		errors.Is(err, catalogapp.ErrInvalidQuantity),
		errors.Is(err, catalogdomain.ErrEmptyBarcode),
		errors.Is(err, catalogdomain.ErrEmptyName),
		errors.Is(err, catalogdomain.ErrNegativePrice):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFoundError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, billingapp.ErrItemNotFound),
		errors.Is(err, restaurantapp.ErrItemNotFound),
		errors.Is(err, restaurantdomain.ErrUnknownTable):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflictError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, billingapp.ErrOutOfStock),
		errors.Is(err, billingapp.ErrOperationInFlight),
		errors.Is(err, billingdomain.ErrEmptyOrder),
		errors.Is(err, billingdomain.ErrLineCommitted),
		errors.Is(err, restaurantapp.ErrOperationInFlight),
		errors.Is(err, restaurantapp.ErrNoTableSelected),
		errors.Is(err, restaurantapp.ErrNoNewItems),
		errors.Is(err, restaurantapp.ErrSelectionChanged):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
