package adaptor

import (
	"errors"
	"net/http"

	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

// respondError maps a service error onto the HTTP surface. Internal details
// never leak to clients; the full chain goes to the log instead.
func respondError(w http.ResponseWriter, log *zap.Logger, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Error("Unhandled error", zap.Error(err))
		utils.ResponseInternalError(w, "an unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case apperrors.KindValidation:
		utils.ResponseBadRequest(w, appErr.Message, map[string]string{"code": appErr.Code})
	case apperrors.KindBusinessRule:
		utils.ResponseBadRequest(w, appErr.Message, map[string]string{"code": appErr.Code})
	case apperrors.KindNotFound:
		utils.ResponseNotFound(w, appErr.Message)
	case apperrors.KindIdempotencyConflict:
		utils.ResponseConflict(w, appErr.Message)
	case apperrors.KindExternalService:
		log.Error("External service failure", zap.Error(err))
		utils.ResponseBadGateway(w, appErr.Message)
	default:
		log.Error("Internal error", zap.Error(err))
		utils.ResponseInternalError(w, "an unexpected error occurred")
	}
}
