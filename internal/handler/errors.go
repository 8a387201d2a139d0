package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"rnimart-be/internal/cart"
	"rnimart-be/internal/catalog"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/order"
	"rnimart-be/internal/user"
	"rnimart-be/internal/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// statusFor maps domain sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrEmptyCategoryName),
		errors.Is(err, catalog.ErrInvalidBundleItem),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, user.ErrPasswordMismatch),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, order.ErrInvalidDeliveryMethod),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, cart.ErrMissingCartID),
		errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest

	case errors.Is(err, order.ErrUnauthenticated),
		errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, order.ErrNotOrderOwner),
		errors.Is(err, user.ErrIdentityMismatch):
		return http.StatusForbidden

	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, catalog.ErrCategoryExists),
		errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, order.ErrPaymentConfirmationNotAllowed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		utils.WriteJSONError(w, "internal server error", code)
		return
	}
	utils.WriteJSONError(w, err.Error(), code)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errInvalidBody)
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
