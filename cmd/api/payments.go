package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain/orders"
	"storefront/internal/mailer"
	"storefront/internal/payments"
)

type CreatePaymentPayload struct {
	OrderCode string `json:"order_code" validate:"required"`
}

type CreatePaymentResponse struct {
	PaymentURL string `json:"payment_url"`
}

func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	paymentURL, err := app.payments.CreatePaymentURL(r.Context(), payload.OrderCode, r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrOrderNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	resp := CreatePaymentResponse{PaymentURL: paymentURL}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// vnpayReturnHandler receives the customer's browser back from the
// gateway, reconciles the result and redirects to the storefront.
func (app *application) vnpayReturnHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := make(map[string]string, len(query))
	for k := range query {
		params[k] = query.Get(k)
	}

	result, err := app.payments.HandleCallback(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBadSignature):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if result.Paid {
		app.sendPaymentReceipt(result.Order)
	}

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

// sendPaymentReceipt mails the customer off the request path. Receipts
// are best effort; a mail failure never affects the settlement.
func (app *application) sendPaymentReceipt(order *orders.Order) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				app.logger.Errorw("receipt mail panicked", "order_code", order.OrderCode, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := app.store.Users.GetByID(ctx, order.UserID)
		if err != nil {
			app.logger.Errorw("receipt mail: user lookup failed",
				"order_code", order.OrderCode, "user_id", order.UserID, "error", err)
			return
		}

		vars := struct {
			Username    string
			OrderCode   string
			TotalAmount int64
		}{
			Username:    user.Name,
			OrderCode:   order.OrderCode,
			TotalAmount: order.TotalAmount,
		}

		status, err := app.mailer.Send(mailer.PaymentReceiptTemplate, user.Name, user.Email, vars)
		if err != nil {
			app.logger.Errorw("receipt mail failed", "order_code", order.OrderCode, "error", err)
			return
		}
		app.logger.Infow("receipt mail sent", "order_code", order.OrderCode, "status", status)
	}()
}
