package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/logger"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/session"
)

type (
	Handler struct {
		session *session.Session
		log     *logger.Logger
	}

	stateResponse struct {
		Status      string  `json:"status"`
		Loading     bool    `json:"loading"`
		Error       string  `json:"error,omitempty"`
		FormVisible bool    `json:"formVisible"`
		Amount      *string `json:"amount"`
		Source      string  `json:"source"`
		Target      string  `json:"target"`
		Result      string  `json:"result"`
		RatesDate   string  `json:"ratesDate,omitempty"`
		Warning     string  `json:"warning,omitempty"`
	}

	ratesResponse struct {
		Base     string             `json:"base"`
		Provider string             `json:"provider"`
		Date     string             `json:"date,omitempty"`
		Rates    map[string]float64 `json:"rates"`
	}

	currencyResponse struct {
		Code  string `json:"code"`
		Scale int    `json:"scale"`
	}

	convertRequest struct {
		Amount decimal.NullDecimal `json:"amount"`
		From   string              `json:"from"`
		To     string              `json:"to"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func newStateResponse(s session.State) stateResponse {
	res := stateResponse{
		Status:      s.Status.String(),
		Loading:     s.IsLoading(),
		Error:       s.Error,
		FormVisible: s.FormVisible(),
		Source:      s.Source.String(),
		Target:      s.Target.String(),
		Result:      s.Result,
		RatesDate:   s.Rates.Date,
	}

	if s.Amount.Valid {
		amount := s.Amount.Decimal.String()
		res.Amount = &amount
	}

	return res
}

func (h *Handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request served")
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: message})
}

// respondUnavailable answers while the form would not be shown: 503 while rates load,
// 502 once the fetch failed.
func respondUnavailable(w http.ResponseWriter, r *http.Request, s session.State) bool {
	if s.FormVisible() {
		return false
	}

	status := http.StatusServiceUnavailable
	if s.Status == session.StatusFailed {
		status = http.StatusBadGateway
	}

	render.Status(r, status)
	render.JSON(w, r, newStateResponse(s))

	return true
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newStateResponse(h.session.Snapshot()))
}

func (h *Handler) HandleRates(w http.ResponseWriter, r *http.Request) {
	s := h.session.Snapshot()
	if respondUnavailable(w, r, s) {
		return
	}

	rates := make(map[string]float64)

	for _, code := range currency.Codes() {
		if rate, ok := s.Rates.Rate(code); ok {
			rates[code.String()] = rate
		}
	}

	render.JSON(w, r, ratesResponse{
		Base:     s.Rates.Base.String(),
		Provider: string(s.Rates.Provider),
		Date:     s.Rates.Date,
		Rates:    rates,
	})
}

func (h *Handler) HandleCurrencies(w http.ResponseWriter, r *http.Request) {
	codes := currency.Codes()
	res := make([]currencyResponse, 0, len(codes))

	for _, code := range codes {
		res = append(res, currencyResponse{Code: code.String(), Scale: code.Scale()})
	}

	render.JSON(w, r, res)
}

// parseSelection maps an omitted code to EmptyCode, which keeps the current selection.
func parseSelection(value string) (currency.Code, error) {
	if value == "" {
		return currency.EmptyCode, nil
	}

	return currency.ConvertToCodeFromString(value)
}

func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if respondUnavailable(w, r, h.session.Snapshot()) {
		return
	}

	from, err := parseSelection(req.From)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	to, err := parseSelection(req.To)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.session.ConvertWith(req.Amount, from, to)
	res := newStateResponse(s)

	switch {
	case err == nil:
	case errors.Is(err, services.ErrIncompleteInput),
		errors.Is(err, services.ErrRateNotFound),
		errors.Is(err, services.ErrNegativeAmount):
		res.Warning = err.Error()
	default:
		h.log.Error().Err(err).Msg("conversion failed")
		respondError(w, r, http.StatusInternalServerError, "conversion failed")

		return
	}

	render.JSON(w, r, res)
}
