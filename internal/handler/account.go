package handler

import (
	"net/http"

	"github.com/oggyb/skebby-gateway/internal/response"
	"github.com/oggyb/skebby-gateway/internal/service"
	"github.com/oggyb/skebby-gateway/internal/sms"
)

// AccountHandler exposes Skebby account status and credits.
type AccountHandler struct {
	accSvc service.AccountService
}

// NewAccountHandler constructs a new AccountHandler.
func NewAccountHandler(accSvc service.AccountService) *AccountHandler {
	return &AccountHandler{accSvc: accSvc}
}

// Account godoc
// @Summary     Account status
// @Description Returns the Skebby status payload as reported by the provider.
// @Tags        account
// @Produce     json
// @Success     200 {object} response.AccountResponse
// @Failure     502 {object} response.ErrorResponse
// @Router      /account [get]
func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	info, err := h.accSvc.Info(r.Context())
	if err != nil {
		response.RespondProviderError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, info)
}

// Credits godoc
// @Summary     Remaining credits
// @Description Returns the remaining credits for every quality the provider reports,
// @Description with the number of messages this gateway sent per quality.
// @Tags        account
// @Produce     json
// @Success     200 {object} response.CreditsResponse
// @Failure     502 {object} response.ErrorResponse
// @Router      /credits [get]
func (h *AccountHandler) Credits(w http.ResponseWriter, r *http.Request) {
	credits, err := h.accSvc.Credits(r.Context())
	if err != nil {
		response.RespondProviderError(w, err)
		return
	}

	sent := h.accSvc.SentCounts(r.Context())
	response.RespondJSON(w, http.StatusOK, response.FromCredits(credits, sent))
}

// CreditsByQuality godoc
// @Summary     Remaining credits for one quality
// @Tags        account
// @Produce     json
// @Param       quality path string true "Message quality" Enums(GP, TI, SI, EE, AD)
// @Success     200 {object} response.RemainingResponse
// @Failure     422 {object} response.ErrorResponse
// @Failure     502 {object} response.ErrorResponse
// @Router      /credits/{quality} [get]
func (h *AccountHandler) CreditsByQuality(w http.ResponseWriter, r *http.Request) {
	quality, err := sms.ParseQuality(r.PathValue("quality"))
	if err != nil {
		response.RespondProviderError(w, err)
		return
	}

	n, err := h.accSvc.Remaining(r.Context(), quality)
	if err != nil {
		response.RespondProviderError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.RemainingPayload{
		Quality:   string(quality),
		Remaining: n,
	})
}

// ResetSession godoc
// @Summary     Reset Skebby session
// @Description Drops the cached Skebby session; the next provider call logs in again.
// @Tags        account
// @Produce     json
// @Success     200 {object} response.SchedulerControlResponse
// @Router      /auth/reset [post]
func (h *AccountHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.accSvc.ResetSession()

	response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{
		Message: "session cleared",
	})
}
