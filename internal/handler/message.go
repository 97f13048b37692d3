package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/oggyb/skebby-gateway/internal/cache"
	domain "github.com/oggyb/skebby-gateway/internal/domain/message"
	"github.com/oggyb/skebby-gateway/internal/request"
	"github.com/oggyb/skebby-gateway/internal/response"
	"github.com/oggyb/skebby-gateway/internal/scheduler"
	"github.com/oggyb/skebby-gateway/internal/service"
	"github.com/oggyb/skebby-gateway/internal/sms"
)

// MessageHandler wires HTTP endpoints to the message service
// and the background dispatcher.
type MessageHandler struct {
	msgSvc service.MessageService
	schSvc scheduler.SchedulerService
}

// NewMessageHandler constructs a new MessageHandler with its dependencies.
func NewMessageHandler(msgSvc service.MessageService, schSvc scheduler.SchedulerService) *MessageHandler {
	return &MessageHandler{
		msgSvc: msgSvc,
		schSvc: schSvc,
	}
}

// Enqueue godoc
// @Summary     Queue an SMS
// @Description Validates and stores a message; the dispatcher sends it with the next batch.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       request body request.EnqueueMessageRequest true "Message"
// @Success     202 {object} response.EnqueueMessageResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     422 {object} response.ErrorResponse
// @Router      /messages [post]
func (h *MessageHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req request.EnqueueMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, err := h.msgSvc.Enqueue(r.Context(), req.To, req.Content, sms.Quality(req.Quality))
	if err != nil {
		if isValidationError(err) {
			response.RespondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusAccepted, response.FromDomainMessage(msg))
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyRecipient) ||
		errors.Is(err, domain.ErrEmptyContent) ||
		errors.Is(err, domain.ErrContentTooLong) ||
		errors.Is(err, domain.ErrInvalidQuality)
}

// StartStopScheduler godoc
// @Summary     Control scheduler
// @Description Starts or stops the background scheduler based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.SchedulerControlResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /scheduler [post]
func (h *MessageHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "start":
		if err := h.schSvc.Start(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		payload := response.SchedulerControlPayload{
			Message: "scheduler started",
		}
		response.RespondJSON(w, http.StatusOK, payload)
		return

	case "stop":
		if err := h.schSvc.Stop(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		payload := response.SchedulerControlPayload{
			Message: "scheduler stopped",
		}
		response.RespondJSON(w, http.StatusOK, payload)
		return

	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
		return
	}
}

// GetSentByOrderID godoc
// @Summary     Look up a recent send
// @Description Returns when a Skebby order id was sent. Entries expire after 24 hours.
// @Tags        messages
// @Produce     json
// @Param       order_id path string true "Skebby order id"
// @Success     200 {object} response.SentLookupResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /messages/sent/{order_id} [get]
func (h *MessageHandler) GetSentByOrderID(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")

	at, err := h.msgSvc.SentAt(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			response.RespondError(w, http.StatusNotFound, "order not found")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.SentLookupPayload{
		OrderID: orderID,
		SentAt:  at,
	})
}

// GetSentMessages godoc
// @Summary     List sent messages
// @Description Returns a paginated list of successfully sent messages.
// @Tags        messages
// @Produce     json
// @Param       page  query int false "Page number"         default(1)
// @Param       limit query int false "Page size (max 100)" default(20)
// @Success     200 {object} response.SentMessagesResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /messages/sent [get]
func (h *MessageHandler) GetSentMessages(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	page := 1
	limit := 20

	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}

	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	items, total, err := h.msgSvc.GetSent(r.Context(), page, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := response.SentMessagesPayload{
		Items: response.FromDomainMessages(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
