package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/internal/service"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/Dhoini/accounts-service/pkg/req"
	"github.com/Dhoini/accounts-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// AccountsHandler обработчик для клиентов и их счетов
type AccountsHandler struct {
	service   service.AccountsService
	validator *req.Validator
	log       *logger.Logger
	now       func() time.Time
}

// NewAccountsHandler создает новый обработчик счетов
func NewAccountsHandler(svc service.AccountsService, validator *req.Validator, log *logger.Logger) *AccountsHandler {
	return &AccountsHandler{
		service:   svc,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

// CreateAccount создает клиента и счет
func (h *AccountsHandler) CreateAccount(c *gin.Context) {
	dto, err := req.HandleBody[domain.CustomerDto](c, h.validator)
	if err != nil {
		h.writeError(c, err, "")
		return
	}

	if err := h.service.CreateAccount(c.Request.Context(), dto); err != nil {
		h.writeError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, res.NewResponse(domain.Status201, domain.Message201))
}

// FetchAccount возвращает клиента и счет по номеру телефона
func (h *AccountsHandler) FetchAccount(c *gin.Context) {
	mobileNumber, err := req.HandleMobileQuery(c, h.validator)
	if err != nil {
		h.writeError(c, err, "")
		return
	}

	dto, err := h.service.FetchAccount(c.Request.Context(), mobileNumber)
	if err != nil {
		h.writeError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto)
}

// UpdateAccount обновляет счет и данные клиента
func (h *AccountsHandler) UpdateAccount(c *gin.Context) {
	dto, err := req.HandleBody[domain.CustomerDto](c, h.validator)
	if err != nil {
		h.writeError(c, err, domain.Message417Update)
		return
	}

	updated, err := h.service.UpdateAccount(c.Request.Context(), dto)
	if err == nil && !updated {
		err = domain.ErrUpdateNotApplied
	}
	if err != nil {
		h.writeError(c, err, domain.Message417Update)
		return
	}

	c.JSON(http.StatusOK, res.NewResponse(domain.Status200, domain.Message200))
}

// DeleteAccount удаляет клиента и его счета по номеру телефона
func (h *AccountsHandler) DeleteAccount(c *gin.Context) {
	mobileNumber, err := req.HandleMobileQuery(c, h.validator)
	if err != nil {
		h.writeError(c, err, domain.Message417Delete)
		return
	}

	deleted, err := h.service.DeleteAccount(c.Request.Context(), mobileNumber)
	if err == nil && !deleted {
		err = domain.ErrUpdateNotApplied
	}
	if err != nil {
		h.writeError(c, err, domain.Message417Delete)
		return
	}

	c.JSON(http.StatusOK, res.NewResponse(domain.Status200, domain.Message200))
}

// writeError единственное место, где ошибка сервиса превращается в ответ.
// notAppliedMsg используется для ответа 417.
func (h *AccountsHandler) writeError(c *gin.Context, err error, notAppliedMsg string) {
	_ = c.Error(err)
	path := c.Request.URL.Path

	switch kind := domain.KindOf(err); kind {
	case domain.KindValidation:
		var verrs domain.ValidationErrors
		errors.As(err, &verrs)
		c.JSON(http.StatusBadRequest, verrs.AsMap())

	case domain.KindDuplicate:
		c.JSON(http.StatusBadRequest, res.NewErrorResponse(path, http.StatusBadRequest, err.Error(), h.now()))

	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, res.NewErrorResponse(path, http.StatusNotFound, err.Error(), h.now()))

	case domain.KindUpdateNotApplied:
		c.JSON(http.StatusExpectationFailed, res.NewResponse(domain.Status417, notAppliedMsg))

	case domain.KindInternal:
		h.log.Errorw("Request failed", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, res.NewErrorResponse(path, http.StatusInternalServerError, err.Error(), h.now()))

	default:
		h.log.Errorw("Unhandled error kind", "kind", kind.String(), "error", err)
		c.JSON(http.StatusInternalServerError, res.NewErrorResponse(path, http.StatusInternalServerError, err.Error(), h.now()))
	}
}
