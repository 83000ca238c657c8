package toil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/apperror"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/response"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("toil.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("toil.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("toil request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actorID := c.GetString("user_id")

	var req CreateToilEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	// Filing for someone else and overriding the scenario hours are both
	// admin facilities.
	if c.GetString("role") == user.RoleUser {
		if req.UserID != "" && req.UserID != actorID {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "cannot file a TOIL entry for another user", nil)
			return
		}
		if req.Hours != nil {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "cannot override calculated TOIL hours", nil)
			return
		}
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists every entry for admins, own entries otherwise.
func (h *Handler) GetAll(c *gin.Context) {
	var (
		resp []ToilEntryResponse
		err  error
	)
	if c.GetString("role") == user.RoleUser {
		resp, err = h.service.GetAllByUser(c.Request.Context(), c.GetString("user_id"))
	} else {
		resp, err = h.service.GetAll(c.Request.Context())
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// Non-admins may only read their own entries.
	if c.GetString("role") == user.RoleUser && resp.UserID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "cannot view another user's TOIL entry", nil)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectToilEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
