package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskman/internal/application/dto"
	"taskman/internal/domain/entity"
	"taskman/internal/domain/repository"
	"taskman/internal/domain/service"
)

const (
	detailTaskNotFound       = "Task not found"
	detailDuplicateIDs       = "Duplicate task IDs provided"
	detailIncompleteReorder  = "All tasks must be included in reorder request"
	detailUnknownIDs         = "One or more task IDs not found"
	detailPositionConflict   = "Conflict: unable to assign position. Please retry."
	detailPositionTaken      = "Position already in use"
	detailInternal           = "Internal server error"
	detailEmptyReorder       = "List should have at least 1 item"
	detailInvalidBody        = "Invalid JSON body"
	validationIssueValueType = "value_error"
)

// writeError maps domain errors onto the REST error contract
func writeError(c *gin.Context, logger *log.Logger, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(c, verr.Field, verr.Msg)
	case errors.Is(err, entity.ErrTaskNotFound):
		writeDetail(c, http.StatusNotFound, detailTaskNotFound)
	case errors.Is(err, entity.ErrEmptyReorder):
		writeValidation(c, "task_ids", detailEmptyReorder)
	case errors.Is(err, entity.ErrDuplicateTaskIDs):
		writeDetail(c, http.StatusBadRequest, detailDuplicateIDs)
	case errors.Is(err, entity.ErrIncompleteReorder):
		writeDetail(c, http.StatusBadRequest, detailIncompleteReorder)
	case errors.Is(err, entity.ErrUnknownTaskIDs):
		writeDetail(c, http.StatusBadRequest, detailUnknownIDs)
	case errors.Is(err, service.ErrPositionUnavailable):
		writeDetail(c, http.StatusConflict, detailPositionConflict)
	case errors.Is(err, repository.ErrPositionConflict):
		writeDetail(c, http.StatusConflict, detailPositionTaken)
	default:
		logger.Printf("rid=%s error=%q", c.GetString(requestIDKey), err.Error())
		writeDetail(c, http.StatusInternalServerError, detailInternal)
	}
}

// writeBindError reports a body that could not be decoded
func writeBindError(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &typeErr):
		writeValidation(c, typeErr.Field, "Input has the wrong type")
	case errors.As(err, &timeErr):
		writeValidation(c, "deadline", "Input should be a valid datetime")
	default:
		writeValidation(c, "", detailInvalidBody)
	}
}

func writeValidation(c *gin.Context, field, msg string) {
	loc := []string{"body"}
	if field != "" {
		loc = append(loc, field)
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
		Detail: []dto.ValidationIssue{{
			Loc:  loc,
			Msg:  msg,
			Type: validationIssueValueType,
		}},
	})
}

func writeDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Detail: detail})
}
