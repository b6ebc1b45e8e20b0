package handlers

import (
	"errors"
	"net/http"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/http/middleware"
	"boardgamelist/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse standardizes client error payloads.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Code      string       `json:"code,omitempty"`
	Details   []FieldIssue `json:"details,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// FieldIssue is one violated constraint of a request.
type FieldIssue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string, details []FieldIssue) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Anything unrecognized is
// logged and answered with a generic problem document.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", "one or more validation errors occurred", fieldIssues(err))
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsInternal(err):
		// InternalError hides its cause from Error(), so log the cause here.
		var ie domain.InternalError
		errors.As(err, &ie)
		utils.LogError(middleware.GetRequestID(c), "internal", ie.Msg, ie.Err)
		middleware.WriteProblem(c, err)
	default:
		middleware.WriteProblem(c, err)
	}
}

// RespondBindError reports a request body that failed decoding or tag validation.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, FieldIssue{
				Field:   fe.Field(),
				Code:    fe.Tag(),
				Message: "failed on the '" + fe.Tag() + "' rule",
			})
		}
		respondError(c, http.StatusBadRequest, "validation_error", "one or more validation errors occurred", issues)
		return
	}
	respondError(c, http.StatusBadRequest, "invalid_payload", "request body is not valid JSON for this resource", nil)
}

func fieldIssues(err error) []FieldIssue {
	list := domain.ValidationDetails(err)
	out := make([]FieldIssue, 0, len(list))
	for _, ve := range list {
		out = append(out, FieldIssue{Field: ve.Field, Code: ve.Code(), Message: ve.Error()})
	}
	return out
}
