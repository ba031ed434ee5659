package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fundgraph/internal/platform/apierr"
)

// Failure is the body of every error response. It carries the same success, query, records
// and error fields as a query answer, so clients read one shape on every path.
type Failure struct {
	Success bool             `json:"success"`
	Query   string           `json:"query"`
	Records []map[string]any `json:"records"`
	Error   string           `json:"error"`
	Code    string           `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Failure{
		Records: []map[string]any{},
		Error:   msg,
		Code:    code,
	})
}

// RespondErr writes an *apierr.Error with its own status and code, anything else as
// fallbackCode with a 500.
func RespondErr(c *gin.Context, fallbackCode string, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
