package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/tubigan/waterworks/internal/payment/domain"
)

func (s *Server) RecordPayment(c *gin.Context) {
	var req paymentdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Cashier) == "" {
		req.Cashier = c.GetString(contextUserIDKey)
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListPaymentsByDate serves the collection report. Dates are inclusive
// "YYYY-MM-DD"; a missing "to" means the single day "from".
func (s *Server) ListPaymentsByDate(c *gin.Context) {
	from, err := time.Parse("2006-01-02", strings.TrimSpace(c.Query("from")))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	to := from
	if value := strings.TrimSpace(c.Query("to")); value != "" {
		to, err = time.Parse("2006-01-02", value)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.paymentSvc.ListByDateRange(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPaymentsByClient(c *gin.Context) {
	resp, err := s.paymentSvc.ListByClient(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
