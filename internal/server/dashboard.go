package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/tubigan/waterworks/internal/billing/domain"
)

type dashboardSummary struct {
	Period             string  `json:"period"`
	TotalClients       int64   `json:"total_clients"`
	ActiveClients      int64   `json:"active_clients"`
	BilledThisPeriod   int64   `json:"billed_this_period"`
	CollectedThisMonth float64 `json:"collected_this_month"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	UnpaidFees         int64   `json:"unpaid_fees"`
}

func (s *Server) Dashboard(c *gin.Context) {
	period := strings.TrimSpace(c.Query("period"))
	if period == "" {
		period = time.Now().Format("2006-01")
	}
	if !billingdomain.ValidPeriod(period) {
		AbortWithError(c, billingdomain.ErrInvalidPeriod)
		return
	}

	ctx := c.Request.Context()
	summary := dashboardSummary{Period: period}

	if err := s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM clients`).
		Scan(&summary.TotalClients).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM clients WHERE status = ?`, "active").
		Scan(&summary.ActiveClients).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM billing_records WHERE period = ?`, period).
		Scan(&summary.BilledThisPeriod).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	monthStart, _ := time.Parse("2006-01", period)
	monthEnd := monthStart.AddDate(0, 1, 0)
	if err := s.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE paid_at >= ? AND paid_at < ?`, monthStart, monthEnd).
		Scan(&summary.CollectedThisMonth).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(remaining_balance), 0) FROM billing_records`).
		Scan(&summary.OutstandingBalance).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM fees WHERE status = ?`, "unpaid").
		Scan(&summary.UnpaidFees).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
