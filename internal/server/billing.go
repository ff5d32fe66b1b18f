package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/tubigan/waterworks/internal/billing/domain"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
)

type billingConfigPayload struct {
	Rates       map[string]rateconfigdomain.Rate `json:"rates"`
	MeterReader string                           `json:"meterReader"`
	ContactNo   string                           `json:"contactNo"`
}

func billingConfigFromSnapshot(snap rateconfigdomain.Snapshot) billingConfigPayload {
	rates := make(map[string]rateconfigdomain.Rate, len(snap.Rates))
	for classification, rate := range snap.Rates {
		rates[string(classification)] = rate
	}
	return billingConfigPayload{
		Rates:       rates,
		MeterReader: snap.MeterReader,
		ContactNo:   snap.ContactNo,
	}
}

func (s *Server) GetBillingConfig(c *gin.Context) {
	snap, err := s.rateConfigSvc.Current(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    billingConfigFromSnapshot(snap),
	})
}

func (s *Server) UpdateBillingConfig(c *gin.Context) {
	var req rateconfigdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	snap, err := s.rateConfigSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration saved",
		"data":    billingConfigFromSnapshot(snap),
	})
}

type generateBillingRequest struct {
	Month    string             `json:"month"`
	Readings map[string]float64 `json:"readings"`
}

func (s *Server) GenerateBilling(c *gin.Context) {
	var req generateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	summary, err := s.billingSvc.Generate(c.Request.Context(), billingdomain.GenerateRequest{
		Period:   strings.TrimSpace(req.Month),
		Readings: req.Readings,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if summary == nil {
		AbortWithError(c, ErrInternal)
		return
	}

	resp := gin.H{
		"success":   true,
		"message":   "Billing generated",
		"period":    summary.Period,
		"generated": summary.Generated,
		"skipped":   summary.Skipped,
	}
	if len(summary.Errors) > 0 {
		resp["errors"] = summary.Errors
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateBillingRecord(c *gin.Context) {
	var req billingdomain.ManualCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ManualCreate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBillingsByPeriod(c *gin.Context) {
	period := strings.TrimSpace(c.Query("period"))
	resp, err := s.billingSvc.ListByPeriod(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBillingsByClient(c *gin.Context) {
	resp, err := s.billingSvc.ListByClient(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillingByID(c *gin.Context) {
	resp, err := s.billingSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
