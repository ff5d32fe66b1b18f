package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tubigan/waterworks/internal/providers/pdf"
)

func (s *Server) DownloadStatement(c *gin.Context) {
	record, err := s.billingSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	client, err := s.clientSvc.GetByID(c.Request.Context(), record.ClientID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	snap, err := s.rateConfigSvc.Current(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.StatementData{
		OfficeName:       s.cfg.AppName,
		OfficeContact:    snap.ContactNo,
		MeterReader:      record.MeterReader,
		ClientCode:       client.Code,
		ClientName:       client.FirstName + " " + client.LastName,
		Barangay:         client.Barangay,
		MeterNumber:      client.MeterNumber,
		Period:           record.Period,
		PreviousReading:  formatAmount(record.PreviousReading),
		CurrentReading:   formatAmount(record.CurrentReading),
		Consumption:      formatAmount(record.Consumption),
		Minimum:          formatAmount(record.Minimum),
		PerCubic:         formatAmount(record.PerCubic),
		Discount:         formatAmount(record.Discount),
		LessAmount:       formatAmount(record.LessAmount),
		CurrentBilling:   formatAmount(record.CurrentBilling),
		PaidAmount:       formatAmount(record.PaidAmount),
		RemainingBalance: formatAmount(record.RemainingBalance),
	}

	reader, err := s.pdfProvider.GenerateStatement(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("statement-%s-%s.pdf", client.Code, record.Period)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
