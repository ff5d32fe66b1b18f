package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/pkg/db/pagination"
)

type createClientRequest struct {
	Code                 string `json:"code"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Classification       string `json:"classification"`
	LegacyClassification *int   `json:"legacy_classification"`
	Status               string `json:"status"`
	MeterNumber          string `json:"meter_number"`
	Barangay             string `json:"barangay"`
	Sitio                string `json:"sitio"`
}

func (s *Server) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientSvc.Create(c.Request.Context(), clientdomain.CreateRequest{
		Code:                 strings.TrimSpace(req.Code),
		FirstName:            strings.TrimSpace(req.FirstName),
		LastName:             strings.TrimSpace(req.LastName),
		Classification:       strings.TrimSpace(req.Classification),
		LegacyClassification: req.LegacyClassification,
		Status:               strings.TrimSpace(req.Status),
		MeterNumber:          strings.TrimSpace(req.MeterNumber),
		Barangay:             strings.TrimSpace(req.Barangay),
		Sitio:                strings.TrimSpace(req.Sitio),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status         string `form:"status"`
		Classification string `form:"classification"`
		Barangay       string `form:"barangay"`
		Search         string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientSvc.List(c.Request.Context(), clientdomain.ListRequest{
		PageToken:      query.PageToken,
		PageSize:       query.PageSize,
		Status:         strings.TrimSpace(query.Status),
		Classification: strings.TrimSpace(query.Classification),
		Barangay:       strings.TrimSpace(query.Barangay),
		Search:         strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientByID(c *gin.Context) {
	resp, err := s.clientSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientByCode(c *gin.Context) {
	resp, err := s.clientSvc.GetByCode(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateClient(c *gin.Context) {
	var req clientdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.clientSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisconnectClient(c *gin.Context) {
	resp, err := s.clientSvc.Disconnect(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
