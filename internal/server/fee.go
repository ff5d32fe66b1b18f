package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	feedomain "github.com/tubigan/waterworks/internal/fee/domain"
)

func (s *Server) CreateFee(c *gin.Context) {
	var req feedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.feeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFeesByClient(c *gin.Context) {
	resp, err := s.feeSvc.ListByClient(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateFee(c *gin.Context) {
	var req feedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.feeSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type payFeeRequest struct {
	ORNumber string `json:"or_number"`
}

func (s *Server) PayFee(c *gin.Context) {
	var req payFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.feeSvc.MarkPaid(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.ORNumber))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
