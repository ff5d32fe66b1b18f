package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	messagedomain "github.com/tubigan/waterworks/internal/message/domain"
)

type sendMessageRequest struct {
	ToOffice string `json:"to_office"`
	Body     string `json:"body"`
}

func (s *Server) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.messageSvc.Send(c.Request.Context(), messagedomain.SendRequest{
		FromOffice: requestOffice(c),
		ToOffice:   strings.TrimSpace(req.ToOffice),
		Body:       req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PollMessages(c *gin.Context) {
	resp, err := s.messageSvc.Poll(c.Request.Context(), requestOffice(c), strings.TrimSpace(c.Query("after_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
