package controllers

import (
	"github.com/gin-gonic/gin"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type SessionController struct {
	sessionService services.SessionServiceInterface
}

func NewSessionController(sessionService services.SessionServiceInterface) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// POST /api/sessions
func (s *SessionController) CreateSessionHandler(c *gin.Context) {
	session, err := s.sessionService.CreateSession(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Session created")
}
