package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"itinera/internal/models/response_models"
	"itinera/pkg/utils"
)

type SessionServiceInterface interface {
	// CreateSession starts a new planning session and returns its bearer token.
	CreateSession(ctx context.Context) (response_models.SessionResponse, error)
}

type SessionService struct {
	signer *utils.SessionSigner
	log    *zap.Logger
}

func NewSessionService(signer *utils.SessionSigner, log *zap.Logger) SessionServiceInterface {
	return &SessionService{signer: signer, log: log}
}

func (s *SessionService) CreateSession(_ context.Context) (response_models.SessionResponse, error) {
	id := uuid.New()
	token, expires, err := s.signer.CreateToken(id)
	if err != nil {
		return response_models.SessionResponse{}, fmt.Errorf("sign session token: %w", err)
	}

	s.log.Info("planning session created", zap.String("session_id", id.String()))
	return response_models.SessionResponse{
		SessionID: id.String(),
		Token:     token,
		ExpiresAt: expires.Unix(),
	}, nil
}
