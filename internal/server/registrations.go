package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/inscrevia/inscrevia/internal/recovery"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
)

type createRegistrationRequest struct {
	Nome    string `json:"nome"`
	CPF     string `json:"cpf"`
	EventID string `json:"evento_id"`
	OwnerID string `json:"owner_id"`
}

// CreateRegistration records a pending signup. Approval and charging happen
// later; pending registrations are what link recovery reports as awaiting
// leadership approval.
func (s *Server) CreateRegistration(c *gin.Context) {
	var req createRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	cpf, err := recovery.NormalizeCPF(req.CPF)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if strings.TrimSpace(req.Nome) == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	eventID, err := snowflake.ParseString(req.EventID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	ownerID, err := snowflake.ParseString(req.OwnerID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	tenant, err := s.tenantSvc.ResolveHost(ctx, c.Request.Host)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	now := s.clock.Now()
	reg := &registrationdomain.Registration{
		ID:        s.genID.Generate(),
		TenantID:  tenant.ID,
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(req.Nome),
		CPF:       cpf,
		EventID:   eventID,
		Status:    registrationdomain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.regRepo.Insert(ctx, s.db, reg); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reg)
}
