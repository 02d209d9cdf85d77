package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inscrevia/inscrevia/internal/recovery"
)

type recoverLinkRequest struct {
	CPF string `json:"cpf"`
}

// HandleRecoverLink answers "where is my payment link" for a CPF. Responses
// are end-user-facing and never leak internal detail.
func (s *Server) HandleRecoverLink(c *gin.Context) {
	var req recoverLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	cpf, err := recovery.NormalizeCPF(req.CPF)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.recoverySvc.RecoverLink(c.Request.Context(), c.Request.Host, cpf)
	if err != nil {
		if errors.Is(err, recovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"mensagem": "Crie uma inscrição para receber o link de pagamento",
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	if result.PaymentLink != "" {
		c.JSON(http.StatusOK, gin.H{
			"link_pagamento": result.PaymentLink,
			"nomeUsuario":    result.PayerName,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": result.Status})
}
