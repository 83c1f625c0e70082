package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// renderErreur mappe une erreur de domaine vers la réponse HTTP.
// Les refus du guard repartent avec leur contexte de correction : statuts
// atteignables ou rôles requis, pour que le client affiche quoi corriger.
func renderErreur(c *fiber.Ctx, err error) error {
	var te *workflow.TransitionError
	if errors.As(err, &te) {
		status := fiber.StatusConflict
		if te.Code == workflow.ErrCodeRoleNotAuthorized {
			status = fiber.StatusForbidden
		}
		if te.Code == workflow.ErrCodeJustificationRequired {
			status = fiber.StatusBadRequest
		}
		roles := make([]string, len(te.RequiredRoles))
		for i, r := range te.RequiredRoles {
			roles[i] = string(r)
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:                string(te.Code),
			Message:             te.Error(),
			StatutsAtteignables: te.AllowedStatuses,
			RolesRequis:         roles,
		})
	}

	var ci *domain.ChampInvalideError
	if errors.As(err, &ci) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: ci.Message, Champ: ci.Champ,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identifiants invalides"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "accès refusé"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrStockInsuffisant):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuffisant"})
	case errors.Is(err, domain.ErrLotIndisponible):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrAutoValidation):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SELF_VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrCooldownActif):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "COOLDOWN_ACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailDejaUtilise):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "email déjà enregistré"})
	case errors.Is(err, domain.ErrFournisseurAbsent):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_SUPPLIER", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
