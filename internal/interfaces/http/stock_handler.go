package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/application/stock"
)

// StockHandler requêtes HTTP du stock : ajustements d'inventaire, pertes,
// consommations FIFO et entrées de production.
type StockHandler struct {
	ajustementUC   *stock.AjustementUseCase
	perteUC        *stock.PerteUseCase
	consommationUC *stock.ConsommationUseCase
}

// NewStockHandler construit le handler.
func NewStockHandler(ajustementUC *stock.AjustementUseCase, perteUC *stock.PerteUseCase, consommationUC *stock.ConsommationUseCase) *StockHandler {
	return &StockHandler{ajustementUC: ajustementUC, perteUC: perteUC, consommationUC: consommationUC}
}

// DeclarerAjustement godoc
// @Summary      Déclarer un comptage d'inventaire
// @Description  L'écart est classé LOW / MEDIUM / CRITICAL ; LOW est auto-approuvé.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AjustementRequest  true  "produit_id, quantite_physique, motif"
// @Success      201   {object}  dto.AjustementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/stock/ajustements [post]
func (h *StockHandler) DeclarerAjustement(c *fiber.Ctx) error {
	var in dto.AjustementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.ajustementUC.Declarer(c.Context(), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ValiderAjustement godoc
// @Summary      Valider un ajustement en attente
// @Description  Interdit au compteur d'origine. CRITICAL passe en attente d'une seconde validation.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de l'ajustement"
// @Success      200  {object}  dto.AjustementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/ajustements/{id}/validation [post]
func (h *StockHandler) ValiderAjustement(c *fiber.Ctx) error {
	out, err := h.ajustementUC.Valider(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// SecondeValidation godoc
// @Summary      Seconde validation d'un ajustement CRITICAL
// @Description  Le second validateur doit différer du compteur et du premier validateur.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de l'ajustement"
// @Success      200  {object}  dto.AjustementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/ajustements/{id}/seconde-validation [post]
func (h *StockHandler) SecondeValidation(c *fiber.Ctx) error {
	out, err := h.ajustementUC.SecondeValidation(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// RejeterAjustement godoc
// @Summary      Rejeter un ajustement en attente
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de l'ajustement"
// @Success      200  {object}  dto.AjustementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/ajustements/{id}/rejet [post]
func (h *StockHandler) RejeterAjustement(c *fiber.Ctx) error {
	out, err := h.ajustementUC.Rejeter(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// DeclarerPerte godoc
// @Summary      Déclarer une perte de stock
// @Description  Cible un lot précis (lot_id) ou le produit en FIFO. Description de 20 caractères minimum.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PerteRequest  true  "type_produit, produit_id, quantite, motif, description"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/pertes [post]
func (h *StockHandler) DeclarerPerte(c *fiber.Ctx) error {
	var in dto.PerteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	perte, err := h.perteUC.Declarer(c.Context(), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(perte)
}

// Consommer godoc
// @Summary      Consommer une matière première en FIFO (sortie production)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsommationRequest  true  "produit_id, quantite, reference (ordre de fabrication)"
// @Success      200   {object}  dto.ConsommationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/consommations [post]
func (h *StockHandler) Consommer(c *fiber.Ctx) error {
	var in dto.ConsommationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.consommationUC.Consommer(c.Context(), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// EntreeProduction godoc
// @Summary      Entrer un lot de produit fini en stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntreeProductionRequest  true  "produit_id, quantite, numero_lot, reference"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/production [post]
func (h *StockHandler) EntreeProduction(c *fiber.Ctx) error {
	var in dto.EntreeProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	lot, err := h.consommationUC.EntreeProduction(c.Context(), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}
