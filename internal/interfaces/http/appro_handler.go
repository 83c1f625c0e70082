package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
)

// ApproHandler requêtes HTTP du workflow d'approvisionnement : demandes,
// bons de commande, réceptions et annulations.
type ApproHandler struct {
	demandeUC   *appro.DemandeUseCase
	generateUC  *appro.GenerateBcUseCase
	bcUC        *appro.BonCommandeUseCase
	receptionUC *appro.ReceptionUseCase
	pdfUC       *appro.PDFUseCase
}

// NewApproHandler construit le handler.
func NewApproHandler(
	demandeUC *appro.DemandeUseCase,
	generateUC *appro.GenerateBcUseCase,
	bcUC *appro.BonCommandeUseCase,
	receptionUC *appro.ReceptionUseCase,
	pdfUC *appro.PDFUseCase,
) *ApproHandler {
	return &ApproHandler{
		demandeUC:   demandeUC,
		generateUC:  generateUC,
		bcUC:        bcUC,
		receptionUC: receptionUC,
		pdfUC:       pdfUC,
	}
}

// CreateDemande godoc
// @Summary      Créer une demande d'approvisionnement (DRAFT)
// @Tags         demandes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDemandeRequest  true  "lignes (produit_id, quantite)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/demandes [post]
func (h *ApproHandler) CreateDemande(c *fiber.Ctx) error {
	var in dto.CreateDemandeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	d, err := h.demandeUC.CreateDemande(c.Context(), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

// GetDemande godoc
// @Summary      Détail d'une demande d'approvisionnement
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la demande"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/demandes/{id} [get]
func (h *ApproHandler) GetDemande(c *fiber.Ctx) error {
	d, err := h.demandeUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(d)
}

// ListDemandes godoc
// @Summary      Lister les demandes d'approvisionnement
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        statut  query  string  false  "filtre par statut"
// @Param        limit   query  int     false  "taille de page (20 par défaut)"
// @Param        offset  query  int     false  "décalage"
// @Success      200  {array}  map[string]string
// @Router       /api/demandes [get]
func (h *ApproHandler) ListDemandes(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagination invalide"})
	}
	list, err := h.demandeUC.List(c.Context(), c.Query("statut"), page)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(list)
}

// TransitionDemande godoc
// @Summary      Appliquer une transition de statut à une demande
// @Tags         demandes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la demande"
// @Param        body  body  dto.TransitionRequest  true  "statut cible + justification (rejets)"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/demandes/{id}/transition [post]
func (h *ApproHandler) TransitionDemande(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	d, err := h.demandeUC.Transition(c.Context(), c.Params("id"), in.Statut, GetRole(c), in.Justification, GetUserID(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(d)
}

// ActionsDemande godoc
// @Summary      Actions disponibles sur une demande pour le rôle courant
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la demande"
// @Success      200  {object}  dto.ActionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/demandes/{id}/actions [get]
func (h *ApproHandler) ActionsDemande(c *fiber.Ctx) error {
	out, err := h.demandeUC.Actions(c.Context(), c.Params("id"), GetRole(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// GenerateBc godoc
// @Summary      Générer les bons de commande d'une demande validée
// @Description  Un BC par fournisseur ; la demande passe VALIDATED → ORDERING → ORDERED.
// @Tags         demandes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la demande"
// @Param        body  body  dto.GenerateBcRequest  true  "adresse, date prévue, overrides de prix"
// @Success      201   {object}  dto.GenerateBcResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/demandes/{id}/generer-bc [post]
func (h *ApproHandler) GenerateBc(c *fiber.Ctx) error {
	var in dto.GenerateBcRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.generateUC.GenerateBc(c.Context(), c.Params("id"), GetRole(c), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetBc godoc
// @Summary      Détail d'un bon de commande
// @Tags         bons-commande
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID du BC"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bons-commande/{id} [get]
func (h *ApproHandler) GetBc(c *fiber.Ctx) error {
	bc, err := h.bcUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(bc)
}

// TransitionBc godoc
// @Summary      Appliquer une transition simple à un BC (envoyer, confirmer)
// @Description  PARTIAL, RECEIVED et CANCELLED ne sont atteignables que via les opérations dédiées.
// @Tags         bons-commande
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID du BC"
// @Param        body  body  dto.TransitionRequest  true  "statut cible"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bons-commande/{id}/transition [post]
func (h *ApproHandler) TransitionBc(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	bc, err := h.bcUC.Transition(c.Context(), c.Params("id"), in.Statut, GetRole(c), in.Justification, GetUserID(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(bc)
}

// ActionsBc godoc
// @Summary      Actions disponibles sur un BC pour le rôle courant
// @Tags         bons-commande
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID du BC"
// @Success      200  {object}  dto.ActionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bons-commande/{id}/actions [get]
func (h *ApproHandler) ActionsBc(c *fiber.Ctx) error {
	out, err := h.bcUC.Actions(c.Context(), c.Params("id"), GetRole(c))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// ReceptionnerBc godoc
// @Summary      Réceptionner une livraison contre un BC
// @Description  Crédite les lots, écrit les mouvements IN, décide PARTIAL vs RECEIVED,
// @Description  et clôture la demande d'origine quand tous ses BC sont terminés.
// @Description  Idempotent par idempotency_key : un rejeu renvoie le snapshot enregistré.
// @Tags         bons-commande
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID du BC"
// @Param        body  body  dto.ReceptionBcRequest  true  "lignes reçues + numéro BL + clé d'idempotence"
// @Success      200   {object}  dto.ReceptionBcResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bons-commande/{id}/reception [post]
func (h *ApproHandler) ReceptionnerBc(c *fiber.Ctx) error {
	var in dto.ReceptionBcRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.receptionUC.ReceptionnerBc(c.Context(), c.Params("id"), GetRole(c), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// CancelBc godoc
// @Summary      Annuler un bon de commande
// @Description  Motif obligatoire. Refusé dès qu'une réception partielle existe.
// @Tags         bons-commande
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID du BC"
// @Param        body  body  dto.CancelBcRequest  true  "motif"
// @Success      200   {object}  dto.CancelBcResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bons-commande/{id}/annulation [post]
func (h *ApproHandler) CancelBc(c *fiber.Ctx) error {
	var in dto.CancelBcRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.bcUC.CancelBc(c.Context(), c.Params("id"), GetRole(c), GetUserID(c), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(out)
}

// DownloadBcPDF godoc
// @Summary      Télécharger le PDF d'un bon de commande
// @Tags         bons-commande
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID du BC"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bons-commande/{id}/pdf [get]
func (h *ApproHandler) DownloadBcPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadBcPDF(c.Context(), c.Params("id"))
	if err != nil {
		return renderErreur(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
