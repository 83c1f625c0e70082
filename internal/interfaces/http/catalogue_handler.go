package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mlefevre/Laiterie-api/internal/application/catalogue"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
)

// CatalogueHandler requêtes HTTP du référentiel produits et fournisseurs.
type CatalogueHandler struct {
	uc *catalogue.CatalogueUseCase
}

// NewCatalogueHandler construit le handler.
func NewCatalogueHandler(uc *catalogue.CatalogueUseCase) *CatalogueHandler {
	return &CatalogueHandler{uc: uc}
}

// CreateProduit godoc
// @Summary      Créer un produit
// @Tags         catalogue
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProduitRequest  true  "code, nom, type, categorie, seuils"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/produits [post]
func (h *CatalogueHandler) CreateProduit(c *fiber.Ctx) error {
	var in dto.ProduitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	p, err := h.uc.CreateProduit(c.Context(), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdateProduit godoc
// @Summary      Mettre à jour un produit
// @Tags         catalogue
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID du produit"
// @Param        body  body  dto.ProduitRequest  true  "champs mutables"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/produits/{id} [put]
func (h *CatalogueHandler) UpdateProduit(c *fiber.Ctx) error {
	var in dto.ProduitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	p, err := h.uc.UpdateProduit(c.Context(), c.Params("id"), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(p)
}

// GetProduit godoc
// @Summary      Détail d'un produit
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID du produit"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/produits/{id} [get]
func (h *CatalogueHandler) GetProduit(c *fiber.Ctx) error {
	p, err := h.uc.GetProduit(c.Context(), c.Params("id"))
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(p)
}

// ListProduits godoc
// @Summary      Lister le catalogue produits
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "taille de page (20 par défaut)"
// @Param        offset  query  int  false  "décalage"
// @Success      200  {array}  map[string]string
// @Router       /api/produits [get]
func (h *CatalogueHandler) ListProduits(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagination invalide"})
	}
	list, err := h.uc.ListProduits(c.Context(), page)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(list)
}

// CreateFournisseur godoc
// @Summary      Créer un fournisseur
// @Tags         catalogue
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FournisseurRequest  true  "nom + contact"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/fournisseurs [post]
func (h *CatalogueHandler) CreateFournisseur(c *fiber.Ctx) error {
	var in dto.FournisseurRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	f, err := h.uc.CreateFournisseur(c.Context(), in)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// ListFournisseurs godoc
// @Summary      Lister les fournisseurs
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "taille de page (20 par défaut)"
// @Param        offset  query  int  false  "décalage"
// @Success      200  {array}  map[string]string
// @Router       /api/fournisseurs [get]
func (h *CatalogueHandler) ListFournisseurs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagination invalide"})
	}
	list, err := h.uc.ListFournisseurs(c.Context(), page)
	if err != nil {
		return renderErreur(c, err)
	}
	return c.JSON(list)
}
