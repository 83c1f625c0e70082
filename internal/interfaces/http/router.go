package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/application/auth"
	"github.com/mlefevre/Laiterie-api/internal/application/catalogue"
	"github.com/mlefevre/Laiterie-api/internal/application/stock"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	DemandeUC      *appro.DemandeUseCase
	GenerateBcUC   *appro.GenerateBcUseCase
	BonCommandeUC  *appro.BonCommandeUseCase
	ReceptionUC    *appro.ReceptionUseCase
	BcPDFUC        *appro.PDFUseCase
	AjustementUC   *stock.AjustementUseCase
	PerteUC        *stock.PerteUseCase
	ConsommationUC *stock.ConsommationUseCase
	CatalogueUC    *catalogue.CatalogueUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer Token requis)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	approHandler := NewApproHandler(deps.DemandeUC, deps.GenerateBcUC, deps.BonCommandeUC, deps.ReceptionUC, deps.BcPDFUC)

	// Demandes d'approvisionnement (protégé)
	demandes := protected.Group("/demandes")
	demandes.Post("/", approHandler.CreateDemande)
	demandes.Get("/", approHandler.ListDemandes)
	demandes.Get("/:id", approHandler.GetDemande)
	demandes.Post("/:id/transition", approHandler.TransitionDemande)
	demandes.Get("/:id/actions", approHandler.ActionsDemande)
	demandes.Post("/:id/generer-bc", approHandler.GenerateBc)

	// Bons de commande (protégé)
	bons := protected.Group("/bons-commande")
	bons.Get("/:id", approHandler.GetBc)
	bons.Post("/:id/transition", approHandler.TransitionBc)
	bons.Get("/:id/actions", approHandler.ActionsBc)
	bons.Post("/:id/reception", approHandler.ReceptionnerBc)
	bons.Post("/:id/annulation", approHandler.CancelBc)
	bons.Get("/:id/pdf", approHandler.DownloadBcPDF)

	// Stock (protégé)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.AjustementUC, deps.PerteUC, deps.ConsommationUC)
	stockGroup.Post("/ajustements", stockHandler.DeclarerAjustement)
	stockGroup.Post("/ajustements/:id/validation", stockHandler.ValiderAjustement)
	stockGroup.Post("/ajustements/:id/seconde-validation", stockHandler.SecondeValidation)
	stockGroup.Post("/ajustements/:id/rejet", stockHandler.RejeterAjustement)
	stockGroup.Post("/pertes", stockHandler.DeclarerPerte)
	stockGroup.Post("/consommations", stockHandler.Consommer)
	stockGroup.Post("/production", stockHandler.EntreeProduction)

	// Catalogue (protégé)
	catalogueHandler := NewCatalogueHandler(deps.CatalogueUC)
	produits := protected.Group("/produits")
	produits.Post("/", catalogueHandler.CreateProduit)
	produits.Get("/", catalogueHandler.ListProduits)
	produits.Get("/:id", catalogueHandler.GetProduit)
	produits.Put("/:id", catalogueHandler.UpdateProduit)

	fournisseurs := protected.Group("/fournisseurs")
	fournisseurs.Post("/", catalogueHandler.CreateFournisseur)
	fournisseurs.Get("/", catalogueHandler.ListFournisseurs)
}
