package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/application/auth"
	"github.com/mlefevre/Laiterie-api/internal/application/catalogue"
	"github.com/mlefevre/Laiterie-api/internal/application/stock"
	"github.com/mlefevre/Laiterie-api/internal/infrastructure/audit"
	infrapdf "github.com/mlefevre/Laiterie-api/internal/infrastructure/pdf"
	"github.com/mlefevre/Laiterie-api/internal/infrastructure/postgres"
	httpRouter "github.com/mlefevre/Laiterie-api/internal/interfaces/http"
	"github.com/mlefevre/Laiterie-api/pkg/config"
	"github.com/mlefevre/Laiterie-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("charger la configuration : " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	demandeRepo := postgres.NewDemandeRepository(pool)
	bcRepo := postgres.NewBonCommandeRepository(pool)
	produitRepo := postgres.NewProduitRepository(pool)
	fournisseurRepo := postgres.NewFournisseurRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditSink := audit.NewZerologSink(log)

	demandeUC := appro.NewDemandeUseCase(demandeRepo, produitRepo, auditSink)
	generateBcUC := appro.NewGenerateBcUseCase(txRunner, produitRepo, fournisseurRepo, auditSink)
	bonCommandeUC := appro.NewBonCommandeUseCase(txRunner, bcRepo, auditSink)
	receptionUC := appro.NewReceptionUseCase(txRunner, produitRepo, auditSink)

	// PDF : représentation imprimable du bon de commande envoyé au fournisseur
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	bcPDFUC := appro.NewPDFUseCase(bcRepo, fournisseurRepo, produitRepo, pdfGenerator)

	ajustementUC := stock.NewAjustementUseCase(txRunner, produitRepo)
	perteUC := stock.NewPerteUseCase(txRunner, produitRepo)
	consommationUC := stock.NewConsommationUseCase(txRunner, produitRepo)
	catalogueUC := catalogue.NewCatalogueUseCase(produitRepo, fournisseurRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local : http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Laiterie API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DemandeUC:      demandeUC,
		GenerateBcUC:   generateBcUC,
		BonCommandeUC:  bonCommandeUC,
		ReceptionUC:    receptionUC,
		BcPDFUC:        bcPDFUC,
		AjustementUC:   ajustementUC,
		PerteUC:        perteUC,
		ConsommationUC: consommationUC,
		CatalogueUC:    catalogueUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
