package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// AjustementRepository port de persistance des ajustements d'inventaire et
// des déclarations de perte.
type AjustementRepository interface {
	CreateAjustement(ctx context.Context, a *entity.AjustementInventaire) error
	GetAjustement(ctx context.Context, id string) (*entity.AjustementInventaire, error)
	GetAjustementForUpdate(ctx context.Context, id string) (*entity.AjustementInventaire, error)
	UpdateAjustement(ctx context.Context, a *entity.AjustementInventaire) error
	// DerniereDeclaration date de la dernière déclaration de l'utilisateur sur le
	// produit (nil si aucune). Alimente le cooldown anti-fraude.
	DerniereDeclaration(ctx context.Context, userID, produitID string) (*time.Time, error)
	// EcartsRecents les n derniers écarts du produit, du plus ancien au plus récent.
	EcartsRecents(ctx context.Context, produitID string, n int) ([]decimal.Decimal, error)
	CreatePerte(ctx context.Context, p *entity.DeclarationPerte) error
}
