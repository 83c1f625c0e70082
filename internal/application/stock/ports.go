package stock

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction de BD avec des
// repositories attachés à cette transaction. Mutation des lots + écriture au
// grand livre + enregistrement de l'ajustement ou de la perte : tout ou rien.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		ajustementRepo repository.AjustementRepository,
	) error) error
}
