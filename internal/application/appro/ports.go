package appro

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// TxRunner exécute une fonction dans une transaction de BD, en passant des
// repositories attachés à cette transaction. Garantit le "tout ou rien" exigé
// par le réconciliateur : mutation des lots + écritures du grand livre +
// statut du BC + cascade demande committés ensemble, ou rien.
type TxRunner interface {
	RunAppro(ctx context.Context, fn func(
		demandeRepo repository.DemandeRepository,
		bcRepo repository.BonCommandeRepository,
	) error) error

	RunReception(ctx context.Context, fn func(
		bcRepo repository.BonCommandeRepository,
		demandeRepo repository.DemandeRepository,
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		receptionRepo repository.ReceptionRepository,
	) error) error
}

// AuditSink collecteur d'audit : chaque transition acceptée ET chaque tentative
// refusée y est rapportée. refus est nil pour une transition acceptée.
type AuditSink interface {
	Transition(ctx context.Context, entite, entiteID, from, to string, role workflow.Role, acteurID string, refus error)
}
