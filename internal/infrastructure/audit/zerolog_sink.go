// Package audit trace les décisions du moteur de workflow : chaque transition
// acceptée et chaque tentative refusée laisse une entrée structurée.
package audit

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
	"github.com/mlefevre/Laiterie-api/pkg/logger"
)

var _ appro.AuditSink = (*ZerologSink)(nil)

// ZerologSink collecteur d'audit adossé au logger structuré.
type ZerologSink struct {
	log *logger.Logger
}

// NewZerologSink construit le collecteur.
func NewZerologSink(log *logger.Logger) *ZerologSink {
	return &ZerologSink{log: log}
}

// Transition journalise une décision de transition. refus nil = acceptée.
func (s *ZerologSink) Transition(ctx context.Context, entite, entiteID, from, to string, role workflow.Role, acteurID string, refus error) {
	ev := s.log.Info()
	resultat := "acceptee"
	if refus != nil {
		ev = s.log.Warn().Err(refus)
		resultat = "refusee"
	}
	ev.
		Str("evenement", "transition").
		Str("resultat", resultat).
		Str("entite", entite).
		Str("entite_id", entiteID).
		Str("de", from).
		Str("vers", to).
		Str("role", string(role)).
		Str("acteur_id", acteurID).
		Msg("transition de statut")
}
