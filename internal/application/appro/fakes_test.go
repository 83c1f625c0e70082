package appro_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire : un memStore partagé par tous les repositories, un TxRunner
// qui exécute la fonction directement (pas de vraie transaction : les cas
// d'usage sont testés pour leur logique, la sérialisation relève de Postgres).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	demandes     map[string]*entity.Demande
	bcs          map[string]*entity.BonCommande
	lots         map[string]*entity.Lot
	mouvements   []*entity.MouvementStock
	receptions   []*entity.Reception
	produits     map[string]*entity.Produit
	fournisseurs map[string]*entity.Fournisseur
}

func newMemStore() *memStore {
	return &memStore{
		demandes:     map[string]*entity.Demande{},
		bcs:          map[string]*entity.BonCommande{},
		lots:         map[string]*entity.Lot{},
		produits:     map[string]*entity.Produit{},
		fournisseurs: map[string]*entity.Fournisseur{},
	}
}

// ── Demandes ──────────────────────────────────────────────────────────────────

type memDemandeRepo struct{ s *memStore }

func (r *memDemandeRepo) Create(_ context.Context, d *entity.Demande) error {
	r.s.demandes[d.ID] = d
	return nil
}

func (r *memDemandeRepo) GetByID(_ context.Context, id string) (*entity.Demande, error) {
	return r.s.demandes[id], nil
}

func (r *memDemandeRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Demande, error) {
	return r.GetByID(ctx, id)
}

func (r *memDemandeRepo) UpdateStatut(_ context.Context, id, statut, justification string) error {
	d := r.s.demandes[id]
	d.Statut = statut
	if justification != "" {
		d.Justification = justification
	}
	return nil
}

func (r *memDemandeRepo) List(_ context.Context, statut string, limit, offset int) ([]*entity.Demande, error) {
	out := []*entity.Demande{}
	for _, d := range r.s.demandes {
		if statut == "" || d.Statut == statut {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (r *memDemandeRepo) CountByYear(_ context.Context, _ int) (int, error) {
	return len(r.s.demandes), nil
}

// ── Bons de commande ──────────────────────────────────────────────────────────

type memBcRepo struct{ s *memStore }

func (r *memBcRepo) Create(_ context.Context, bc *entity.BonCommande) error {
	r.s.bcs[bc.ID] = bc
	return nil
}

func (r *memBcRepo) GetByID(_ context.Context, id string) (*entity.BonCommande, error) {
	return r.s.bcs[id], nil
}

func (r *memBcRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.BonCommande, error) {
	return r.GetByID(ctx, id)
}

func (r *memBcRepo) ListByDemande(_ context.Context, demandeID string) ([]*entity.BonCommande, error) {
	out := []*entity.BonCommande{}
	for _, bc := range r.s.bcs {
		if bc.DemandeID == demandeID {
			out = append(out, bc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (r *memBcRepo) UpdateStatut(_ context.Context, id, statut string) error {
	r.s.bcs[id].Statut = statut
	return nil
}

func (r *memBcRepo) UpdateAnnulation(_ context.Context, id, motif string, cancelledAt time.Time) error {
	bc := r.s.bcs[id]
	bc.MotifAnnulation = motif
	bc.CancelledAt = &cancelledAt
	return nil
}

func (r *memBcRepo) UpdateLigneQuantiteRecue(_ context.Context, ligneID string, quantiteRecue decimal.Decimal) error {
	for _, bc := range r.s.bcs {
		for i := range bc.Lignes {
			if bc.Lignes[i].ID == ligneID {
				bc.Lignes[i].QuantiteRecue = quantiteRecue
				return nil
			}
		}
	}
	return nil
}

func (r *memBcRepo) CountByYear(_ context.Context, _ int) (int, error) {
	return len(r.s.bcs), nil
}

// ── Lots ──────────────────────────────────────────────────────────────────────

type memLotRepo struct{ s *memStore }

func (r *memLotRepo) Create(_ context.Context, lot *entity.Lot) error {
	r.s.lots[lot.ID] = lot
	return nil
}

func (r *memLotRepo) GetByNumero(_ context.Context, produitID, numeroLot string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProduitID == produitID && l.NumeroLot == numeroLot {
			return l, nil
		}
	}
	return nil, nil
}

func (r *memLotRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.Lot, error) {
	return r.s.lots[id], nil
}

func (r *memLotRepo) ListByProduitForUpdate(_ context.Context, produitID string) ([]*entity.Lot, error) {
	out := []*entity.Lot{}
	for _, l := range r.s.lots {
		if l.ProduitID == produitID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memLotRepo) UpdateQuantites(_ context.Context, lot *entity.Lot) error {
	r.s.lots[lot.ID] = lot
	return nil
}

func (r *memLotRepo) SumRestanteByProduit(_ context.Context, produitID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.s.lots {
		if l.ProduitID == produitID && l.Statut != entity.LotStatutConsomme {
			total = total.Add(l.QuantiteRestante)
		}
	}
	return total, nil
}

// ── Grand livre ───────────────────────────────────────────────────────────────

type memMouvementRepo struct{ s *memStore }

func (r *memMouvementRepo) Create(_ context.Context, m *entity.MouvementStock) error {
	r.s.mouvements = append(r.s.mouvements, m)
	return nil
}

func (r *memMouvementRepo) ListByProduit(_ context.Context, produitID string, _, _ *time.Time, _, _ int) ([]*entity.MouvementStock, error) {
	out := []*entity.MouvementStock{}
	for _, m := range r.s.mouvements {
		if m.ProduitID == produitID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMouvementRepo) SoldeByProduit(_ context.Context, produitID string) (decimal.Decimal, error) {
	solde := decimal.Zero
	for _, m := range r.s.mouvements {
		if m.ProduitID != produitID {
			continue
		}
		if m.Type == entity.MouvementTypeIN {
			solde = solde.Add(m.Quantite)
		} else {
			solde = solde.Sub(m.Quantite)
		}
	}
	return solde, nil
}

// ── Réceptions ────────────────────────────────────────────────────────────────

type memReceptionRepo struct{ s *memStore }

func (r *memReceptionRepo) Create(_ context.Context, rec *entity.Reception) error {
	r.s.receptions = append(r.s.receptions, rec)
	return nil
}

func (r *memReceptionRepo) GetByIdempotencyKey(_ context.Context, bonCommandeID, key string) (*entity.Reception, error) {
	for _, rec := range r.s.receptions {
		if rec.BonCommandeID == bonCommandeID && rec.IdempotencyKey == key {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memReceptionRepo) CountByYear(_ context.Context, _ int) (int, error) {
	return len(r.s.receptions), nil
}

// ── Catalogue ─────────────────────────────────────────────────────────────────

type memProduitRepo struct{ s *memStore }

func (r *memProduitRepo) Create(_ context.Context, p *entity.Produit) error {
	r.s.produits[p.ID] = p
	return nil
}

func (r *memProduitRepo) Update(_ context.Context, p *entity.Produit) error {
	r.s.produits[p.ID] = p
	return nil
}

func (r *memProduitRepo) GetByID(_ context.Context, id string) (*entity.Produit, error) {
	return r.s.produits[id], nil
}

func (r *memProduitRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Produit, error) {
	out := map[string]*entity.Produit{}
	for _, id := range ids {
		if p, ok := r.s.produits[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *memProduitRepo) List(_ context.Context, _, _ int) ([]*entity.Produit, error) {
	out := []*entity.Produit{}
	for _, p := range r.s.produits {
		out = append(out, p)
	}
	return out, nil
}

type memFournisseurRepo struct{ s *memStore }

func (r *memFournisseurRepo) Create(_ context.Context, f *entity.Fournisseur) error {
	r.s.fournisseurs[f.ID] = f
	return nil
}

func (r *memFournisseurRepo) GetByID(_ context.Context, id string) (*entity.Fournisseur, error) {
	return r.s.fournisseurs[id], nil
}

func (r *memFournisseurRepo) List(_ context.Context, _, _ int) ([]*entity.Fournisseur, error) {
	out := []*entity.Fournisseur{}
	for _, f := range r.s.fournisseurs {
		out = append(out, f)
	}
	return out, nil
}

// ── TxRunner et audit ─────────────────────────────────────────────────────────

type memTxRunner struct{ s *memStore }

var _ appro.TxRunner = (*memTxRunner)(nil)

func (t *memTxRunner) RunAppro(ctx context.Context, fn func(
	demandeRepo repository.DemandeRepository,
	bcRepo repository.BonCommandeRepository,
) error) error {
	return fn(&memDemandeRepo{t.s}, &memBcRepo{t.s})
}

func (t *memTxRunner) RunReception(ctx context.Context, fn func(
	bcRepo repository.BonCommandeRepository,
	demandeRepo repository.DemandeRepository,
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	receptionRepo repository.ReceptionRepository,
) error) error {
	return fn(&memBcRepo{t.s}, &memDemandeRepo{t.s}, &memLotRepo{t.s}, &memMouvementRepo{t.s}, &memReceptionRepo{t.s})
}

// auditEntry trace d'appel au collecteur d'audit.
type auditEntry struct {
	Entite string
	From   string
	To     string
	Role   workflow.Role
	Refuse bool
}

type memAudit struct{ entries []auditEntry }

var _ appro.AuditSink = (*memAudit)(nil)

func (a *memAudit) Transition(_ context.Context, entite, _, from, to string, role workflow.Role, _ string, refus error) {
	a.entries = append(a.entries, auditEntry{Entite: entite, From: from, To: to, Role: role, Refuse: refus != nil})
}
