package stock_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlefevre/Laiterie-api/internal/application/stock"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire pour les cas d'usage stock. Le TxRunner exécute la fonction
// directement : la logique est testée ici, la sérialisation relève de Postgres.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	lots        map[string]*entity.Lot
	mouvements  []*entity.MouvementStock
	ajustements map[string]*entity.AjustementInventaire
	pertes      []*entity.DeclarationPerte
	produits    map[string]*entity.Produit
}

func newMemStore() *memStore {
	return &memStore{
		lots:        map[string]*entity.Lot{},
		ajustements: map[string]*entity.AjustementInventaire{},
		produits:    map[string]*entity.Produit{},
	}
}

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

type memAjustementRepo struct{ s *memStore }

func (r *memAjustementRepo) CreateAjustement(_ context.Context, a *entity.AjustementInventaire) error {
	r.s.ajustements[a.ID] = a
	return nil
}

func (r *memAjustementRepo) GetAjustement(_ context.Context, id string) (*entity.AjustementInventaire, error) {
	return r.s.ajustements[id], nil
}

func (r *memAjustementRepo) GetAjustementForUpdate(ctx context.Context, id string) (*entity.AjustementInventaire, error) {
	return r.GetAjustement(ctx, id)
}

func (r *memAjustementRepo) UpdateAjustement(_ context.Context, a *entity.AjustementInventaire) error {
	r.s.ajustements[a.ID] = a
	return nil
}

func (r *memAjustementRepo) DerniereDeclaration(_ context.Context, userID, produitID string) (*time.Time, error) {
	var derniere *time.Time
	for _, a := range r.s.ajustements {
		if a.ComptePar != userID || a.ProduitID != produitID {
			continue
		}
		t := a.CreatedAt
		if derniere == nil || t.After(*derniere) {
			derniere = &t
		}
	}
	return derniere, nil
}

func (r *memAjustementRepo) EcartsRecents(_ context.Context, produitID string, n int) ([]decimal.Decimal, error) {
	tous := []*entity.AjustementInventaire{}
	for _, a := range r.s.ajustements {
		if a.ProduitID == produitID {
			tous = append(tous, a)
		}
	}
	sort.Slice(tous, func(i, j int) bool { return tous[i].CreatedAt.Before(tous[j].CreatedAt) })
	if len(tous) > n {
		tous = tous[len(tous)-n:]
	}
	out := make([]decimal.Decimal, len(tous))
	for i, a := range tous {
		out[i] = a.Ecart
	}
	return out, nil
}

func (r *memAjustementRepo) CreatePerte(_ context.Context, p *entity.DeclarationPerte) error {
	r.s.pertes = append(r.s.pertes, p)
	return nil
}

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

type memTxRunner struct{ s *memStore }

var _ stock.TxRunner = (*memTxRunner)(nil)

func (t *memTxRunner) RunStock(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	ajustementRepo repository.AjustementRepository,
) error) error {
	return fn(&memLotRepo{t.s}, &memMouvementRepo{t.s}, &memAjustementRepo{t.s})
}
