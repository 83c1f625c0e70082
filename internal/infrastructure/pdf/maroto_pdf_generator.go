// Package pdf implémente le document "Bon de Commande" envoyé aux fournisseurs.
//
// Layout de la page A4 :
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER : Laiterie + référence BC + date                    │
//	│  ───────────────────────────────────────────────────────── │
//	│  FOURNISSEUR : nom + contact + adresse                      │
//	│  LIVRAISON : adresse + date prévue                          │
//	│  ───────────────────────────────────────────────────────── │
//	│  TABLE : Qté | Désignation | Unité | P.U. HT | Total HT     │
//	│  ───────────────────────────────────────────────────────── │
//	│  TOTAL HT                                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appappro "github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 86, Blue: 63}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implémente appro.BcPDFGenerator avec Maroto v2.
type MarotoPDFGenerator struct {
	raisonSociale string
}

// NewMarotoPDFGenerator construit le générateur avec la raison sociale de
// l'émetteur (imprimée en en-tête).
func NewMarotoPDFGenerator(raisonSociale string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{raisonSociale: raisonSociale}
}

var _ appappro.BcPDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateBcPDF génère le PDF et retourne ses bytes.
func (g *MarotoPDFGenerator) GenerateBcPDF(
	_ context.Context,
	bc *entity.BonCommande,
	fournisseur *entity.Fournisseur,
	lignes []appappro.LignePourPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de Commande "+bc.Reference, true).
		WithAuthor(g.raisonSociale, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.raisonSociale, bc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(fournisseurRow(fournisseur))
	m.AddRows(livraisonRow(bc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLigneRows(lignes) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(bc))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: générer document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow : raison sociale (gauche), référence + date (droite).
func headerRow(raisonSociale string, bc *entity.BonCommande) core.Row {
	date := bc.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(raisonSociale, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("BON DE COMMANDE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(bc.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date : "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// fournisseurRow : destinataire de la commande.
func fournisseurRow(f *entity.Fournisseur) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FOURNISSEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(f.Nom, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email : %s   |   Tél : %s   |   Adresse : %s",
				nonVide(f.Email, "—"),
				nonVide(f.Telephone, "—"),
				nonVide(f.Adresse, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// livraisonRow : adresse et date de livraison attendues.
func livraisonRow(bc *entity.BonCommande) core.Row {
	datePrevue := "—"
	if bc.DateLivraisonPrevue != nil {
		datePrevue = bc.DateLivraisonPrevue.Format("02/01/2006")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("LIVRAISON", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Adresse : %s   |   Date prévue : %s",
				nonVide(bc.AdresseLivraison, "—"), datePrevue,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow : en-tête de la table des lignes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qté", 2, align.Center),
		h("Désignation", 5, align.Left),
		h("Unité", 1, align.Center),
		h("P.U. HT", 2, align.Right),
		h("Total HT", 2, align.Right),
	)
}

// tableLigneRows : une ligne de table par ligne du BC.
func tableLigneRows(lignes []appappro.LignePourPDF) []core.Row {
	result := make([]core.Row, 0, len(lignes))
	for _, l := range lignes {
		total := l.Quantite.Mul(l.PrixUnitaire)
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.Quantite.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.NomProduit,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.UniteMesure,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.PrixUnitaire.StringFixed(2)+" €",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				total.StringFixed(2)+" €",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow : total hors taxes, aligné à droite.
func totalRow(bc *entity.BonCommande) core.Row {
	return row.New(10).Add(
		col.New(7),
		col.New(3).Add(text.New("TOTAL HT :", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New(bc.TotalHT().StringFixed(2)+" €", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func nonVide(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
