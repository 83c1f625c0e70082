package appro

import (
	"context"
	"fmt"

	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// LignePourPDF ligne de BC enrichie du libellé produit pour le document.
type LignePourPDF struct {
	entity.BonCommandeLigne
	NomProduit  string
	UniteMesure string
}

// BcPDFGenerator génère le document PDF d'un bon de commande.
type BcPDFGenerator interface {
	GenerateBcPDF(ctx context.Context, bc *entity.BonCommande, fournisseur *entity.Fournisseur, lignes []LignePourPDF) ([]byte, error)
}

// PDFUseCase génération du PDF d'un bon de commande à envoyer au fournisseur.
type PDFUseCase struct {
	bcRepo          repository.BonCommandeRepository
	fournisseurRepo repository.FournisseurRepository
	produitRepo     repository.ProduitRepository
	generator       BcPDFGenerator
}

// NewPDFUseCase construit le cas d'usage.
func NewPDFUseCase(
	bcRepo repository.BonCommandeRepository,
	fournisseurRepo repository.FournisseurRepository,
	produitRepo repository.ProduitRepository,
	generator BcPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{bcRepo: bcRepo, fournisseurRepo: fournisseurRepo, produitRepo: produitRepo, generator: generator}
}

// DownloadBcPDF charge le BC et ses données liées puis génère le document.
// Un BC annulé n'a pas de document : il ne doit jamais partir chez le fournisseur.
func (uc *PDFUseCase) DownloadBcPDF(ctx context.Context, bcID string) (pdfBytes []byte, filename string, err error) {
	bc, err := uc.bcRepo.GetByID(ctx, bcID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: charger bon de commande: %w", err)
	}
	if bc == nil {
		return nil, "", domain.ErrNotFound
	}
	if bc.Statut == workflow.BcCancelled {
		return nil, "", fmt.Errorf("%w: le bon de commande est annulé", domain.ErrInvalidInput)
	}

	fournisseur, err := uc.fournisseurRepo.GetByID(ctx, bc.FournisseurID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: charger fournisseur: %w", err)
	}
	if fournisseur == nil {
		return nil, "", domain.ErrNotFound
	}

	ids := make([]string, 0, len(bc.Lignes))
	for _, l := range bc.Lignes {
		ids = append(ids, l.ProduitID)
	}
	produits, err := uc.produitRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: charger produits: %w", err)
	}

	lignes := make([]LignePourPDF, 0, len(bc.Lignes))
	for _, l := range bc.Lignes {
		nom := "Produit " + l.ProduitID
		unite := ""
		if p, ok := produits[l.ProduitID]; ok {
			nom = p.Nom
			unite = p.UniteMesure
		}
		lignes = append(lignes, LignePourPDF{BonCommandeLigne: l, NomProduit: nom, UniteMesure: unite})
	}

	pdfBytes, err = uc.generator.GenerateBcPDF(ctx, bc, fournisseur, lignes)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: génération: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", bc.Reference), nil
}
