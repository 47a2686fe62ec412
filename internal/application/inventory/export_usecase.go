package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// ExportUseCase exporta la colección completa (recién leída) como PDF o XML.
type ExportUseCase struct {
	store *Store
	pdf   PDFRenderer
	xml   XMLRenderer
	now   func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(store *Store, pdf PDFRenderer, xml XMLRenderer) *ExportUseCase {
	return &ExportUseCase{store: store, pdf: pdf, xml: xml, now: time.Now}
}

// PDF devuelve el reporte PDF.
func (uc *ExportUseCase) PDF(ctx context.Context, identity *entity.Identity) ([]byte, error) {
	snap, err := uc.snapshot(ctx, identity)
	if err != nil {
		return nil, err
	}
	out, err := uc.pdf.RenderInventoryPDF(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("exportar pdf: %w", err)
	}
	return out, nil
}

// XML devuelve el documento XML y el digest de su forma canónica (para ETag).
func (uc *ExportUseCase) XML(ctx context.Context, identity *entity.Identity) ([]byte, string, error) {
	snap, err := uc.snapshot(ctx, identity)
	if err != nil {
		return nil, "", err
	}
	doc, digest, err := uc.xml.RenderInventoryXML(ctx, snap)
	if err != nil {
		return nil, "", fmt.Errorf("exportar xml: %w", err)
	}
	return doc, digest, nil
}

func (uc *ExportUseCase) snapshot(ctx context.Context, identity *entity.Identity) (Snapshot, error) {
	if identity == nil {
		return Snapshot{}, domain.ErrNoIdentity
	}
	items, err := uc.store.List(ctx, identity)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Owner: *identity, Items: items, GeneratedAt: uc.now().UTC()}, nil
}
