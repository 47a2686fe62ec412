package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// Snapshot instantánea exportable de un inventario.
type Snapshot struct {
	Owner       entity.Identity
	Items       []entity.Item
	GeneratedAt time.Time
}

// PDFRenderer genera el reporte PDF del inventario.
type PDFRenderer interface {
	RenderInventoryPDF(ctx context.Context, snap Snapshot) ([]byte, error)
}

// XMLRenderer genera la exportación XML y el digest de su forma canónica.
type XMLRenderer interface {
	RenderInventoryXML(ctx context.Context, snap Snapshot) (doc []byte, digest string, err error)
}
