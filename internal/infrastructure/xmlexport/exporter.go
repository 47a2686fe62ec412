// Package xmlexport serializa el inventario como XML. El digest SHA-256 se calcula sobre la
// forma canónica (C14N) del elemento <items>, así que no cambia mientras no cambie el contenido.
package xmlexport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// Namespace del documento exportado.
const Namespace = "urn:inventory-tracker:export:1"

var _ inventory.XMLRenderer = (*Exporter)(nil)

// Exporter implementa inventory.XMLRenderer con etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// RenderInventoryXML devuelve el documento completo y el digest hex de <items> canonicalizado.
func (e *Exporter) RenderInventoryXML(_ context.Context, snap inventory.Snapshot) ([]byte, string, error) {
	items := buildItems(snap)

	digest, err := Digest(items)
	if err != nil {
		return nil, "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("inventory")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("owner", snap.Owner.UID)
	if snap.Owner.DisplayName != "" {
		root.CreateAttr("owner_name", snap.Owner.DisplayName)
	}
	root.CreateAttr("generated_at", snap.GeneratedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("digest", digest)
	root.AddChild(items)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xml: serializar: %w", err)
	}
	return out, digest, nil
}

func buildItems(snap inventory.Snapshot) *etree.Element {
	items := etree.NewElement("items")
	items.CreateAttr("xmlns", Namespace)
	items.CreateAttr("count", strconv.Itoa(len(snap.Items)))
	for _, it := range snap.Items {
		el := items.CreateElement("item")
		el.CreateAttr("name", it.Name)
		el.CreateAttr("quantity", it.Quantity.String())
	}
	return items
}

// Digest SHA-256 (hex) de la forma canónica del elemento.
func Digest(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	raw, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("xml: serializar para digest: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("xml: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
