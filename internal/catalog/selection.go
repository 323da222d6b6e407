package catalog

import (
	"fmt"
	"strings"
	"sync"

	"storefront/internal/domain"
)

type VariantKind string

const (
	KindColor VariantKind = "color"
	KindSize  VariantKind = "size"
)

func ParseVariantKind(s string) (VariantKind, error) {
	switch VariantKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindColor:
		return KindColor, nil
	case KindSize:
		return KindSize, nil
	}
	return "", fmt.Errorf("unknown variant kind %q", s)
}

// Selection is what one session has picked for one product.
type Selection struct {
	Color          string
	Size           string
	DisplayedImage string
}

// SelectionState holds per-product selections for a single session. Nothing
// is pre-selected: a product without an entry shows its default image.
type SelectionState struct {
	mu sync.Mutex
	m  map[string]*Selection
}

func NewSelectionState() *SelectionState {
	return &SelectionState{m: make(map[string]*Selection)}
}

// Select overwrites the choice of kind for p. Values that are not among the
// product's parsed options are ignored. Choosing a color re-resolves the
// displayed image; choosing a size leaves it alone.
func (s *SelectionState) Select(p domain.Product, kind VariantKind, value string) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.getOrCreateLocked(p)
	value = strings.TrimSpace(value)
	switch kind {
	case KindColor:
		if containsOption(ParseOptions(p.ColorOptionsRaw), value) {
			sel.Color = value
			sel.DisplayedImage = ResolveDisplayImage(p, sel.Color)
		}
	case KindSize:
		if containsOption(ParseOptions(p.SizeOptionsRaw), value) {
			sel.Size = value
		}
	}
	return *sel
}

// Get returns the current selection for productID without creating one.
func (s *SelectionState) Get(productID string) (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.m[productID]
	if !ok {
		return Selection{}, false
	}
	return *sel, true
}

// DisplayImage returns the image currently shown for p, creating the entry on
// first use. It is re-resolved against p so a catalog reload is picked up.
func (s *SelectionState) DisplayImage(p domain.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.getOrCreateLocked(p)
	sel.DisplayedImage = ResolveDisplayImage(p, sel.Color)
	return sel.DisplayedImage
}

func (s *SelectionState) getOrCreateLocked(p domain.Product) *Selection {
	if sel, ok := s.m[p.ID]; ok {
		return sel
	}
	sel := &Selection{DisplayedImage: ResolveDisplayImage(p, "")}
	s.m[p.ID] = sel
	return sel
}
