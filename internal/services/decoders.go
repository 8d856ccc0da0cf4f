package services

import (
	domain "deskprefs/internal/domain/preferences"

	"github.com/samber/lo"
)

// DecoderRegistry edits an ordered collection of custom decoders while
// keeping names unique. Not-found and name conflicts are reported through the
// boolean result.
type DecoderRegistry struct {
	list *[]domain.DecoderConfig
}

// NewDecoderRegistry returns a registry operating on list in place.
func NewDecoderRegistry(list *[]domain.DecoderConfig) *DecoderRegistry {
	return &DecoderRegistry{list: list}
}

// Add appends cfg unless a decoder with the same name exists.
func (r *DecoderRegistry) Add(cfg domain.DecoderConfig) bool {
	if r.indexOf(cfg.Name) != -1 {
		return false
	}
	*r.list = append(*r.list, cfg.Clone())
	return true
}

// Update replaces the fields of the decoder called oldName with cfg, keeping
// its position. An empty cfg.Name keeps the old name. Renaming onto another
// existing decoder fails.
func (r *DecoderRegistry) Update(oldName string, cfg domain.DecoderConfig) bool {
	idx := r.indexOf(oldName)
	if idx == -1 {
		return false
	}

	newName := cfg.Name
	if newName == "" {
		newName = oldName
	}
	// conflicted
	if newName != oldName && r.indexOf(newName) != -1 {
		return false
	}

	updated := cfg.Clone()
	updated.Name = newName
	if updated.EncodeArgs == nil {
		updated.EncodeArgs = (*r.list)[idx].EncodeArgs
	}
	if updated.DecodeArgs == nil {
		updated.DecodeArgs = (*r.list)[idx].DecodeArgs
	}
	(*r.list)[idx] = updated
	return true
}

// Remove deletes the decoder called name.
func (r *DecoderRegistry) Remove(name string) bool {
	idx := r.indexOf(name)
	if idx == -1 {
		return false
	}
	*r.list = append((*r.list)[:idx], (*r.list)[idx+1:]...)
	return true
}

// Get returns a copy of the decoder called name.
func (r *DecoderRegistry) Get(name string) (domain.DecoderConfig, bool) {
	d, ok := lo.Find(*r.list, func(d domain.DecoderConfig) bool {
		return d.Name == name
	})
	if !ok {
		return domain.DecoderConfig{}, false
	}
	return d.Clone(), true
}

// Names lists decoder names in insertion order.
func (r *DecoderRegistry) Names() []string {
	return lo.Map(*r.list, func(d domain.DecoderConfig, _ int) string {
		return d.Name
	})
}

func (r *DecoderRegistry) indexOf(name string) int {
	_, idx, ok := lo.FindIndexOf(*r.list, func(d domain.DecoderConfig) bool {
		return d.Name == name
	})
	if !ok {
		return -1
	}
	return idx
}
