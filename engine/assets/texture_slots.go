package assets

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/texture"
)

const (
	// MaxTextures is the texture-array capacity, default slot included.
	MaxTextures = 512

	// DefaultTextureName names slot 0, the 1x1 white texture.
	DefaultTextureName = "default_white_texture"
)

// TextureSlots assigns stable texture-array indices to named textures. Slot 0 is the default
// white texture. Indices are never reused or compacted.
type TextureSlots struct {
	mu       *sync.Mutex
	names    map[string]uint32
	textures []*texture.Texture
	dirty    bool
}

// NewTextureSlots creates the table with white in slot 0. The table starts dirty so the first
// binding update builds the array.
//
// Parameters:
//   - white: the default texture
//
// Returns:
//   - *TextureSlots: the table
func NewTextureSlots(white *texture.Texture) *TextureSlots {
	return &TextureSlots{
		mu:       &sync.Mutex{},
		names:    map[string]uint32{DefaultTextureName: 0},
		textures: []*texture.Texture{white},
		dirty:    true,
	}
}

// Register returns the slot of name, assigning the next free slot on first registration.
// Re-registering a name returns its existing index and leaves the table unchanged.
// It panics when the next index would be MaxTextures.
//
// Parameters:
//   - name: the stable key, usually the source path
//   - tex: the texture to place in the slot
//
// Returns:
//   - uint32: the slot index
func (s *TextureSlots) Register(name string, tex *texture.Texture) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.names[name]; ok {
		return idx
	}
	idx := uint32(len(s.textures))
	if idx == MaxTextures {
		panic(fmt.Sprintf("texture array full: cannot register %q, all %d slots are in use", name, MaxTextures))
	}
	s.textures = append(s.textures, tex)
	s.names[name] = idx
	s.dirty = true
	return idx
}

// Index returns the slot of name.
func (s *TextureSlots) Index(name string) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.names[name]
	return idx, ok
}

// At returns the texture in slot index, or nil when the slot is unassigned.
func (s *TextureSlots) At(index uint32) *texture.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(index) >= len(s.textures) {
		return nil
	}
	return s.textures[index]
}

// Len returns the number of assigned slots, default included.
func (s *TextureSlots) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.textures)
}

// Textures returns the assigned slots in index order.
func (s *TextureSlots) Textures() []*texture.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*texture.Texture, len(s.textures))
	copy(out, s.textures)
	return out
}

// Dirty reports whether a registration happened since MarkClean.
func (s *TextureSlots) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *TextureSlots) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}
