package content

import (
	"fmt"

	"github.com/mindurka/overdrive/consume"
	"github.com/mindurka/overdrive/efficiency"
)

// BuildType is the consumption update a block's buildings run every tick.
type BuildType = efficiency.Strategy[consume.Building]

// Registry holds every block type and the build type bound to it.
type Registry struct {
	blocks     []*Block
	byName     map[string]*Block
	buildTypes []BuildType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Block)}
}

// Add initialises a block, assigns its id and binds the vanilla build type.
func (r *Registry) Add(b *Block) (*Block, error) {
	if _, dup := r.byName[b.Name]; dup {
		return nil, fmt.Errorf("block %q already registered", b.Name)
	}
	b.ID = uint16(len(r.blocks))
	b.Init()
	r.blocks = append(r.blocks, b)
	r.byName[b.Name] = b
	r.buildTypes = append(r.buildTypes, efficiency.Vanilla[consume.Building])
	return b, nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(b *Block) *Block {
	b, err := r.Add(b)
	if err != nil {
		panic(fmt.Sprintf("content: %v", err))
	}
	return b
}

// Block returns the block with the given id.
func (r *Registry) Block(id uint16) *Block {
	return r.blocks[id]
}

// BlockByName looks up a block by its content name.
func (r *Registry) BlockByName(name string) (*Block, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// Blocks returns every registered block in id order.
func (r *Registry) Blocks() []*Block {
	return r.blocks
}

// BuildType returns the consumption update bound to a block.
func (r *Registry) BuildType(id uint16) BuildType {
	return r.buildTypes[id]
}

// OverrideBuildType replaces the build type of every block matching pred.
// It returns the number of blocks changed. Call it at load time only.
func (r *Registry) OverrideBuildType(pred func(*Block) bool, bt BuildType) int {
	n := 0
	for i, b := range r.blocks {
		if pred(b) {
			r.buildTypes[i] = bt
			n++
		}
	}
	return n
}
