//go:build ordmap_disable_padding && !ordmap_enable_padding

package opt

// PaddingMult_ is force-disabled via the ordmap_disable_padding build tag.
// Use: go build -tags=ordmap_disable_padding
const PaddingMult_ = 0
