//go:build ordmap_enable_padding

package opt

// PaddingMult_ is force-enabled via the ordmap_enable_padding build tag.
// Use: go build -tags=ordmap_enable_padding
const PaddingMult_ = 1
