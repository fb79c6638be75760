//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !ordmap_disable_padding && !ordmap_enable_padding

package opt

// PaddingMult_ scales the per-bucket padding of the hash table.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
const PaddingMult_ = 0
