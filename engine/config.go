// config.go collects every tunable named across spec.md §4.9/§4.10 into one
// struct, loadable from TOML the way eval/nnue already loads its quantized
// container — reusing the same library rather than hand-rolling a second
// config format.

package engine

import (
	"io"

	"github.com/BurntSushi/toml"
)

// EngineConfig bundles every pruning, reduction and sizing parameter the
// search driver consults. Each field's toml tag gives its TOML key; a future
// UCI "configure" layer maps these onto the recognized option names.
type EngineConfig struct {
	HashMB   int  `toml:"hash_mb"`
	UseNNUE  bool `toml:"use_nnue"`
	NNUEPath string `toml:"nnue_path"`

	AspirationStartHalf  int32 `toml:"aspiration_start_half"`
	AspirationWidenFactor float64 `toml:"aspiration_widen_factor"`
	AspirationRetries    int   `toml:"aspiration_retries"`
	AspirationEnabledFrom int32 `toml:"aspiration_enabled_from"`

	RazorMaxDepth int32 `toml:"razor_max_depth"`
	RazorBase     int32 `toml:"razor_base"`
	RazorCoeff    int32 `toml:"razor_coeff"`

	RFPMaxDepth          int32 `toml:"rfp_max_depth"`
	RFPMargin            int32 `toml:"rfp_margin"`
	RFPImprovingReduction int32 `toml:"rfp_improving_reduction"`

	NMPMinDepth     int32 `toml:"nmp_min_depth"`
	NMPBase         int32 `toml:"nmp_base"`
	NMPDivisor      int32 `toml:"nmp_divisor"`
	NMPVerifyMaxDepth int32 `toml:"nmp_verify_max_depth"`

	IIDMinDepth  int32 `toml:"iid_min_depth"`
	IIDReduction int32 `toml:"iid_reduction"`

	LMPBase int32 `toml:"lmp_base"`
	LMPMult int32 `toml:"lmp_mult"`

	FutilityMaxDepth int32 `toml:"futility_max_depth"`
	FutilityMargin   int32 `toml:"futility_margin"`

	SEEPruningMarginPerDepth int32 `toml:"see_pruning_margin_per_depth"`

	LMRMinDepth int32   `toml:"lmr_min_depth"`
	LMRDivisor  float64 `toml:"lmr_divisor"`
	LMRMaxRatio float64 `toml:"lmr_max_ratio"`

	DeltaPruningMaterial int32 `toml:"delta_pruning_material"`

	ContinuationPlanes int `toml:"continuation_planes"`
}

// DefaultEngineConfig returns the values the engine starts with before any
// UCI "configure" command, chosen to be sane rather than tuned.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HashMB:  384,
		UseNNUE: true,

		AspirationStartHalf:   21,
		AspirationWidenFactor: 1.5,
		AspirationRetries:     4,
		AspirationEnabledFrom: 4,

		RazorMaxDepth: 3,
		RazorBase:     150,
		RazorCoeff:    40,

		RFPMaxDepth:           7,
		RFPMargin:             90,
		RFPImprovingReduction: 60,

		NMPMinDepth:       3,
		NMPBase:           3,
		NMPDivisor:        4,
		NMPVerifyMaxDepth: 6,

		IIDMinDepth:  4,
		IIDReduction: 2,

		LMPBase: 3,
		LMPMult: 2,

		FutilityMaxDepth: 6,
		FutilityMargin:   100,

		SEEPruningMarginPerDepth: -30,

		LMRMinDepth: 3,
		LMRDivisor:  2.1,
		LMRMaxRatio: 0.75,

		DeltaPruningMaterial: 200,

		ContinuationPlanes: continuationPlanes,
	}
}

// LoadConfigTOML decodes an EngineConfig from r, seeded with defaults for
// any field the document omits.
func LoadConfigTOML(r io.Reader) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}
