package domain

// Stage is a startup's maturity phase on a fixed ordered scale.
type Stage string

const (
	StageIdea    Stage = "idea"
	StageMVP     Stage = "mvp"
	StagePreSeed Stage = "pre_seed"
	StageSeed    Stage = "seed"
	StageSeriesA Stage = "series_a"
	StageSeriesB Stage = "series_b"
	StageGrowth  Stage = "growth"
	StageMature  Stage = "mature"
)

// stageOrder is the canonical ordering used for all stage-distance logic.
// Keep the scale explicit; nothing may rely on declaration order elsewhere.
var stageOrder = []Stage{
	StageIdea, StageMVP, StagePreSeed, StageSeed,
	StageSeriesA, StageSeriesB, StageGrowth, StageMature,
}

// StageIndex returns the position of s on the ordered scale and whether the
// stage is known. Unknown stages should be unrepresentable for validated
// input; callers fall back to a fixed low score when ok is false.
func StageIndex(s Stage) (int, bool) {
	for i, st := range stageOrder {
		if st == s {
			return i, true
		}
	}
	return 0, false
}

// StageDistance returns the absolute index distance between two stages.
// It reports ok=false when either stage is off the scale.
func StageDistance(a, b Stage) (int, bool) {
	ai, ok := StageIndex(a)
	if !ok {
		return 0, false
	}
	bi, ok := StageIndex(b)
	if !ok {
		return 0, false
	}
	d := ai - bi
	if d < 0 {
		d = -d
	}
	return d, true
}

// Stages returns a copy of the ordered stage scale.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}
