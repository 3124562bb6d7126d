package pitch

import "math"

// AdjustPolarity returns the observation with the sign of its horizontal
// break normalized by pitch category and throwing hand: for right-handed
// pitchers fastball-like types run to the arm side (positive) and
// breaking-like types to the glove side (negative); for left-handed
// pitchers the signs mirror. Types in neither category keep their
// measured value.
//
// The adjustment is presentation-side normalization. Consistency scores
// are computed on raw movement, where the sign carries real variance.
func AdjustPolarity(o Observation) Observation {
	mag := math.Abs(o.HorzBreak)
	switch {
	case o.Type.FastballLike():
		if o.Throws == Left {
			o.HorzBreak = -mag
		} else {
			o.HorzBreak = mag
		}
	case o.Type.BreakingLike():
		if o.Throws == Left {
			o.HorzBreak = mag
		} else {
			o.HorzBreak = -mag
		}
	}
	return o
}
