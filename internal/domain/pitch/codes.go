package pitch

// Type is a Statcast pitch-type code, e.g. "FF" for a four-seam fastball.
type Type string

// Known pitch-type codes. Anything else parses to Unknown and is dropped
// by the dataset loader before it reaches the calculators.
const (
	FourSeam      Type = "FF"
	Sinker        Type = "SI"
	Cutter        Type = "FC"
	Splitter      Type = "FS"
	Changeup      Type = "CH"
	Slider        Type = "SL"
	Curveball     Type = "CU"
	KnuckleCurve  Type = "KC"
	Sweeper       Type = "SV"
	SweepingCurve Type = "ST"
	SlowCurve     Type = "CS"
	Knuckleball   Type = "KN"
	Unknown       Type = ""
)

// typeNames maps each known code to its display name.
var typeNames = map[Type]string{
	FourSeam:      "Four-Seam Fastball",
	Sinker:        "Sinker",
	Cutter:        "Cutter",
	Splitter:      "Splitter",
	Changeup:      "Changeup",
	Slider:        "Slider",
	Curveball:     "Curveball",
	KnuckleCurve:  "Knuckle Curve",
	Sweeper:       "Sweeper",
	SweepingCurve: "Sweeping Curve",
	SlowCurve:     "Slow Curve",
	Knuckleball:   "Knuckleball",
}

// fastballLike pitch types run to the pitcher's arm side; breakingLike
// run to the glove side. Knuckleballs belong to neither set and keep
// their measured movement sign.
var (
	fastballLike = map[Type]bool{
		FourSeam: true, Sinker: true, Cutter: true, Splitter: true, Changeup: true,
	}
	breakingLike = map[Type]bool{
		Slider: true, Curveball: true, KnuckleCurve: true,
		Sweeper: true, SweepingCurve: true, SlowCurve: true,
	}
)

// ParseType maps a raw code to a known Type, or Unknown.
func ParseType(code string) Type {
	t := Type(code)
	if _, ok := typeNames[t]; !ok {
		return Unknown
	}
	return t
}

// Known reports whether the type is one of the registered codes.
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// Name returns the display name of the type, or "Unknown".
func (t Type) Name() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// FastballLike reports whether the type belongs to the fastball category.
func (t Type) FastballLike() bool { return fastballLike[t] }

// BreakingLike reports whether the type belongs to the breaking-ball category.
func (t Type) BreakingLike() bool { return breakingLike[t] }

// Types returns all known pitch types in a stable display order.
func Types() []Type {
	return []Type{
		FourSeam, Sinker, Cutter, Splitter, Changeup,
		Slider, Curveball, KnuckleCurve, Sweeper, SweepingCurve, SlowCurve,
		Knuckleball,
	}
}
