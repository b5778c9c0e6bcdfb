package shapes

import (
	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/svg"
)

// LineType selects how an edge is drawn. The zero value is Hadron.
type LineType int

// Supported line types.
const (
	Hadron LineType = iota
	Identity
	Photon
	FinalPhoton
	Gluon
	Multigluon
	Boson
	Fermion
)

var lineTypeNames = [...]string{
	Hadron:      "hadron",
	Identity:    "identity",
	Photon:      "photon",
	FinalPhoton: "final_photon",
	Gluon:       "gluon",
	Multigluon:  "multigluon",
	Boson:       "boson",
	Fermion:     "fermion",
}

// String returns the style tag of t.
func (t LineType) String() string {
	if t < 0 || int(t) >= len(lineTypeNames) {
		return "hadron"
	}
	return lineTypeNames[t]
}

// LineTypes returns every line type in declaration order.
func LineTypes() []LineType {
	out := make([]LineType, len(lineTypeNames))
	for i := range out {
		out[i] = LineType(i)
	}
	return out
}

// ParseLineType maps a style tag to a line type. An empty tag is Hadron.
// For unknown tags it returns Hadron and false.
func ParseLineType(tag string) (LineType, bool) {
	if tag == "" {
		return Hadron, true
	}
	for i, name := range lineTypeNames {
		if name == tag {
			return LineType(i), true
		}
	}
	return Hadron, false
}

// ParseLineTypeStrict is ParseLineType with unknown tags reported as
// ErrCodeInvalidLineType.
func ParseLineTypeStrict(tag string) (LineType, error) {
	t, ok := ParseLineType(tag)
	if !ok {
		return t, errors.New(errors.ErrCodeInvalidLineType, "unknown line type %q", tag)
	}
	return t, nil
}

// Draw builds the drawable for an edge of line type t along s.
func Draw(t LineType, s layout.Spline, style map[string]string) (*svg.Element, error) {
	switch t {
	case Identity:
		return IdentityLine(s, style)
	case Photon:
		return PhotonLine(s, style)
	case FinalPhoton:
		return FinalPhotonLine(s, style)
	case Gluon:
		return GluonLine(s, style)
	case Multigluon:
		return MultigluonLine(s, style)
	case Boson:
		return BosonLine(s, style)
	case Fermion:
		return FermionLine(s, style)
	default:
		return HadronLine(s, style)
	}
}
