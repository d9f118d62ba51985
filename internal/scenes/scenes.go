// Package scenes holds the benchmark scene table.
//
// The table is built once from configuration and never changes afterwards:
// a Registry has no mutating methods and hands out copies of its scenes.
package scenes

import (
	"fmt"
	"strconv"
)

// Vec3 is a numeric triple.
type Vec3 [3]float64

// String formats the triple as three space-separated numbers.
func (v Vec3) String() string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

func (v Vec3) args() []string {
	return []string{formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2])}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Camera places the viewer in a scene.
type Camera struct {
	Position Vec3
	Up       Vec3
	Focus    Vec3
}

// Args returns the renderer arguments for the camera:
// -vp x y z -vu x y z -vi x y z.
func (c Camera) Args() []string {
	args := make([]string, 0, 12)
	args = append(args, "-vp")
	args = append(args, c.Position.args()...)
	args = append(args, "-vu")
	args = append(args, c.Up.args()...)
	args = append(args, "-vi")
	args = append(args, c.Focus.args()...)
	return args
}

// Scene is one named benchmark test case.
type Scene struct {
	Name   string
	File   string
	Camera Camera
	Params []string // extra renderer arguments
}

// Mode selects the renderer used for a run.
type Mode int

const (
	ModePT Mode = iota
	ModeSciVis
)

// Name returns the mode name used in run identifiers and file names.
func (m Mode) Name() string {
	switch m {
	case ModePT:
		return "pt"
	case ModeSciVis:
		return "scivis"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Flag returns the value passed to the renderer's -r option.
func (m Mode) Flag() string {
	switch m {
	case ModePT:
		return "pt"
	case ModeSciVis:
		return "sv"
	default:
		return ""
	}
}

func (m Mode) String() string {
	return m.Name()
}

// Renderer selections accepted by ParseModes.
const (
	RendererBoth   = "both"
	RendererSciVis = "scivis"
	RendererPT     = "pt"
)

// ParseModes converts a renderer selection into the modes to run, in run
// order. An empty selection means both.
func ParseModes(selection string) ([]Mode, error) {
	switch selection {
	case "", RendererBoth:
		return []Mode{ModePT, ModeSciVis}, nil
	case RendererSciVis:
		return []Mode{ModeSciVis}, nil
	case RendererPT:
		return []Mode{ModePT}, nil
	default:
		return nil, fmt.Errorf("invalid renderer %q (must be %s, %s or %s)", selection, RendererBoth, RendererSciVis, RendererPT)
	}
}

// RunID returns the identifier of a scene run in the given mode, for example
// "fiu1_pt". Baseline rows and image file names are keyed by it.
func RunID(name string, mode Mode) string {
	return name + "_" + mode.Name()
}
