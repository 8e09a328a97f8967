// Package lsystem expands parametric L-systems and interprets the result as
// 3D turtle geometry: capped tubes for strokes and fan-triangulated polygons
// for closed outlines.
package lsystem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/geom"
)

var (
	ErrInvalidRule    = errors.New("lsystem: invalid rule")
	ErrStackUnderflow = errors.New("lsystem: pop with empty stack")
	ErrPolygonNesting = errors.New("lsystem: polygon already under construction")
	ErrPolygonNotOpen = errors.New("lsystem: end polygon with none open")
)

// Tube is a stroke segment, rendered as a cylinder with hemisphere caps.
type Tube struct {
	Start  mgl32.Vec3
	End    mgl32.Vec3
	Radius float32
}

// Polygon collects points in insertion order and fan-triangulates on the fly:
// every point past the second appends the triangle {0, n-2, n-1}.
type Polygon struct {
	Points  []mgl32.Vec3
	Indices []int
}

func (p *Polygon) AddPoint(pt mgl32.Vec3) {
	p.Points = append(p.Points, pt)
	if n := len(p.Points); n >= 3 {
		p.Indices = append(p.Indices, 0, n-2, n-1)
	}
}

// TriangleCount returns the number of fan triangles the polygon yields.
func (p *Polygon) TriangleCount() int {
	return len(p.Indices) / 3
}

// turtleState is the saved pose for '(' / ')'. The up vector is implicit as
// cross(front, right).
type turtleState struct {
	stepSize float32
	radius   float32
	pos      mgl32.Vec3
	front    mgl32.Vec3
	right    mgl32.Vec3
}

// Lsystem holds one expanded system and its interpreted geometry.
//
// Sequence length grows geometrically with the generation count; values of n
// above ~10 can exhaust memory for branching rule sets. No artificial cap is
// imposed.
type Lsystem struct {
	Id lumen.AssetId

	renderFromObject *geom.Transform
	objectFromRender *geom.Transform

	radius      float32
	stepSize    float32
	angle       float32
	radiusScale float32

	nGenerations int
	axiom        string
	rules        *Trie
	sequence     string

	tubes    []Tube
	polygons []Polygon

	log lumen.Logger
}

// New parses parameters, expands the axiom and runs the turtle. Parameters
// and defaults: radius 0.05, stepsize 1.0, angle 28.0 (degrees),
// radiusscale 0.9, n 3, axiom "", rules [] of "KEY=VALUE" entries.
func New(renderFromObject, objectFromRender *geom.Transform, params *lumen.ParamSet, log lumen.Logger) (*Lsystem, error) {
	l := &Lsystem{
		Id:               lumen.NewAssetId(),
		renderFromObject: renderFromObject,
		objectFromRender: objectFromRender,
		radius:           params.GetOneFloat("radius", 0.05),
		stepSize:         params.GetOneFloat("stepsize", 1.0),
		angle:            params.GetOneFloat("angle", 28.0),
		radiusScale:      params.GetOneFloat("radiusscale", 0.9),
		nGenerations:     params.GetOneInt("n", 3),
		axiom:            params.GetOneString("axiom", ""),
		rules:            NewTrie(),
		log:              lumen.OrNop(log),
	}

	for _, raw := range params.GetStringArray("rules") {
		rule := strings.ReplaceAll(raw, " ", "")
		parts := strings.Split(rule, "=")
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRule, raw)
		}
		if err := l.rules.Insert(parts[0], parts[1]); err != nil {
			return nil, err
		}
	}

	l.sequence = l.generateSequence()
	if err := l.run(); err != nil {
		return nil, err
	}
	return l, nil
}

// Sequence returns the fully rewritten command string.
func (l *Lsystem) Sequence() string {
	return l.sequence
}

// Tubes returns the stroke segments the turtle produced.
func (l *Lsystem) Tubes() []Tube {
	return l.tubes
}

// Polygons returns the committed polygons.
func (l *Lsystem) Polygons() []Polygon {
	return l.polygons
}

// generateSequence rewrites the axiom for nGenerations, longest rule key
// first at every position; unmatched characters pass through unchanged.
func (l *Lsystem) generateSequence() string {
	seq := l.axiom
	for gen := 0; gen < l.nGenerations; gen++ {
		var next strings.Builder
		next.Grow(len(seq))
		for i := 0; i < len(seq); {
			frag, ni := l.rules.Match(seq, i)
			next.WriteString(frag)
			i = ni
		}
		seq = next.String()
		l.log.Debugf("lsystem %s: generation %d, %d chars", l.Id, gen+1, len(seq))
	}
	return seq
}

// rotateDeg rotates v around axis by deg degrees.
func rotateDeg(v, axis mgl32.Vec3, deg float32) mgl32.Vec3 {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), axis).Rotate(v)
}

// run interprets the sequence. Unknown characters are no-ops so rule symbols
// that only drive rewriting pass through silently.
func (l *Lsystem) run() error {
	pos := mgl32.Vec3{0, 0, 0}
	front := mgl32.Vec3{0, 0, 1}
	right := mgl32.Vec3{1, 0, 0}
	stepSize := l.stepSize
	radius := l.radius

	var stack []turtleState
	var polygon *Polygon

	for _, c := range l.sequence {
		switch c {
		case '>':
			next := pos.Add(front.Mul(stepSize))
			l.tubes = append(l.tubes, Tube{Start: pos, End: next, Radius: radius})
			pos = next
		case '~':
			pos = pos.Add(front.Mul(stepSize))
		case '+':
			front = rotateDeg(front, right, l.angle)
		case '-':
			front = rotateDeg(front, right, -l.angle)
		case '&':
			up := front.Cross(right)
			front = rotateDeg(front, up, l.angle)
			right = rotateDeg(right, up, l.angle)
		case '^':
			up := front.Cross(right)
			front = rotateDeg(front, up, -l.angle)
			right = rotateDeg(right, up, -l.angle)
		case '`':
			right = rotateDeg(right, front, l.angle)
		case '/':
			right = rotateDeg(right, front, -l.angle)
		case '|':
			front = rotateDeg(front, right, 180)
		case '(':
			stack = append(stack, turtleState{
				stepSize: stepSize,
				radius:   radius,
				pos:      pos,
				front:    front,
				right:    right,
			})
		case ')':
			if len(stack) == 0 {
				return fmt.Errorf("%w: %s", ErrStackUnderflow, l.sequence)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stepSize = top.stepSize
			radius = top.radius
			pos = top.pos
			front = top.front
			right = top.right
		case '\'':
			radius *= l.radiusScale
		case '{':
			if polygon != nil {
				return fmt.Errorf("%w: %s", ErrPolygonNesting, l.sequence)
			}
			polygon = &Polygon{}
		case '}':
			if polygon == nil {
				return fmt.Errorf("%w: %s", ErrPolygonNotOpen, l.sequence)
			}
			l.polygons = append(l.polygons, *polygon)
			polygon = nil
		case '@':
			if polygon == nil {
				l.log.Warnf("lsystem %s: '@' outside polygon, ignored", l.Id)
			} else {
				polygon.AddPoint(pos)
			}
		}
	}
	return nil
}
