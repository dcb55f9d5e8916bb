// Package input loads mooring models from yaml files: a line-type dictionary,
// a node table, and a line table, mirroring the classic mooring input-file
// sections.
package input

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"moorstat/internal/model"
)

// File is the on-disk model schema.
type File struct {
	Environment EnvSpec        `yaml:"environment"`
	LineTypes   []LineTypeSpec `yaml:"line_types"`
	Nodes       []NodeSpec     `yaml:"nodes"`
	Lines       []LineSpec     `yaml:"lines"`
}

type EnvSpec struct {
	Gravity    float64 `yaml:"gravity"`
	SeaDensity float64 `yaml:"sea_density"`
	Depth      float64 `yaml:"depth"`
}

type LineTypeSpec struct {
	Name     string  `yaml:"name"`
	Diameter float64 `yaml:"diameter"`
	MassDen  float64 `yaml:"mass_density"`
	EA       float64 `yaml:"ea"`
	Cb       float64 `yaml:"cb"`
	CIntern  float64 `yaml:"c_intern"`
	Cdn      float64 `yaml:"cdn"`
	Cdt      float64 `yaml:"cdt"`
}

type NodeSpec struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"` // fix | connect | vessel
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Mass   float64 `yaml:"mass"`
	Volume float64 `yaml:"volume"`
	FX     float64 `yaml:"fx"`
	FY     float64 `yaml:"fy"`
	FZ     float64 `yaml:"fz"`
}

type LineSpec struct {
	Type     string  `yaml:"type"`
	Length   float64 `yaml:"length"`
	Anchor   string  `yaml:"anchor"`
	Fairlead string  `yaml:"fairlead"`
	H0       float64 `yaml:"h0"` // optional initial tension guess
	V0       float64 `yaml:"v0"`
}

// Load reads and builds a model from path.
func Load(path string) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("input: %s: %w", path, err)
	}
	return Build(&f)
}

// Build assembles a model from a parsed file, naming the offending entry in
// every error.
func Build(f *File) (*model.Model, error) {
	env := model.DefaultEnv()
	if f.Environment.Gravity > 0 {
		env.Gravity = f.Environment.Gravity
	}
	if f.Environment.SeaDensity > 0 {
		env.SeaDensity = f.Environment.SeaDensity
	}
	if f.Environment.Depth > 0 {
		env.Depth = f.Environment.Depth
	}
	m := model.New(env)

	for _, lt := range f.LineTypes {
		if lt.Name == "" {
			return nil, fmt.Errorf("input: line type with empty name")
		}
		err := m.AddLineType(&model.LineType{
			Name:     lt.Name,
			Diameter: lt.Diameter,
			MassDen:  lt.MassDen,
			EA:       lt.EA,
			Cb:       lt.Cb,
			CIntern:  lt.CIntern,
			Cdn:      lt.Cdn,
			Cdt:      lt.Cdt,
		})
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
	}

	for _, ns := range f.Nodes {
		kind, err := parseKind(ns.Type)
		if err != nil {
			return nil, fmt.Errorf("input: node %q: %w", ns.Name, err)
		}
		n := model.NewNode(ns.Name, kind, [3]float64{ns.X, ns.Y, ns.Z})
		n.Mass = ns.Mass
		n.Volume = ns.Volume
		n.Applied = [3]float64{ns.FX, ns.FY, ns.FZ}
		if err := m.AddNode(n); err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
	}

	for i, ls := range f.Lines {
		lt, ok := m.LineType(ls.Type)
		if !ok {
			return nil, fmt.Errorf("input: line %d: unknown line type %q", i, ls.Type)
		}
		anchor, ok := m.Node(ls.Anchor)
		if !ok {
			return nil, fmt.Errorf("input: line %d: unknown anchor node %q", i, ls.Anchor)
		}
		fairlead, ok := m.Node(ls.Fairlead)
		if !ok {
			return nil, fmt.Errorf("input: line %d: unknown fairlead node %q", i, ls.Fairlead)
		}
		if ls.Length <= 0 {
			return nil, fmt.Errorf("input: line %d: non-positive length %g", i, ls.Length)
		}
		l := model.NewLine(lt, ls.Length, anchor, fairlead)
		l.H, l.V = ls.H0, ls.V0
		if err := m.AddLine(l); err != nil {
			return nil, fmt.Errorf("input: line %d: %w", i, err)
		}
	}
	return m, nil
}

func parseKind(s string) (model.NodeKind, error) {
	switch s {
	case "fix", "fixed":
		return model.NodeFix, nil
	case "connect":
		return model.NodeConnect, nil
	case "vessel":
		return model.NodeVessel, nil
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}
