package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"moorstat/internal/catenary"
	"moorstat/internal/model"
)

// profileSamples is the number of arc-length samples per plotted line.
const profileSamples = 60

// PlotProfiles renders a side view (global x vs z) of every line's converged
// catenary shape to an image file; the format follows the path extension.
func PlotProfiles(path string, m *model.Model) error {
	p := plot.New()
	p.Title.Text = "mooring line profiles"
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "z [m]"
	p.Add(plotter.NewGrid())

	for i, l := range m.Lines {
		span, rise, cpsi, _ := l.Chord()
		in := catenary.Input{
			H:      l.H,
			V:      l.V,
			Length: l.Length,
			EA:     l.Type.EA,
			Omega:  l.Omega,
			Cb:     l.Type.Cb,
			ChordX: span,
			ChordZ: rise,
		}
		xs, zs, err := catenary.Shape(in, profileSamples)
		if err != nil {
			return fmt.Errorf("export: line %d: %w", i, err)
		}

		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j].X = l.Anchor.Position[0] + xs[j]*cpsi
			pts[j].Y = l.Anchor.Position[2] + zs[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("export: line %d: %w", i, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("line %d (%s)", i, l.Type.Name), line)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
