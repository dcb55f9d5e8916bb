package catenary

import "math"

// Shape samples the line profile at n+1 points of unstretched arc length,
// anchor to fairlead, in the local vertical plane of the line. x runs along
// the azimuth, z up from the anchor. Used for profile output only; the solver
// never calls it.
func Shape(in Input, n int) (xs, zs []float64, err error) {
	if _, err = Eval(in); err != nil {
		return nil, nil, err
	}
	if n < 1 {
		n = 1
	}
	xs = make([]float64, n+1)
	zs = make([]float64, n+1)

	w := in.Omega
	lu := in.Length
	for i := 0; i <= n; i++ {
		s := lu * float64(i) / float64(n)
		switch {
		case math.Abs(w) < weightTol:
			// straight chord; slack sag is not resolved
			f := s / lu
			xs[i] = f * in.ChordX
			zs[i] = f * in.ChordZ
		case w > 0 && in.V >= 0 && in.V < w*lu:
			h := clampH(in.H, w, lu)
			lb := lu - in.V/w
			if s <= lb {
				// resting segment, stretched; friction tapering not resolved
				xs[i] = s + h*s/in.EA
				zs[i] = 0
			} else {
				u := w * (s - lb) / h
				xs[i] = lb + h/w*math.Asinh(u) + h*s/in.EA
				zs[i] = h/w*(math.Sqrt(1+u*u)-1) + w*(s-lb)*(s-lb)/(2*in.EA)
			}
		default:
			h := clampH(in.H, w, lu)
			va := in.V - w*lu
			t0 := va / h
			ts := (va + w*s) / h
			xs[i] = h/w*(math.Asinh(ts)-math.Asinh(t0)) + h*s/in.EA
			zs[i] = h/w*(math.Sqrt(1+ts*ts)-math.Sqrt(1+t0*t0)) + (va*s+w*s*s/2)/in.EA
		}
	}
	return xs, zs, nil
}
