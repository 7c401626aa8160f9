package backend

// Point is a plotted position: one x and one y per configured y field.
type Point struct {
	X  float64
	Ys []float64
}

// ProjectAll converts records into points. When xField is nil the x value of a
// point is its position in records. A positive window replaces the raw points
// with windowed sums, see windowSum.
func ProjectAll(records []Record, xField *int, yFields []int, window int) []Point {
	points := make([]Point, len(records))
	for i, rec := range records {
		x := float64(i)
		if xField != nil {
			x = rec.Field(*xField)
		}
		ys := make([]float64, len(yFields))
		for j, field := range yFields {
			ys[j] = rec.Field(field)
		}
		points[i] = Point{X: x, Ys: ys}
	}
	if window > 0 {
		points = windowSum(points, len(yFields), window)
	}
	return points
}

// windowSum derives one point for every window start k in [0, len(raw)-w-1).
// Each y is the sum (not the mean) of the w raw values starting at k, and x is
// taken from the last raw point of the window. The output is two points shorter
// than the number of complete windows; existing traces depend on both quirks.
func windowSum(raw []Point, ySeries, w int) []Point {
	n := len(raw) - w - 1
	if n <= 0 {
		return []Point{}
	}
	out := make([]Point, n)
	for k := range out {
		ys := make([]float64, ySeries)
		for _, p := range raw[k : k+w] {
			for j := range ys {
				ys[j] += p.Ys[j]
			}
		}
		out[k] = Point{X: raw[k+w-1].X, Ys: ys}
	}
	return out
}
