package backend

import "testing"

func makeRecords(n int, f func(i int) Record) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestProjectAll(t *testing.T) {
	recs := makeRecords(5, func(i int) Record {
		return Record{float64(i * 10), float64(i), float64(-i)}
	})
	points := ProjectAll(recs, nil, []int{2, 1}, 0)
	if len(points) != len(recs) {
		t.Fatalf("expected %d points, got %d", len(recs), len(points))
	}
	for i, p := range points {
		if p.X != float64(i) {
			t.Errorf("expected x %d for point %d, got %v", i, i, p.X)
		}
		if len(p.Ys) != 2 || p.Ys[0] != float64(-i) || p.Ys[1] != float64(i) {
			t.Errorf("expected ys [%d %d] for point %d, got %v", -i, i, i, p.Ys)
		}
	}
}

func TestProjectAllXField(t *testing.T) {
	x := 0
	outOfRange := 7
	recs := []Record{{3, 1}, {5, 2}, {4}}
	points := ProjectAll(recs, &x, []int{1, outOfRange}, 0)
	expectX := []float64{3, 5, 4}
	expectY := [][]float64{{1, 0}, {2, 0}, {0, 0}}
	for i, p := range points {
		if p.X != expectX[i] {
			t.Errorf("[%d] expected x %v, got %v", i, expectX[i], p.X)
		}
		for j := range expectY[i] {
			if p.Ys[j] != expectY[i][j] {
				t.Errorf("[%d] expected y%d %v, got %v", i, j, expectY[i][j], p.Ys[j])
			}
		}
	}
	missing := ProjectAll(recs, &outOfRange, []int{0}, 0)
	for i, p := range missing {
		if p.X != 0 {
			t.Errorf("[%d] expected out of range x to be 0, got %v", i, p.X)
		}
	}
}

func TestProjectAllWindow(t *testing.T) {
	const n, w = 10, 3
	recs := makeRecords(n, func(i int) Record {
		return Record{float64(100 + i), float64(i), float64(i * i)}
	})
	x := 0
	points := ProjectAll(recs, &x, []int{1, 2}, w)
	if len(points) != 6 {
		t.Fatalf("expected 6 windowed points, got %d", len(points))
	}
	for k, p := range points {
		var sum1, sum2 float64
		for i := k; i < k+w; i++ {
			sum1 += float64(i)
			sum2 += float64(i * i)
		}
		if p.Ys[0] != sum1 || p.Ys[1] != sum2 {
			t.Errorf("[%d] expected sums %v %v, got %v", k, sum1, sum2, p.Ys)
		}
		if p.X != float64(100+k+w-1) {
			t.Errorf("[%d] expected x %d, got %v", k, 100+k+w-1, p.X)
		}
	}
}

func TestProjectAllWindowTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4} {
		recs := makeRecords(n, func(i int) Record { return Record{1} })
		points := ProjectAll(recs, nil, []int{0}, 3)
		if len(points) != 0 {
			t.Errorf("expected no windowed points for %d records, got %d", n, len(points))
		}
	}
	recs := makeRecords(5, func(i int) Record { return Record{1} })
	if got := len(ProjectAll(recs, nil, []int{0}, 3)); got != 1 {
		t.Errorf("expected 1 windowed point for 5 records, got %d", got)
	}
}

func TestProjectAllPure(t *testing.T) {
	recs := makeRecords(8, func(i int) Record { return Record{float64(i), float64(i % 3)} })
	a := ProjectAll(recs, nil, []int{1}, 2)
	b := ProjectAll(recs, nil, []int{1}, 2)
	if len(a) != len(b) {
		t.Fatalf("expected identical lengths, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Ys[0] != b[i].Ys[0] {
			t.Errorf("[%d] expected identical points, got %v and %v", i, a[i], b[i])
		}
	}
}
