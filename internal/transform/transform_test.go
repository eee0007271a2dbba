package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/geofit/internal/geom"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func assertNear2(t *testing.T, got, want geom.Point2D, eps float64) {
	t.Helper()
	if d := got.Distance(want); d > eps {
		t.Errorf("got %v, want %v (distance %g)", got, want, d)
	}
}

func assertNear3(t *testing.T, got, want geom.Point3D, eps float64) {
	t.Helper()
	if d := got.Distance(want); d > eps {
		t.Errorf("got %v, want %v (distance %g)", got, want, d)
	}
}

var samplePoints2 = []geom.Point2D{{0, 0}, {1, 0}, {0, 1}, {3, -4}, {-2.5, 7.25}}

func TestSe2Basic(t *testing.T) {
	const eps = 1e-12
	p := geom.Pt2(3, 4)

	assertNear2(t, Se2Identity().Apply(p), p, eps)
	assertNear2(t, NewSe2(math.Pi/2, 0, 0).Apply(p), geom.Pt2(-4, 3), eps)
	assertNear2(t, NewSe2(0, 5, 6).Apply(p), geom.Pt2(8, 10), eps)
	assertNear2(t, NewSe2(math.Pi, 1, 1).Apply(p), geom.Pt2(-2, -3), eps)

	if th := NewSe2(0.3, 0, 0).Theta(); math.Abs(th-0.3) > eps {
		t.Errorf("theta = %g, want 0.3", th)
	}
}

func TestSe2ConcatOrder(t *testing.T) {
	a := NewSe2(0.4, 1, -2)
	b := NewSe2(-1.1, 0.5, 3)
	ab := a.Concat(b)
	for _, p := range samplePoints2 {
		assertNear2(t, ab.Apply(p), b.Apply(a.Apply(p)), 1e-12)
	}
}

func TestSe2InvertRoundTrip(t *testing.T) {
	a := NewSe2(2.1, -3, 0.25)
	inv, err := a.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	invInv, err := inv.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if diff := cmp.Diff(a, invInv, approx); diff != "" {
		t.Errorf("invert(invert(a)) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Se2Identity(), a.Concat(inv), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("a.Concat(inv) not identity (-want +got):\n%s", diff)
	}
}

func TestAffineBasic(t *testing.T) {
	const eps = 1e-12
	a := Affine2D{A11: 2, A12: 1, A21: -1, A22: 3, Tx: 5, Ty: -6}
	assertNear2(t, a.Apply(geom.Pt2(1, 2)), geom.Pt2(9, -1), eps)
	assertNear2(t, Affine2DIdentity().Apply(geom.Pt2(1, 2)), geom.Pt2(1, 2), eps)

	b := Affine2D{A11: 0.1, A12: 1.2, A21: 2.3, A22: 3.4, Tx: 4.5, Ty: 5.6}
	ab := a.Concat(b)
	for _, p := range samplePoints2 {
		assertNear2(t, ab.Apply(p), b.Apply(a.Apply(p)), 1e-9)
	}
}

func TestAffineInvert(t *testing.T) {
	a := Affine2D{A11: 0.1, A12: 1.2, A21: 2.3, A22: 3.4, Tx: 4.5, Ty: 5.6}
	inv, err := a.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	for _, p := range samplePoints2 {
		assertNear2(t, inv.Apply(a.Apply(p)), p, 1e-9)
		assertNear2(t, a.Apply(inv.Apply(p)), p, 1e-9)
	}

	invInv, err := inv.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if diff := cmp.Diff(a, invInv, approx); diff != "" {
		t.Errorf("invert(invert(a)) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Affine2DIdentity(), a.Concat(inv), approx); diff != "" {
		t.Errorf("a.Concat(inv) not identity (-want +got):\n%s", diff)
	}
}

func TestAffineInvert_Singular(t *testing.T) {
	tests := []Affine2D{
		{},
		{A11: 1, A12: 2, A21: 2, A22: 4, Tx: 1},
		{A11: 1, A12: 1, A21: 1, A22: 1 + 1e-15},
	}
	for _, a := range tests {
		if _, err := a.Invert(); !errors.Is(err, geom.ErrSingularTransform) {
			t.Errorf("Invert(%+v) error = %v, want ErrSingularTransform", a, err)
		}
	}
}

func TestSe2AsAffine(t *testing.T) {
	r := NewSe2(0.8, 2, -1)
	a := r.Affine()
	for _, p := range samplePoints2 {
		assertNear2(t, a.Apply(p), r.Apply(p), 1e-12)
	}
	if math.Abs(a.Det()-1) > 1e-12 {
		t.Errorf("rigid det = %g, want 1", a.Det())
	}
}

func TestSe3(t *testing.T) {
	a := NewSe3FromEuler(0.3, -0.7, 1.9, geom.Pt3(1, 2, 3))
	b := NewSe3FromEuler(-1.2, 0.1, 0.4, geom.Pt3(-4, 0.5, 2))

	if d := a.Det(); math.Abs(d-1) > 1e-12 {
		t.Errorf("det = %g, want 1", d)
	}

	pts := []geom.Point3D{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {3, -4, 5}}
	ab := a.Concat(b)
	for _, p := range pts {
		assertNear3(t, ab.Apply(p), b.Apply(a.Apply(p)), 1e-12)
	}

	inv, err := a.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	for _, p := range pts {
		assertNear3(t, inv.Apply(a.Apply(p)), p, 1e-12)
	}
	invInv, _ := inv.Invert()
	if diff := cmp.Diff(a, invInv, approx); diff != "" {
		t.Errorf("invert(invert(a)) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Se3Identity(), a.Concat(inv), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("a.Concat(inv) not identity (-want +got):\n%s", diff)
	}

	m := a.Matrix4()
	if m[3] != 1 || m[7] != 2 || m[11] != 3 || m[15] != 1 {
		t.Errorf("unexpected Matrix4 translation/last row: %v", m)
	}
}

func TestSe3Invert_Degenerate(t *testing.T) {
	if _, err := (Se3{}).Invert(); !errors.Is(err, geom.ErrSingularTransform) {
		t.Errorf("expected ErrSingularTransform, got %v", err)
	}
}

func TestHomography(t *testing.T) {
	h := Homography2D{H: [9]float64{
		1.2, 0.1, 3,
		-0.2, 0.9, -1,
		0.001, 0.002, 1,
	}}
	g := Affine2D{A11: 0.5, A12: 0.2, A21: 0.1, A22: 1.5, Tx: 2, Ty: 3}.Homography()

	hg := h.Concat(g)
	for _, p := range samplePoints2 {
		assertNear2(t, hg.Apply(p), g.Apply(h.Apply(p)), 1e-9)
	}

	inv, err := h.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if inv.H[8] != 1 {
		t.Errorf("inverse not normalised: H[8] = %g", inv.H[8])
	}
	for _, p := range samplePoints2 {
		assertNear2(t, inv.Apply(h.Apply(p)), p, 1e-9)
	}

	invInv, err := inv.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if diff := cmp.Diff(h.Normalize(), invInv, approx); diff != "" {
		t.Errorf("invert(invert(h)) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Homography2DIdentity(), h.Concat(inv).Normalize(), approx); diff != "" {
		t.Errorf("h.Concat(inv) not identity (-want +got):\n%s", diff)
	}
}

func TestHomographyInvert_Singular(t *testing.T) {
	tests := []Homography2D{
		{},
		{H: [9]float64{1, 2, 3, 2, 4, 6, 0, 0, 1}},
	}
	for _, h := range tests {
		if _, err := h.Invert(); !errors.Is(err, geom.ErrSingularTransform) {
			t.Errorf("Invert(%v) error = %v, want ErrSingularTransform", h.H, err)
		}
	}
}

func TestHomographyNormalize(t *testing.T) {
	h := Homography2D{H: [9]float64{2, 0, 4, 0, 2, 6, 0, 0, 2}}
	n := h.Normalize()
	want := Homography2D{H: [9]float64{1, 0, 2, 0, 1, 3, 0, 0, 1}}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}

	atInf := Homography2D{H: [9]float64{0, 0, 3, 0, 0, 4, 0, 0, 0}}.Normalize()
	if math.Abs(atInf.H[2]-0.6) > 1e-12 || math.Abs(atInf.H[5]-0.8) > 1e-12 {
		t.Errorf("frobenius normalisation wrong: %v", atInf.H)
	}
}

func TestDimension(t *testing.T) {
	if (Se2{}).Dimension() != 2 || (Affine2D{}).Dimension() != 2 || (Homography2D{}).Dimension() != 2 {
		t.Error("2D transforms should report dimension 2")
	}
	if (Se3{}).Dimension() != 3 {
		t.Error("Se3 should report dimension 3")
	}
}
