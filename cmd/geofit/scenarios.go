package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/banshee-data/geofit/internal/config"
	"github.com/banshee-data/geofit/internal/geom"
	"github.com/banshee-data/geofit/internal/intersect"
	"github.com/banshee-data/geofit/internal/motion"
	"github.com/banshee-data/geofit/internal/transform"
)

// scenarioEnv carries the shared inputs of one run.
type scenarioEnv struct {
	cfg    *config.FitConfig
	rng    *rand.Rand
	points int
	noise  float64

	// Filled by the ellipse scenario for plotting.
	ellipse  geom.EllipseRotated
	queries  []geom.Point2D
	closests []geom.Point2D
}

// scenarioResult is one line of the run report.
type scenarioResult struct {
	Name    string
	Detail  string
	Report  motion.FitReport
	Elapsed time.Duration
}

type scenario struct {
	name string
	run  func(env *scenarioEnv) (scenarioResult, error)
}

var scenarios = []scenario{
	{"affine", runAffine},
	{"rigid2d", runRigid2D},
	{"rigid3d", runRigid3D},
	{"homography", runHomography},
	{"lines", runLines},
	{"ellipse", runEllipse},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		names = append(names, s.name)
	}
	return names
}

// selectScenarios resolves the -scenario flag.
func selectScenarios(name string) ([]scenario, error) {
	if name == "" || name == "all" {
		return scenarios, nil
	}
	for _, s := range scenarios {
		if s.name == name {
			return []scenario{s}, nil
		}
	}
	return nil, fmt.Errorf("unknown scenario %q (want all or one of %v)", name, scenarioNames())
}

func (env *scenarioEnv) cloud2(lo, hi float64) []geom.Point2D {
	pts := make([]geom.Point2D, env.points)
	for i := range pts {
		pts[i] = geom.Pt2(lo+(hi-lo)*env.rng.Float64(), lo+(hi-lo)*env.rng.Float64())
	}
	return pts
}

func (env *scenarioEnv) jitter2(p geom.Point2D) geom.Point2D {
	if env.noise == 0 {
		return p
	}
	return geom.Pt2(p.X+env.rng.NormFloat64()*env.noise, p.Y+env.rng.NormFloat64()*env.noise)
}

func (env *scenarioEnv) map2(apply func(geom.Point2D) geom.Point2D, from []geom.Point2D) []geom.Point2D {
	to := make([]geom.Point2D, len(from))
	for i, p := range from {
		to[i] = env.jitter2(apply(p))
	}
	return to
}

func runAffine(env *scenarioEnv) (scenarioResult, error) {
	truth := transform.Affine2D{A11: 1.2, A12: 0.3, A21: -0.2, A22: 0.9, Tx: 4, Ty: -2}
	from := env.cloud2(-10, 10)
	to := env.map2(truth.Apply, from)

	est := motion.NewAffineLeastSquares2D(env.cfg.LeastSquares())
	if err := est.Process(from, to); err != nil {
		return scenarioResult{}, fmt.Errorf("affine: %w", err)
	}
	m := est.Motion()
	return scenarioResult{
		Name:   "affine",
		Detail: fmt.Sprintf("A=[%.4f %.4f; %.4f %.4f] t=(%.4f, %.4f)", m.A11, m.A12, m.A21, m.A22, m.Tx, m.Ty),
		Report: motion.Assess(m.Apply, from, to, env.cfg.QualityThresholds()),
	}, nil
}

func runRigid2D(env *scenarioEnv) (scenarioResult, error) {
	truth := transform.NewSe2(0.7, 3, -1.5)
	from := env.cloud2(-10, 10)
	to := env.map2(truth.Apply, from)

	ls := motion.NewRigidLeastSquares2D(env.cfg.LeastSquares())
	if err := ls.Process(from, to); err != nil {
		return scenarioResult{}, fmt.Errorf("rigid2d least squares: %w", err)
	}
	cov := motion.NewRigidCovariance2D()
	if err := cov.Process(from, to); err != nil {
		return scenarioResult{}, fmt.Errorf("rigid2d covariance: %w", err)
	}

	a, b := ls.Motion(), cov.Motion()
	return scenarioResult{
		Name: "rigid2d",
		Detail: fmt.Sprintf("ls theta=%.5f covariance theta=%.5f (true %.5f)",
			a.Theta(), b.Theta(), truth.Theta()),
		Report: motion.Assess(b.Apply, from, to, env.cfg.QualityThresholds()),
	}, nil
}

func runRigid3D(env *scenarioEnv) (scenarioResult, error) {
	truth := transform.NewSe3FromEuler(0.3, -0.2, 1.1, geom.Pt3(1, 2, -3))
	from := make([]geom.Point3D, env.points)
	to := make([]geom.Point3D, env.points)
	for i := range from {
		from[i] = geom.Pt3(env.rng.Float64()*20-10, env.rng.Float64()*20-10, env.rng.Float64()*20-10)
		p := truth.Apply(from[i])
		to[i] = geom.Pt3(p.X+env.rng.NormFloat64()*env.noise, p.Y+env.rng.NormFloat64()*env.noise, p.Z+env.rng.NormFloat64()*env.noise)
	}

	est := motion.NewRigidCovariance3D()
	if err := est.Process(from, to); err != nil {
		return scenarioResult{}, fmt.Errorf("rigid3d: %w", err)
	}
	m := est.Motion()

	// Estimated forward then truth reversed should be close to identity.
	var seq transform.Sequence[transform.Se3]
	seq.Add(true, m)
	seq.Add(false, truth)
	residual := transform.Se3Identity()
	if err := seq.Compute(&residual); err != nil {
		return scenarioResult{}, fmt.Errorf("rigid3d residual: %w", err)
	}
	drift := geom.Pt3(residual.T[0], residual.T[1], residual.T[2]).Norm()

	report := motion.Assess(m.Apply, from, to, env.cfg.QualityThresholds())
	if !motion.ValidateRotation3D(m.R) {
		report.Issues = append(report.Issues, "estimated rotation is not orthonormal")
	}
	return scenarioResult{
		Name:   "rigid3d",
		Detail: fmt.Sprintf("det=%.6f residual translation=%.3g", m.Det(), drift),
		Report: report,
	}, nil
}

func runHomography(env *scenarioEnv) (scenarioResult, error) {
	truth := transform.Homography2D{H: [9]float64{
		1.1, 0.05, 3,
		-0.1, 0.95, -2,
		0.002, -0.001, 1,
	}}
	from := env.cloud2(0, 100)
	to := env.map2(truth.Apply, from)

	est := motion.NewHomographyDLT(env.cfg.NullSpace())
	if err := est.Process(from, to); err != nil {
		return scenarioResult{}, fmt.Errorf("homography: %w", err)
	}
	h := est.Motion()
	return scenarioResult{
		Name:   "homography",
		Detail: fmt.Sprintf("h31=%.5f h32=%.5f (true %.5f %.5f)", h.H[6], h.H[7], truth.H[6], truth.H[7]),
		Report: motion.Assess(h.Apply, from, to, env.cfg.QualityThresholds()),
	}, nil
}

func runLines(env *scenarioEnv) (scenarioResult, error) {
	target := geom.Pt2(12.2, -19.6)
	n := env.points
	if n < 2 {
		n = 2
	}
	lines := make([]geom.LineGeneral2D, n)
	for i := range lines {
		angle := math.Pi * (float64(i) + env.rng.Float64()) / float64(n)
		dir := geom.Pt2(math.Cos(angle), math.Sin(angle))
		through := env.jitter2(target)
		lines[i] = geom.LineFromPoints(through, through.Add(dir.Scale(10)))
	}

	solver := intersect.NewLineIntersection(env.cfg.NullSpace())
	h, err := solver.Process(lines)
	if err != nil {
		return scenarioResult{}, fmt.Errorf("lines: %w", err)
	}
	p, ok := h.ToPoint()
	if !ok {
		return scenarioResult{}, fmt.Errorf("lines: intersection at infinity: %w", geom.ErrNumericalFailure)
	}

	miss := p.Distance(target)
	return scenarioResult{
		Name:   "lines",
		Detail: fmt.Sprintf("%d lines meet at %v (true %v)", n, p, target),
		Report: motion.FitReport{RMSE: miss, Quality: motion.GradeFit(miss, env.cfg.QualityThresholds())},
	}, nil
}

// runEllipse pushes points off the ellipse along the outward normal, so the
// generating point is the true closest point.
func runEllipse(env *scenarioEnv) (scenarioResult, error) {
	e := geom.EllipseRotated{Center: geom.Pt2(2, -1), A: 8, B: 3, Phi: 0.4}
	solver := env.cfg.EllipseSolver()
	if err := solver.SetEllipse(e); err != nil {
		return scenarioResult{}, fmt.Errorf("ellipse: %w", err)
	}

	s, c := math.Sincos(e.Phi)
	truths := make([]geom.Point2D, env.points)
	env.ellipse = e
	env.queries = make([]geom.Point2D, env.points)
	env.closests = make([]geom.Point2D, env.points)

	capped := 0
	for i := range truths {
		theta := 2 * math.Pi * env.rng.Float64()
		truths[i] = e.PointAt(theta)
		nx, ny := e.B*math.Cos(theta), e.A*math.Sin(theta)
		norm := math.Hypot(nx, ny)
		d := 0.5 + 4*env.rng.Float64()
		offset := geom.Pt2(c*nx-s*ny, s*nx+c*ny).Scale(d / norm)
		env.queries[i] = truths[i].Add(offset)

		cp, err := solver.Process(env.queries[i])
		if err != nil {
			return scenarioResult{}, fmt.Errorf("ellipse query %d: %w", i, err)
		}
		if !cp.Converged {
			capped++
		}
		env.closests[i] = cp.Point
	}

	report := motion.Assess(func(p geom.Point2D) geom.Point2D { return p }, env.closests, truths, env.cfg.QualityThresholds())
	if capped > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d queries hit the iteration cap", capped))
	}
	return scenarioResult{
		Name:   "ellipse",
		Detail: fmt.Sprintf("%d queries, solver state %s", len(truths), solver.State()),
		Report: report,
	}, nil
}
