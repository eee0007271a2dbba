// Command geofit runs the geometry estimators against synthetic data and
// reports the residual of each fit.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/geofit/internal/config"
	"github.com/banshee-data/geofit/internal/monitoring"
	"github.com/banshee-data/geofit/internal/security"
	"github.com/banshee-data/geofit/internal/version"
)

type options struct {
	configPath string
	scenario   string
	points     int
	noise      float64
	seed       int64
	plotPath   string
	chartPath  string
	debug      bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to a JSON fit config (defaults are used when empty)")
	flag.StringVar(&o.scenario, "scenario", "all", "Scenario to run: all|"+strings.Join(scenarioNames(), "|"))
	flag.IntVar(&o.points, "points", 50, "Correspondences (or lines, or ellipse queries) per scenario")
	flag.Float64Var(&o.noise, "noise", 0.01, "Standard deviation of Gaussian noise added to target points")
	flag.Int64Var(&o.seed, "seed", 1, "Random seed")
	flag.StringVar(&o.plotPath, "plot", "", "Write a PNG of the ellipse scenario to this path")
	flag.StringVar(&o.chartPath, "chart", "", "Write an HTML bar chart of per-scenario RMSE to this path")
	flag.BoolVar(&o.debug, "debug", false, "Enable solver debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("geofit"))
		return
	}

	if _, err := run(o, os.Stdout); err != nil {
		log.Fatalf("geofit: %v", err)
	}
}

func loadConfig(path string) (*config.FitConfig, error) {
	if path == "" {
		return config.EmptyFitConfig(), nil
	}
	return config.LoadFitConfig(path)
}

// run executes the selected scenarios and writes one report line each to out.
func run(o options, out io.Writer) ([]scenarioResult, error) {
	if o.points < 4 {
		return nil, fmt.Errorf("-points must be at least 4, got %d", o.points)
	}
	if o.noise < 0 {
		return nil, fmt.Errorf("-noise must be non-negative, got %g", o.noise)
	}
	selected, err := selectScenarios(o.scenario)
	if err != nil {
		return nil, err
	}
	for _, path := range []string{o.plotPath, o.chartPath} {
		if path == "" {
			continue
		}
		if err := security.ValidateOutputPath(path); err != nil {
			return nil, fmt.Errorf("invalid output path: %w", err)
		}
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	monitoring.SetDebug(o.debug)

	runID := uuid.New().String()
	fmt.Fprintf(out, "run %s seed=%d points=%d noise=%g solver=%s\n",
		runID, o.seed, o.points, o.noise, cfg.GetLeastSquaresSolver())

	env := &scenarioEnv{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(o.seed)),
		points: o.points,
		noise:  o.noise,
	}

	results := make([]scenarioResult, 0, len(selected))
	for _, s := range selected {
		start := time.Now()
		res, err := s.run(env)
		if err != nil {
			return results, err
		}
		res.Elapsed = time.Since(start)
		results = append(results, res)

		fmt.Fprintf(out, "%-10s rmse=%.3g quality=%s elapsed=%v %s\n",
			res.Name, res.Report.RMSE, res.Report.Quality, res.Elapsed.Round(time.Microsecond), res.Detail)
		for _, issue := range res.Report.Issues {
			monitoring.Logf("[%s] %s", res.Name, issue)
		}
	}

	if o.plotPath != "" {
		if env.queries == nil {
			return results, fmt.Errorf("-plot needs the ellipse scenario")
		}
		if err := writeEllipsePlot(o.plotPath, env.ellipse, env.queries, env.closests); err != nil {
			return results, err
		}
		fmt.Fprintf(out, "wrote %s\n", o.plotPath)
	}
	if o.chartPath != "" {
		if err := writeRMSEChart(o.chartPath, runID, results); err != nil {
			return results, err
		}
		fmt.Fprintf(out, "wrote %s\n", o.chartPath)
	}
	return results, nil
}
