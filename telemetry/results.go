package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-pareto/chvi/vecops"
)

// RunStats summarizes one batch of Repeat independent solver runs against
// a single benchmark, the row shape spec.md §6 names for the results CSV:
// benchmark name, reward-dimension count, and mean/std wall-clock time and
// update count for each solver.
type RunStats struct {
	Benchmark    string
	RewardDim    int
	BRTDPTimes   []float64 // seconds, one per repeat
	BRTDPUpdates []float64 // update count, one per repeat
	CHVITimes    []float64
	CHVIUpdates  []float64
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(xs)))
	return mean, std
}

// WriteResultsCSV appends one row of aggregate RunStats to w in the
// header order: benchmark, reward_dim, brtdp_time_mean, brtdp_time_std,
// brtdp_updates_mean, brtdp_updates_std, chvi_time_mean, chvi_time_std,
// chvi_updates_mean, chvi_updates_std. encoding/csv is stdlib because no
// third-party CSV writer appears anywhere in the retrieved example pack.
func WriteResultsCSV(w io.Writer, stats RunStats) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	btMean, btStd := meanStd(stats.BRTDPTimes)
	buMean, buStd := meanStd(stats.BRTDPUpdates)
	ctMean, ctStd := meanStd(stats.CHVITimes)
	cuMean, cuStd := meanStd(stats.CHVIUpdates)

	row := []string{
		stats.Benchmark,
		strconv.Itoa(stats.RewardDim),
		strconv.FormatFloat(btMean, 'f', -1, 64),
		strconv.FormatFloat(btStd, 'f', -1, 64),
		strconv.FormatFloat(buMean, 'f', -1, 64),
		strconv.FormatFloat(buStd, 'f', -1, 64),
		strconv.FormatFloat(ctMean, 'f', -1, 64),
		strconv.FormatFloat(ctStd, 'f', -1, 64),
		strconv.FormatFloat(cuMean, 'f', -1, 64),
		strconv.FormatFloat(cuStd, 'f', -1, 64),
	}
	return cw.Write(row)
}

// ResultsHeader is the fixed column header WriteResultsCSV's rows assume.
var ResultsHeader = []string{
	"benchmark", "reward_dim",
	"brtdp_time_mean", "brtdp_time_std", "brtdp_updates_mean", "brtdp_updates_std",
	"chvi_time_mean", "chvi_time_std", "chvi_updates_mean", "chvi_updates_std",
}

// WriteLowerBoundVertices writes the initial state's lower-bound Pareto
// curve vertices, one whitespace-separated vector per line, to the named
// file — the per-run text file spec.md §6 describes alongside the CSV
// summary.
func WriteLowerBoundVertices(path string, vertices []vecops.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("telemetry: creating lower bound file: %w", err)
	}
	defer f.Close()

	for _, v := range vertices {
		for i, x := range v {
			if i > 0 {
				if _, err := fmt.Fprint(f, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(f, "%g", x); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(f); err != nil {
			return err
		}
	}
	return nil
}
