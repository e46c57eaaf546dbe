package cmd

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/graphcore-research/gwr/sim/trace"
)

var (
	observeScenario   string
	observeConfigPath string
	observePercentile float64
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run a scenario and summarize its recorded enter/exit port activity",
	Run: func(cmd *cobra.Command, args []string) {
		var cfg *ScenarioConfig
		if observeConfigPath != "" {
			loaded, err := LoadScenarioConfig(observeConfigPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		}

		result, rt, err := buildAndRun(observeScenario, cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		records := rt.Records()
		summary := trace.Summarize(records)
		latencies := portTransitLatencies(records)

		logrus.Infof("scenario %s: num_sunk=%d end_time_ns=%.1f total_records=%d",
			observeScenario, result.NumSunk, result.EndTimeNs, summary.TotalRecords)

		if len(latencies) == 0 {
			logrus.Info("no port transit latencies recorded")
			return
		}
		mean := stat.Mean(latencies, nil)
		quantile := stat.Quantile(observePercentile, stat.Empirical, latencies, nil)
		logrus.Infof("port transit latency: mean=%.3fns p%.0f=%.3fns (n=%d)",
			mean, observePercentile*100, quantile, len(latencies))
	},
}

// portTransitLatencies pairs each "enter" record for an object with its
// matching "exit" record (same entity and object id) and returns the
// elapsed simulated time between them. stat.Quantile requires its input
// sorted ascending.
func portTransitLatencies(records []trace.Record) []float64 {
	type key struct {
		entity uint64
		object uint64
	}
	enterAt := make(map[key]float64)
	var latencies []float64
	for _, r := range records {
		k := key{entity: uint64(r.EntityID), object: uint64(r.Value)}
		switch r.Kind {
		case "enter":
			enterAt[k] = r.TimeNs
		case "exit":
			if t0, ok := enterAt[k]; ok {
				latencies = append(latencies, r.TimeNs-t0)
				delete(enterAt, k)
			}
		}
	}
	sort.Float64s(latencies)
	return latencies
}

func init() {
	observeCmd.Flags().StringVar(&observeScenario, "scenario", "s1", "Scenario to run (s1, s2, s3, s4)")
	observeCmd.Flags().StringVar(&observeConfigPath, "config", "", "Optional YAML scenario config overriding numeric parameters")
	observeCmd.Flags().Float64Var(&observePercentile, "percentile", 0.95, "Percentile (0-1) of port transit latency to report")
	rootCmd.AddCommand(observeCmd)
}
