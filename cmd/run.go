package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	runScenario   string
	runConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one of the canonical example scenarios to quiescence",
	Run: func(cmd *cobra.Command, args []string) {
		var cfg *ScenarioConfig
		if runConfigPath != "" {
			loaded, err := LoadScenarioConfig(runConfigPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		}

		logrus.Infof("running scenario %s", runScenario)
		result, _, err := buildAndRun(runScenario, cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("scenario %s complete: num_sunk=%d end_time_ns=%.1f", runScenario, result.NumSunk, result.EndTimeNs)
	},
}

func init() {
	runCmd.Flags().StringVar(&runScenario, "scenario", "s1", "Scenario to run (s1, s2, s3, s4)")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Optional YAML scenario config overriding numeric parameters")
	rootCmd.AddCommand(runCmd)
}
