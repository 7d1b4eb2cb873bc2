package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel = "info"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pr-triage",
	Short: "Triage GitHub pull requests",
	Long: `pr-triage classifies a pull request, scores its risk, looks for open PRs
touching the same files and profiles the author, then keeps a single summary
comment and a set of labels up to date on the PR.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		PrintVersion(cmd, args)
		// re-run with debug logging in the Actions UI sets RUNNER_DEBUG
		if os.Getenv("RUNNER_DEBUG") == "1" && !cmd.Flags().Changed("log-level") {
			logLevel = "debug"
		}
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			log.WithError(err).Fatal("cannot parse log-level")
		}
		log.SetLevel(level)
		log.Debug("debug logging enabled")
	},
}

func main() {

	// Add some millisecond precision to log timestamps, useful for debugging performance.
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	formatter.DisableColors = false
	log.SetFormatter(formatter)

	rootCmd.AddCommand(
		NewTriageCommand(),
		NewDigestCommand(),
		NewVersionCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (trace,debug,info,warn,error) (default info)")

	err := rootCmd.Execute()
	if err != nil {
		log.WithError(err).Fatal("could not execute root command")
	}
}
