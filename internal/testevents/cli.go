package testevents

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/hacksphere/pkg/logger"
)

// Command defaults.
const (
	defaultWorkerMultiplier = 2 // times runtime.NumCPU()
	defaultTimeout          = 30 * time.Second
	defaultRunTimeout       = 10 * time.Minute
)

type cliFlags struct {
	config     Config
	logFormat  string
	logLevel   string
	runTimeout time.Duration
}

// NewCommand builds the simulator command line.
func NewCommand() *cobra.Command {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "test-events",
		Short: "Simulate a hackathon against a running HackSphere service",
		Long: `Registers a fake hackathon against a running HackSphere service, has judges
score every project concurrently, and checks the served leaderboards against
a ranking recomputed from the scorecards it wrote.`,
		Example: `  # Simulate with default settings
  test-events

  # A larger event on another port, reproducible
  test-events --teams 50 --judges 8 --seed 42 --url http://localhost:9090`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := f.logLevel
			if f.config.Verbose {
				level = "debug"
			}
			if err := SetupLogging(f.logFormat, level); err != nil {
				return err
			}
			config := f.config
			config.Workers = max(1, config.Workers)

			ctx, cancel := context.WithTimeout(cmd.Context(), f.runTimeout)
			defer cancel()
			_, err := Run(ctx, &config)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.config.BaseURL, "url", "http://localhost:8080", "Base URL of the service")
	flags.IntVar(&f.config.Teams, "teams", DefaultTeams, "Teams to register")
	flags.IntVar(&f.config.SubmissionsPerTeam, "per-team", DefaultSubmissionsPerTeam, "Projects submitted by each team")
	flags.IntVar(&f.config.SoloSubmissions, "solo", DefaultSoloSubmissions, "Projects submitted without a team")
	flags.IntVar(&f.config.Judges, "judges", DefaultJudges, "Judges scoring the projects")
	flags.IntVar(&f.config.Rounds, "rounds", DefaultRounds, "Judging rounds")
	flags.IntVar(&f.config.Coverage, "coverage", DefaultCoverage, "Percent chance a judge scores a project in a round")
	flags.IntVar(&f.config.Rescores, "rescores", DefaultRescores, "Scorecards revised after the first pass")
	flags.IntVar(&f.config.Workers, "workers", runtime.NumCPU()*defaultWorkerMultiplier, "Concurrent scorecard writers")
	flags.DurationVar(&f.config.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.Uint64Var(&f.config.Seed, "seed", 0, "Faker seed, 0 picks a random one")
	flags.StringVar(&f.config.OutputFile, "output", "", "Write the plan and leaderboards to this JSON file")
	flags.BoolVar(&f.config.Verbose, "verbose", false, "Log every scorecard and the full leaderboard")
	flags.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVar(&f.logLevel, "log-level", "info", "Log level")
	flags.DurationVar(&f.runTimeout, "run-timeout", defaultRunTimeout, "Deadline for the whole simulation")

	return cmd
}

// SetupLogging initializes the logger with the given format and level.
func SetupLogging(format, level string) error {
	if err := logger.InitWithFormat(format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}
