package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/aggregator"
	"github.com/MarijnSt/soccermatics-project-1/internal/logger"
	"github.com/MarijnSt/soccermatics-project-1/internal/metrics"
	"github.com/MarijnSt/soccermatics-project-1/internal/model"
	"github.com/MarijnSt/soccermatics-project-1/internal/parser"
	"github.com/MarijnSt/soccermatics-project-1/internal/report"
	"github.com/MarijnSt/soccermatics-project-1/internal/season"
	"github.com/MarijnSt/soccermatics-project-1/internal/source"
	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var (
	ingestCompetition int
	ingestSeason      int
	ingestShotWindow  int
	ingestWorkers     int
	ingestForce       bool
	ingestEventsFile  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [<data-dir>]",
	Short: "Aggregate a competition season from a local StatsBomb data directory",
	Long: `Read matches/<competition>/<season>.json and events/<match_id>.json from a
StatsBomb open-data checkout, compute per-match outputs and store them.

With --events, read one pre-concatenated event array instead; events are
grouped into matches by their match_id and carry no match metadata.

Matches already in the database are skipped unless --force is given.
The data directory defaults to data_dir from the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestCompetition, "competition", 0, "competition id (default from config)")
	ingestCmd.Flags().IntVar(&ingestSeason, "season", 0, "season id (default from config)")
	ingestCmd.Flags().IntVar(&ingestShotWindow, "shot-window", 0, "danger dribble window in seconds (default from config)")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "matches aggregated concurrently (default from config)")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "re-aggregate matches that are already stored")
	ingestCmd.Flags().StringVar(&ingestEventsFile, "events", "", "pre-concatenated events JSON file (skips the data directory)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	dataDir := cfg.DataDir
	if len(args) == 1 {
		dataDir = args[0]
	}
	if dataDir == "" && ingestEventsFile == "" {
		return fmt.Errorf("no data directory: pass <data-dir>, set data_dir or use --events")
	}
	if flags.Changed("competition") {
		cfg.CompetitionID = ingestCompetition
	}
	if flags.Changed("season") {
		cfg.SeasonID = ingestSeason
	}
	if flags.Changed("shot-window") {
		cfg.ShotWindowSeconds = ingestShotWindow
	}
	if flags.Changed("workers") {
		cfg.Workers = ingestWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	run := model.IngestRun{
		RunID:         uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		CompetitionID: cfg.CompetitionID,
		SeasonID:      cfg.SeasonID,
		ShotWindow:    cfg.ShotWindowSeconds,
	}
	ingestLog := log.Named("ingest")
	ingestLog.Info(ctx, "ingest started",
		logger.String("run_id", run.RunID),
		logger.String("data_dir", dataDir),
		logger.Int("competition_id", run.CompetitionID),
		logger.Int("season_id", run.SeasonID))

	all, err := loadRawMatches(ctx, dataDir, run.CompetitionID, run.SeasonID)
	if err != nil {
		return err
	}

	mgr := metrics.NewManager()
	var todo []*model.RawMatch
	for _, m := range all {
		if !ingestForce {
			exists, err := db.MatchExists(m.MatchID)
			if err != nil {
				return fmt.Errorf("check match %d: %w", m.MatchID, err)
			}
			if exists {
				run.Skipped++
				mgr.MatchSkipped()
				continue
			}
		}
		todo = append(todo, m)
	}

	results, err := season.AggregateAll(ctx, todo, cfg.Workers, mgr.ObserveMatch,
		aggregator.WithShotWindow(cfg.ShotWindowSeconds),
		aggregator.WithLogger(log.Named("aggregator")))
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	for _, res := range results {
		res.Summary.RunID = run.RunID
		if err := db.InsertMatchResult(res); err != nil {
			return fmt.Errorf("insert match %d: %w", res.Summary.MatchID, err)
		}
		run.Matches++
	}

	run.FinishedAt = time.Now().UTC()
	if err := db.InsertRun(run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if metricsFile != "" {
		if err := mgr.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		ingestLog.Debug(ctx, "metrics written", logger.String("path", metricsFile))
	}

	anomalies := 0
	for _, res := range results {
		anomalies += len(res.Anomalies)
	}
	ingestLog.Info(ctx, "ingest finished",
		logger.String("run_id", run.RunID),
		logger.Int("stored", run.Matches),
		logger.Int("skipped", run.Skipped),
		logger.Int("anomalies", anomalies))

	fmt.Fprintln(os.Stdout)
	report.PrintRuns(os.Stdout, []model.IngestRun{run})
	if anomalies > 0 {
		fmt.Fprintf(os.Stdout, "\n%d playing time anomalies recorded. Run 'soccermetrics show <match-id>' for details.\n", anomalies)
	}
	return nil
}

func loadRawMatches(ctx context.Context, dataDir string, competitionID, seasonID int) ([]*model.RawMatch, error) {
	if ingestEventsFile != "" {
		fmt.Fprintf(os.Stdout, "Loading events from %s...\n", ingestEventsFile)
		events, err := parser.ParseEventsFile(ingestEventsFile, 0)
		if err != nil {
			return nil, fmt.Errorf("load events: %w", err)
		}
		return parser.GroupByMatch(events), nil
	}

	fmt.Fprintf(os.Stdout, "Loading competition %d season %d from %s...\n", competitionID, seasonID, dataDir)
	all, err := source.Load(ctx, source.NewDir(dataDir), competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	return all, nil
}
