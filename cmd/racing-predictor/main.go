// Package main provides the racing-predictor CLI: predict winners, record
// outcomes, evaluate accuracy, and move history between stores.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/racing-predictor/internal/accuracy"
	appcfg "github.com/yourusername/racing-predictor/internal/config"
	"github.com/yourusername/racing-predictor/internal/estimator"
	"github.com/yourusername/racing-predictor/internal/history"
	"github.com/yourusername/racing-predictor/internal/logger"
	"github.com/yourusername/racing-predictor/internal/metrics"
	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/predictor"
	"github.com/yourusername/racing-predictor/internal/refdata"
	"github.com/yourusername/racing-predictor/internal/repository"
	"github.com/yourusername/racing-predictor/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *appcfg.Config
	session    *history.Session
	pred       *predictor.Predictor
	evaluator  *accuracy.Evaluator
	audit      *logger.AuditLogger
	closeStore func()
)

var (
	flagPosition string
	flagRoad     string
	flagVehicles []string
	flagWinner   string
	flagReplay   bool
	flagFile     string
	flagMerge    bool
)

var rootCmd = &cobra.Command{
	Use:     "racing-predictor",
	Short:   "Predict race winners from partial observations and accumulated history",
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeStore != nil {
			closeStore()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	predictCmd.Flags().StringVar(&flagPosition, "position", "C", "Visible road position (L, C, R)")
	predictCmd.Flags().StringVar(&flagRoad, "road", "", "Visible road type")
	predictCmd.Flags().StringSliceVar(&flagVehicles, "vehicles", nil, "The three competing vehicles, comma separated")
	_ = predictCmd.MarkFlagRequired("road")
	_ = predictCmd.MarkFlagRequired("vehicles")

	recordCmd.Flags().StringVar(&flagPosition, "position", "C", "Visible road position (L, C, R)")
	recordCmd.Flags().StringVar(&flagRoad, "road", "", "Visible road type")
	recordCmd.Flags().StringSliceVar(&flagVehicles, "vehicles", nil, "The three competing vehicles, comma separated")
	recordCmd.Flags().StringVar(&flagWinner, "winner", "", "Actual race winner")
	_ = recordCmd.MarkFlagRequired("road")
	_ = recordCmd.MarkFlagRequired("vehicles")
	_ = recordCmd.MarkFlagRequired("winner")

	accuracyCmd.Flags().BoolVar(&flagReplay, "replay", false, "Re-run the predictor per record instead of scoring saved predictions")

	exportCmd.Flags().StringVar(&flagFile, "out", "history_export.csv", "Output CSV path")
	importCmd.Flags().StringVar(&flagFile, "in", "", "Input CSV path")
	importCmd.Flags().BoolVar(&flagMerge, "merge", false, "Append imported records instead of replacing the history")
	_ = importCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(predictCmd, recordCmd, historyCmd, accuracyCmd, exportCmd, importCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := appcfg.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := appcfg.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := appcfg.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLogger = logger.NewLogger(cfg.App.LogLevel)
	audit = logger.NewAuditLogger(appLogger)

	store, cleanup, err := repository.NewStore(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up history store: %w", err)
	}
	closeStore = cleanup

	session = history.NewSession(store, appLogger)
	session.Load(ctx)

	pred = predictor.NewPredictor(predictorConfig(), appLogger)
	evaluator = accuracy.NewEvaluator(pred, cfg.Accuracy.MinRecords, appLogger)
	return nil
}

func predictorConfig() predictor.Config {
	scoring := estimator.DefaultScoringConfig()
	if cfg.Prediction.ScoringMode == "speed" {
		scoring.Mode = estimator.ModeSpeed
	}
	scoring.UseLongSegment = cfg.Prediction.UseLongSegment
	if !cfg.Prediction.UseLongSegment && len(cfg.Prediction.Blend) == 3 {
		scoring.Blend = refdata.Blend{
			cfg.Prediction.Blend[0], cfg.Prediction.Blend[1], cfg.Prediction.Blend[2],
		}
	}
	return predictor.Config{
		Scoring:                scoring,
		SimilarMatchMinimum:    cfg.Prediction.SimilarMatchMinimum,
		MinHistoryForInference: cfg.Prediction.MinHistoryForInference,
	}
}

func parseSetup() (models.RaceSetup, error) {
	var setup models.RaceSetup

	position, err := models.ParsePosition(flagPosition)
	if err != nil {
		return setup, err
	}
	road, err := models.ParseRoadType(flagRoad)
	if err != nil {
		return setup, err
	}
	if len(flagVehicles) != 3 {
		return setup, fmt.Errorf("exactly 3 vehicles are required, got %d", len(flagVehicles))
	}
	var vehicles [3]models.Vehicle
	for i, name := range flagVehicles {
		v, err := models.ParseVehicle(strings.TrimSpace(name))
		if err != nil {
			return setup, err
		}
		vehicles[i] = v
	}

	return models.RaceSetup{Position: position, VisibleRoad: road, Vehicles: vehicles}, nil
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the winner for a race setup",
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := parseSetup()
		if err != nil {
			return err
		}

		dual, err := pred.PredictBoth(setup, session.Records())
		if err != nil {
			return err
		}
		metrics.PredictionsTotal.WithLabelValues(string(dual.ByModel.Method)).Inc()

		fmt.Printf("By model (%s): %s\n", dual.ByModel.Method, dual.ByModel.PredictedVehicle)
		fmt.Printf("  hidden segments: %s\n", repository.HiddenDetails(models.HistoryRecord{
			HiddenRoad1: dual.ByModel.HiddenRoads[0], Hidden1Pos: dual.ByModel.HiddenPositions[0],
			HiddenRoad2: dual.ByModel.HiddenRoads[1], Hidden2Pos: dual.ByModel.HiddenPositions[1],
		}))
		if dual.ByHistory != nil {
			confidence := ""
			if dual.ByHistory.Confidence != nil {
				confidence = fmt.Sprintf(" (confidence %.1f%%)", *dual.ByHistory.Confidence*100)
			}
			fmt.Printf("By history (%s): %s%s\n", dual.ByHistory.Method, dual.ByHistory.PredictedVehicle, confidence)
		} else {
			fmt.Println("By history: not enough matching races yet")
		}

		audit.LogPrediction(string(setup.Position), string(setup.VisibleRoad),
			[3]string{string(setup.Vehicles[0]), string(setup.Vehicles[1]), string(setup.Vehicles[2])},
			string(dual.ByModel.PredictedVehicle), string(dual.ByModel.Method), dual.ByModel.Confidence)
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record an actual race outcome and persist the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := parseSetup()
		if err != nil {
			return err
		}
		winner, err := models.ParseVehicle(flagWinner)
		if err != nil {
			return err
		}
		if !setup.Contains(winner) {
			return models.ErrInvalidWinner
		}

		// The prediction is resolved before appending so the stored record
		// reflects what the system believed at save time.
		result, err := pred.Predict(setup, session.Records())
		if err != nil {
			return err
		}

		rec := models.HistoryRecord{
			Position:     setup.Position,
			VisibleRoad:  setup.VisibleRoad,
			HiddenRoad1:  result.HiddenRoads[0],
			Hidden1Pos:   result.HiddenPositions[0],
			HiddenRoad2:  result.HiddenRoads[1],
			Hidden2Pos:   result.HiddenPositions[1],
			LongSegment:  result.LongSegment,
			Vehicle1:     setup.Vehicles[0],
			Vehicle2:     setup.Vehicles[1],
			Vehicle3:     setup.Vehicles[2],
			ActualWinner: winner,
			Prediction:   result.PredictedVehicle,
			PredMethod:   result.Method,
		}
		if err := session.Append(rec); err != nil {
			return err
		}
		metrics.RacesRecordedTotal.Inc()
		metrics.HistorySize.Set(float64(session.Len()))
		audit.LogOutcome(string(setup.Position), string(setup.VisibleRoad),
			string(winner), string(result.PredictedVehicle), session.Len())

		if err := session.Save(cmd.Context()); err != nil {
			metrics.HistorySavesTotal.WithLabelValues("failure").Inc()
			audit.LogSaveFailure(cfg.History.Backend, session.Len(), err)
			return fmt.Errorf("outcome recorded in memory but not persisted, retry with another save: %w", err)
		}
		metrics.HistorySavesTotal.WithLabelValues("success").Inc()

		fmt.Printf("Race saved. Total races: %d\n", session.Len())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the accumulated race history",
	Run: func(cmd *cobra.Command, args []string) {
		records := session.Records()
		fmt.Printf("%d recorded races\n", len(records))
		for i, rec := range records {
			fmt.Printf("%3d  %s %-10s  %s vs %s vs %s  winner=%s  predicted=%s (%s)\n",
				i+1, rec.Position, rec.VisibleRoad,
				rec.Vehicle1, rec.Vehicle2, rec.Vehicle3,
				rec.ActualWinner, rec.Prediction, rec.PredMethod)
		}
	},
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Evaluate historical prediction accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		records := session.Records()

		var (
			report accuracy.Report
			err    error
		)
		if flagReplay {
			report, err = evaluator.EvaluateReplay(records)
		} else {
			report, err = evaluator.EvaluateSaved(records)
		}
		if err != nil {
			return err
		}
		metrics.OverallAccuracy.Set(report.Overall)

		fmt.Printf("Mode: %s\n", report.Mode)
		fmt.Printf("Overall: %.1f%% (%d/%d)\n", report.OverallPercent(), report.CorrectCount, report.TotalRecords)
		fmt.Println("Per vehicle:")
		for _, row := range report.PerVehicle {
			fmt.Printf("  %-8s %5.1f%%  (%d/%d wins predicted)\n",
				row.Vehicle, row.Accuracy*100, row.Correct, row.Wins)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(flagFile)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()

		records := session.Records()
		if err := repository.EncodeCSV(f, records); err != nil {
			return err
		}
		fmt.Printf("Exported %d records to %s\n", len(records), flagFile)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import history from a CSV file, accepting legacy layouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(flagFile)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		imported, err := repository.DecodeCSV(f, appLogger)
		if err != nil {
			return err
		}

		if flagMerge {
			for _, rec := range imported {
				if err := session.Append(rec); err != nil {
					appLogger.WithError(err).Warn("Skipping invalid imported record")
				}
			}
		} else {
			session.Replace(imported)
		}
		metrics.HistorySize.Set(float64(session.Len()))

		if err := session.Save(cmd.Context()); err != nil {
			return fmt.Errorf("import loaded in memory but not persisted: %w", err)
		}
		fmt.Printf("Imported %d records, history now holds %d\n", len(imported), session.Len())
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the periodic accuracy snapshot and metrics endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		sched := scheduler.NewScheduler(session, evaluator, appLogger)
		if cfg.Snapshot.Enabled {
			if err := sched.ScheduleSnapshot(cfg.Snapshot.Schedule); err != nil {
				return err
			}
		}
		sched.Start()
		defer sched.Stop()

		if cfg.Metrics.Enabled {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
				Handler: mux,
			}
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					appLogger.WithError(err).Error("Metrics server failed")
				}
			}()
			defer server.Close()
			appLogger.WithField("port", cfg.Metrics.Port).Info("Metrics endpoint started")
		}

		appLogger.Info("Watch mode running, Ctrl-C to stop")
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		appLogger.Info("Shutting down")
		return nil
	},
}
