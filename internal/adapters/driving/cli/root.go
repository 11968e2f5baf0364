// Package cli implements the codesignbot command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	boardmemory "github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/board/memory"
	"github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/board/miro"
	configfile "github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/config/file"
	"github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/llm/openai"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/services"
	"github.com/HowardHan99/codesignbot-sub001/internal/layout"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

var (
	verboseFlag   bool
	configDirFlag string
	dryRunFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "codesignbot",
	Short: "Capture design discussion and place it on a shared board",
	Long: `codesignbot captures streamed design discussion (recorded audio or
typed text), extracts discrete design points, scores each point against
the board's design proposal, and places one card per point inside a
bounded frame - deterministically and without overlap.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

// app holds the wired service graph for one CLI invocation.
type app struct {
	store    *configfile.ConfigStore
	settings domain.Settings
	client   *resilience.Client
	llm      driven.LLMService
	board    driven.BoardClient
	memBoard *boardmemory.Board

	engine     *layout.Engine
	regions    *services.RegionService
	classifier *services.ClassificationService
	segmenter  *services.SegmentService
	corpus     *services.CorpusProvider
	placer     *services.PlacementService
}

var application *app

// initApp wires adapters and services once per invocation.
func initApp(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	store, err := configfile.NewConfigStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	settings := configfile.LoadSettings(store)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	a := &app{
		store:    store,
		settings: settings,
	}

	a.client = resilience.NewClient(settings.Resilience.MinCallInterval, resilience.Policy{
		MaxRetries:  settings.Resilience.MaxRetries,
		BackoffBase: settings.Resilience.BackoffBase,
		CallTimeout: settings.Resilience.CallTimeout,
	})

	if settings.LLM.IsConfigured() {
		svc, err := openai.New(openai.Config{
			APIKey:          settings.LLM.APIKey,
			BaseURL:         settings.LLM.BaseURL,
			Model:           settings.LLM.Model,
			TranscribeModel: settings.LLM.TranscribeModel,
		})
		if err != nil {
			return fmt.Errorf("configure LLM: %w", err)
		}
		a.llm = svc
	} else {
		logger.Warn("no LLM configured: classification fails open, segmentation is local-only")
	}

	switch {
	case dryRunFlag:
		logger.Info("dry run: placing on an in-memory board")
		a.memBoard = boardmemory.New()
		a.board = a.memBoard
	case settings.Board.IsConfigured():
		board, err := miro.New(miro.Config{
			AccessToken: settings.Board.AccessToken,
			BoardID:     settings.Board.BoardID,
			BaseURL:     settings.Board.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("configure board: %w", err)
		}
		a.board = board
	default:
		logger.Warn("no board configured (set %s and %s): using in-memory board", configfile.EnvBoardToken, configfile.EnvBoardID)
		a.memBoard = boardmemory.New()
		a.board = a.memBoard
	}

	scale := settings.Classification.Scale
	a.engine = layout.New(settings.Layout, scale)
	a.regions = services.NewRegionService(a.board, a.client, settings.Layout)
	a.classifier = services.NewClassificationService(a.llm, a.client, settings.Classification)
	a.segmenter = services.NewSegmentService(a.llm, a.client, settings.Segmentation)
	a.corpus = services.NewCorpusProvider(a.regions, settings.Classification)
	a.placer = services.NewPlacementService(a.board, a.client, a.regions, a.classifier, a.corpus, a.engine, domain.LayoutScoreSectioned)

	application = a
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default ~/.codesignbot)")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "place on an in-memory board instead of the platform")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
