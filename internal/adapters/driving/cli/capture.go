package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	capturefile "github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/capture/file"
	capturewatch "github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/capture/watch"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/services"
)

var (
	captureRegion    string
	captureAudio     string
	captureWatch     string
	captureFromStart bool
	captureHints     []string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a discussion and place its points on the board",
	Long: `Captures a content stream in fixed windows, transcribes each window,
segments the transcript into design points, classifies each point
against the design proposal, and places one card per point.

Input comes from a recorded audio file (--audio) or from tailing a
typed transcript file (--watch). Press Ctrl-C once to stop capturing
and place what was heard; press it twice to cancel.`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureRegion, "region", "r", "Sketch-Notes", "target region title")
	captureCmd.Flags().StringVar(&captureAudio, "audio", "", "audio file to capture from")
	captureCmd.Flags().StringVar(&captureWatch, "watch", "", "transcript file to tail for typed input")
	captureCmd.Flags().BoolVar(&captureFromStart, "from-start", false, "with --watch, include existing file content")
	captureCmd.Flags().StringSliceVar(&captureHints, "hint", nil, "vocabulary hints for the transcriber")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, _ []string) error {
	opener, err := captureOpener()
	if err != nil {
		return err
	}

	a := application
	capture := services.NewCaptureService(opener, transcriber(a), a.client, a.settings.Capture, captureHints)

	ctx := context.Background()
	if err := capture.Start(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	cmd.Println("Capturing... press Ctrl-C to stop and place.")

	waitForStop(cmd, capture)

	transcript, err := capture.Stop(ctx)
	if errors.Is(err, domain.ErrNoContentCaptured) {
		cmd.Println("No content captured.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("stop capture: %w", err)
	}

	points, err := a.segmenter.Segment(ctx, transcript)
	if err != nil {
		return fmt.Errorf("segment transcript: %w", err)
	}
	if len(points) == 0 {
		cmd.Println("Transcript produced no usable points.")
		return nil
	}

	session := domain.NewSession(uuid.New().String(), a.settings.Classification.Scale)
	report, err := a.placer.PlacePoints(ctx, session, captureRegion, points)
	if err != nil {
		return fmt.Errorf("place points: %w", err)
	}

	printReport(cmd, captureRegion, report)
	return nil
}

// captureOpener picks the capture source from the flags.
func captureOpener() (driven.CaptureOpener, error) {
	switch {
	case captureAudio != "" && captureWatch != "":
		return nil, errors.New("--audio and --watch are mutually exclusive")
	case captureAudio != "":
		return &capturefile.Opener{Path: captureAudio}, nil
	case captureWatch != "":
		return &capturewatch.Opener{Path: captureWatch, FromStart: captureFromStart}, nil
	default:
		return nil, errors.New("one of --audio or --watch is required")
	}
}

// transcriber returns the LLM service as a transcriber when it is one.
func transcriber(a *app) driven.Transcriber {
	if t, ok := a.llm.(driven.Transcriber); ok {
		return t
	}
	return nil
}

// waitForStop blocks until the source is exhausted or the user
// interrupts; a second interrupt cancels instead of stopping cleanly.
func waitForStop(cmd *cobra.Command, capture *services.CaptureService) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-capture.Done():
			return
		case <-ticker.C:
			cmd.Printf("\rProgress: %3.0f%%", capture.Progress()*100)
		case <-interrupt:
			cmd.Println("\nStopping...")
			go func() {
				<-interrupt
				cmd.Println("Cancelling...")
				capture.Cancel()
			}()
			return
		}
	}
}

func printReport(cmd *cobra.Command, region string, report driving.PlacementReport) {
	cmd.Printf("Region %q: %d attempted, %d placed, %d duplicates skipped, %d failed\n",
		region, report.Attempted, report.Placed, report.Deduplicated, report.Failed)
}
