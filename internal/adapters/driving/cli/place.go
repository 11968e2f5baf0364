package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

var (
	placeRegion string
	placeFile   string
)

var placeCmd = &cobra.Command{
	Use:   "place [text...]",
	Short: "Segment a transcript and place its points on the board",
	Long: `Segments an already-captured transcript into design points,
classifies each point against the design proposal and places one card
per point. The transcript comes from the arguments, --file, or stdin.`,
	RunE: runPlace,
}

func init() {
	placeCmd.Flags().StringVarP(&placeRegion, "region", "r", "Sketch-Notes", "target region title")
	placeCmd.Flags().StringVarP(&placeFile, "file", "f", "", "read the transcript from a file")
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	text, err := placeInput(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no transcript text given")
	}

	a := application
	ctx := context.Background()

	points, err := a.segmenter.Segment(ctx, text)
	if err != nil {
		return fmt.Errorf("segment transcript: %w", err)
	}
	if len(points) == 0 {
		cmd.Println("Transcript produced no usable points.")
		return nil
	}

	session := domain.NewSession(uuid.New().String(), a.settings.Classification.Scale)
	report, err := a.placer.PlacePoints(ctx, session, placeRegion, points)
	if err != nil {
		return fmt.Errorf("place points: %w", err)
	}

	printReport(cmd, placeRegion, report)
	return nil
}

func placeInput(args []string) (string, error) {
	switch {
	case placeFile != "":
		data, err := os.ReadFile(placeFile)
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}
