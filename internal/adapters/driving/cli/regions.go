package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Inspect and prepare board regions",
}

var regionsEnsureCmd = &cobra.Command{
	Use:   "ensure <title>",
	Short: "Find a region by title, creating it if absent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := application.regions.EnsureRegion(context.Background(), args[0], domain.LayoutScoreSectioned)
		if err != nil {
			return fmt.Errorf("ensure region %q: %w", args[0], err)
		}
		cmd.Printf("Region %q (%s) at (%.0f, %.0f), %.0f x %.0f\n",
			region.Title, region.ID, region.X, region.Y, region.Width, region.Height)
		return nil
	},
}

var regionsShowCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "List the card texts inside a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		region, err := application.regions.EnsureRegion(ctx, args[0], domain.LayoutScoreSectioned)
		if err != nil {
			return fmt.Errorf("ensure region %q: %w", args[0], err)
		}
		texts, err := application.regions.Contents(ctx, region)
		if err != nil {
			return fmt.Errorf("list region %q: %w", args[0], err)
		}
		if len(texts) == 0 {
			cmd.Println("(empty)")
			return nil
		}
		for i, t := range texts {
			cmd.Printf("%3d. %s\n", i+1, t)
		}
		return nil
	},
}

func init() {
	regionsCmd.AddCommand(regionsEnsureCmd, regionsShowCmd)
	rootCmd.AddCommand(regionsCmd)
}
