package cli

import (
	"github.com/spf13/cobra"

	"quisqueya-quiz/internal/config"
)

const (
	defaultTop = 10
	maxTop     = 50
)

// NewLeaderboardCmd prints the best rounds, optionally for one theme.
func NewLeaderboardCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viperForCmd(cmd)
			return runLeaderboard(cmd, s.cfg, v.GetInt("top"), v.GetString("theme"))
		},
	}
	cmd.Flags().IntP("top", "n", defaultTop, "number of entries (1-50)")
	cmd.Flags().StringP("theme", "t", "", "only rounds played on this theme")
	return cmd
}

func runLeaderboard(cmd *cobra.Command, cfg config.Config, top int, theme string) error {
	ctx := cmd.Context()
	store, closeStore, err := openScoreStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	presenter, err := newPresenter(cmd, cfg)
	if err != nil {
		return err
	}
	results, err := store.TopN(ctx, clampTop(top), theme)
	if err != nil {
		return err
	}
	presenter.Leaderboard(results)
	return nil
}

func clampTop(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxTop:
		return maxTop
	default:
		return n
	}
}
