package cli

import (
	"github.com/spf13/cobra"
)

// NewThemesCmd lists the themes found in the question sources.
func NewThemesCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadQuestionBank(cmd.Context(), s.cfg)
			if err != nil {
				return err
			}
			presenter, err := newPresenter(cmd, s.cfg)
			if err != nil {
				return err
			}
			presenter.Themes(bank.ListThemes())
			return nil
		},
	}
}
