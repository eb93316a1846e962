package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPreviewCmd prints a catalog quiz with its correct answers.
func NewPreviewCmd(configPath *string) *cobra.Command {
	opts := &terminalOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print a quiz's questions and correct answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTerminal(cmd.Context(), *configPath, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if t.quizName == "" {
				fmt.Fprintln(out, "No quiz available")
				return nil
			}
			text, err := t.service.Preview(t.quizName)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
	addTerminalFlags(cmd, opts)
	return cmd
}
