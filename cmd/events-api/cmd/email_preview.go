package cmd

import (
	"fmt"

	"github.com/deppfellow/events-api/internal/lib/email"
	"github.com/spf13/cobra"
)

var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview [template]",
	Short: "Render an email template with sample data",
	Long: `Render an email template to stdout using built-in sample data.

Examples:
  events-api email-preview
  events-api email-preview event_cancelled > preview.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := email.TemplateEventCancelled
		if len(args) == 1 {
			name = email.Template(args[0])
		}

		body, err := email.Preview(name)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
		return err
	},
}
