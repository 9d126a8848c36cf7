package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-register/internal/feedback"
	"github.com/evcraddock/visitor-register/internal/visitor"
)

func newCheckInCmd() *cobra.Command {
	var in visitor.CheckInInput

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check a visitor in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckIn(in)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "visitor name (required)")
	cmd.Flags().StringVar(&in.Contact, "contact", "", "10-digit contact number (required)")
	cmd.Flags().StringVar(&in.Purpose, "purpose", "", "purpose of visit (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Company, "company", "", "company")
	cmd.Flags().BoolVar(&in.NDASigned, "nda", false, "visitor signed the NDA")
	for _, f := range []string{"name", "contact", "purpose"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func runCheckIn(in visitor.CheckInInput) error {
	resp, err := newAPIClient().CheckIn(in)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	fmt.Println(resp.Message)
	printVisitor(resp.Visitor)
	return nil
}

func newCheckOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <contact>",
		Short: "Check out the visitor checked in under a contact number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckOut(args[0])
		},
	}
}

func runCheckOut(contact string) error {
	resp, err := newAPIClient().CheckOut(contact)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	fmt.Println(resp.Message)
	printVisitor(resp.Visitor)
	return nil
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [search]",
		Short: "List visitors, optionally filtered by name or contact",
		Long:  "List visitors whose name or contact contains the search text (case-sensitive). Without a search, list every visitor.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := ""
			if len(args) == 1 {
				search = args[0]
			}
			return runHistory(search)
		},
	}
}

func runHistory(search string) error {
	entries, err := newAPIClient().History(search)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(entries)
	}
	return printHistoryTable(entries)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show visitor counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	stats, err := newAPIClient().Stats()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(stats)
	}

	fmt.Printf("Checked in:  %d\n", stats.CheckedIn)
	fmt.Printf("Checked out: %d\n", stats.CheckedOut)
	fmt.Printf("Total:       %d\n", stats.Total)
	return nil
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the visitor log as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "visitor_logs.csv", "file to write (- for stdout)")

	return cmd
}

func runExport(output string) error {
	data, err := newAPIClient().Export()
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Printf("Exported visitor log to %s\n", output)
	return nil
}

func newFeedbackCmd() *cobra.Command {
	var in feedback.Input

	cmd := &cobra.Command{
		Use:   "feedback <message>",
		Short: "Submit feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Message = args[0]
			return runFeedback(in)
		},
	}

	cmd.Flags().StringVar(&in.Type, "type", "help", "feedback type (help|report|suggest)")
	cmd.Flags().StringVar(&in.Name, "name", "", "your name")
	cmd.Flags().StringVar(&in.Email, "email", "", "your email")

	return cmd
}

func runFeedback(in feedback.Input) error {
	msg, err := newAPIClient().SubmitFeedback(in)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]string{"message": msg})
	}
	fmt.Println(msg)
	return nil
}
