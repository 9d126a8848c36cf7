package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-register/internal/prereg"
	"github.com/evcraddock/visitor-register/internal/qr"
)

func newPreregisterCmd() *cobra.Command {
	var in prereg.SubmitInput

	cmd := &cobra.Command{
		Use:   "preregister",
		Short: "Submit a pre-registration for a future visit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreregister(in)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "visitor name (required)")
	cmd.Flags().StringVar(&in.Contact, "contact", "", "contact number (required)")
	cmd.Flags().StringVar(&in.Purpose, "purpose", "", "purpose of visit (required)")
	cmd.Flags().StringVar(&in.VisitDate, "date", "", "visit date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&in.VisitTime, "time", "", "visit time, HH:MM (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Company, "company", "", "company")
	cmd.Flags().BoolVar(&in.NDASigned, "nda", false, "visitor signed the NDA")

	return cmd
}

func runPreregister(in prereg.SubmitInput) error {
	msg, err := newAPIClient().Preregister(in)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]string{"message": msg})
	}
	fmt.Println(msg)
	return nil
}

func newPreregsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preregs",
		Short: "List pending pre-registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreregs()
		},
	}
}

func runPreregs() error {
	preregs, err := newAPIClient().ListPreregistrations()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(preregs)
	}
	return printPreregTable(preregs)
}

func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pre-registration and check the visitor in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runApprove(id)
		},
	}
}

func runApprove(id int64) error {
	resp, err := newAPIClient().Approve(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	fmt.Println(resp.Message)
	if resp.Visitor != nil {
		printVisitor(resp.Visitor)
	}
	return nil
}

func newDeclineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <id>",
		Short: "Decline a pre-registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runDecline(id)
		},
	}
}

func runDecline(id int64) error {
	msg, err := newAPIClient().Decline(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]string{"message": msg})
	}
	fmt.Println(msg)
	return nil
}

func newQRCmd() *cobra.Command {
	var (
		output  string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "qr <contact>",
		Short: "Generate a pre-registration QR code",
		Long:  "Generate a PNG QR code linking to the pre-registration page for a contact. With --base-url the code is rendered locally; otherwise the server renders it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQR(args[0], output, baseURL)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default qr_<contact>.png)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "render locally for this public base URL")

	return cmd
}

func runQR(contact, output, baseURL string) error {
	var (
		png []byte
		err error
	)
	if baseURL != "" {
		png, err = qr.Encode(qr.PreregistrationURL(baseURL, contact))
	} else {
		png, err = newAPIClient().GenerateQR(contact)
	}
	if err != nil {
		return err
	}

	if output == "" {
		output = qrFileName(contact)
	}
	if err := os.WriteFile(output, png, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Printf("Wrote QR code to %s\n", output)
	return nil
}

// qrFileName returns the default QR output file for contact. Only ASCII
// letters, digits, '-' and '_' are kept so the file lands in the working
// directory.
func qrFileName(contact string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
			return r
		}
		return -1
	}, contact)
	if safe == "" {
		return "qr.png"
	}
	return "qr_" + safe + ".png"
}

// parseID parses a positive numeric ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be a positive number", s)
	}
	return id, nil
}
