package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/evcraddock/visitor-register/internal/prereg"
	"github.com/evcraddock/visitor-register/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitor prints a single visitor in text format.
func printVisitor(v *visitor.Visitor) {
	fmt.Printf("Visitor #%d\n", v.ID)
	fmt.Printf("  Name:      %s\n", v.Name)
	fmt.Printf("  Contact:   %s\n", v.Contact)
	if v.Company != "" {
		fmt.Printf("  Company:   %s\n", v.Company)
	}
	fmt.Printf("  Purpose:   %s\n", v.Purpose)
	fmt.Printf("  Status:    %s\n", v.Status)
	fmt.Printf("  Check-in:  %s\n", v.CheckinTime.Format(visitor.TimeLayout))
	if v.CheckoutTime != nil {
		fmt.Printf("  Check-out: %s\n", v.CheckoutTime.Format(visitor.TimeLayout))
	}
}

// printHistoryTable prints visitor history as a formatted table.
func printHistoryTable(entries []visitor.HistoryEntry) error {
	if len(entries) == 0 {
		fmt.Println("No visitors found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tCONTACT\tPURPOSE\tCHECK-IN\tCHECK-OUT\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-------\t-------\t--------\t---------\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, e := range entries {
		checkout := "-"
		if e.CheckoutTime != nil {
			checkout = e.CheckoutTime.Format(visitor.TimeLayout)
		}
		status := string(e.Status)
		if e.Overstay {
			status += " (overstay)"
		}

		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, truncate(e.Name, 30), e.Contact, truncate(e.Purpose, 30),
			e.CheckinTime.Format(visitor.TimeLayout), checkout, status); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d visitors\n", len(entries))
	return nil
}

// printPreregTable prints pending pre-registrations as a formatted table.
func printPreregTable(preregs []*prereg.Preregistration) error {
	if len(preregs) == 0 {
		fmt.Println("No pending pre-registrations.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tCONTACT\tCOMPANY\tPURPOSE\tVISIT\tNDA"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-------\t-------\t-------\t-----\t---"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range preregs {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s %s\t%s\n",
			p.ID, truncate(p.Name, 30), p.Contact, orDash(p.Company), truncate(p.Purpose, 30),
			p.VisitDate, p.VisitTime, yesNo(p.NDASigned)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
