package cmd

import (
	"fmt"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply [job_id]",
	Short: "Apply to an open job with a bid",
	Long: `Apply to an open job with a bid.

Example:
  rentrctl apply <job-id> --name "Bob the Builder" --bid 140 --proposal "Can start tomorrow"
  rentrctl apply <job-id> --contractor-id 101 --bid 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		contractorID, _ := flags.GetString("contractor-id")
		bidRaw, _ := flags.GetString("bid")
		proposal, _ := flags.GetString("proposal")

		if name == "" && contractorID == "" {
			return fmt.Errorf("--name or --contractor-id is required")
		}
		bid, err := models.ParseAmount(bidRaw)
		if err != nil {
			return fmt.Errorf("--bid: %w", err)
		}

		app, err := newClient().Apply(args[0], models.ApplicationRequest{
			ContractorName: name,
			ContractorID:   contractorID,
			Bid:            &bid,
			Proposal:       proposal,
		})
		if err != nil {
			return err
		}
		cmd.Printf("✓ Application submitted!\nApplicant ID: %s\nName: %s\nBid: %d\n", app.ID, app.Name, app.Bid)
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign [job_id] [applicant_id]",
	Short: "Assign an applicant to an open job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := newClient().Assign(args[0], args[1])
		if err != nil {
			return err
		}
		cmd.Printf("✓ Job %s assigned to %s\n", job.ID, *job.AssignedTo)
		return nil
	},
}

func statusCommand(use, short string, status models.JobStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [job_id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := newClient().UpdateStatus(args[0], status)
			if err != nil {
				return err
			}
			cmd.Printf("✓ Job %s is now %s\n", job.ID, job.Status)
			return nil
		},
	}
}

var invoiceCmd = &cobra.Command{
	Use:   "invoice [job_id]",
	Short: "Submit an invoice for a completed job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		amountRaw, _ := flags.GetString("amount")
		notes, _ := flags.GetString("notes")

		amount, err := models.ParseAmount(amountRaw)
		if err != nil {
			return fmt.Errorf("--amount: %w", err)
		}

		invoice, err := newClient().SubmitInvoice(args[0], models.InvoiceRequest{Amount: &amount, Notes: notes})
		if err != nil {
			return err
		}
		cmd.Printf("✓ Invoice %s submitted for %d\n", invoice.ID, invoice.Amount)
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay [job_id]",
	Short: "Pay the invoice of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := newClient().PayInvoice(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("✓ Job %s paid\n", job.ID)
		return nil
	},
}

var contractorCmd = &cobra.Command{
	Use:   "contractor [contractor_id]",
	Short: "Show a contractor profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient().GetContractor(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%s (%s)\n", c.Name, c.Role)
		if c.Company != "" {
			cmd.Printf("Company:   %s\n", c.Company)
		}
		if c.Location != "" {
			cmd.Printf("Location:  %s\n", c.Location)
		}
		cmd.Printf("Rating:    %.1f\n", c.Rating)
		cmd.Printf("Completed: %d jobs\n", c.CompletedJobs)
		if len(c.Skills) > 0 {
			cmd.Printf("Skills:    %v\n", c.Skills)
		}
		cmd.Printf("\n%s\n", c.Bio)
		return nil
	},
}

func init() {
	applyFlags := applyCmd.Flags()
	applyFlags.String("name", "", "Contractor name")
	applyFlags.String("contractor-id", "", "Contractor profile ID, used for the name when --name is empty")
	applyFlags.String("bid", "", "Bid in whole units (required)")
	applyFlags.String("proposal", "", "Short proposal")

	invoiceFlags := invoiceCmd.Flags()
	invoiceFlags.String("amount", "", "Invoice amount (required)")
	invoiceFlags.String("notes", "", "Invoice notes")

	rootCmd.AddCommand(
		applyCmd,
		assignCmd,
		statusCommand("start", "Start an assigned job", models.InProgressJob),
		statusCommand("complete", "Mark a job in progress as completed", models.CompletedJob),
		invoiceCmd,
		payCmd,
		contractorCmd,
	)
}
