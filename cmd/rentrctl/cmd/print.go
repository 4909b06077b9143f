package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func printJobTable(cmd *cobra.Command, jobs []models.Job) {
	if len(jobs) == 0 {
		cmd.Println("No jobs found.")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tBUDGET\tSTATUS\tAPPLICANTS")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\n", j.ID, j.Title, j.Type, j.Budget, j.Status, len(j.Applicants))
	}
	tw.Flush()
}

func printJob(cmd *cobra.Command, job *models.Job) {
	cmd.Printf("%s\n", job.Title)
	cmd.Println("──────────────────────────────")
	cmd.Printf("ID:          %s\n", job.ID)
	cmd.Printf("Status:      %s\n", job.Status)
	cmd.Printf("Type:        %s\n", job.Type)
	cmd.Printf("Budget:      %d\n", job.Budget)
	cmd.Printf("Created:     %s\n", job.CreatedAt.Format(timeLayout))
	if job.AssignedTo != nil {
		cmd.Printf("Assigned to: %s\n", *job.AssignedTo)
	}
	cmd.Printf("Description: %s\n", job.Description)

	if len(job.Applicants) > 0 {
		cmd.Printf("\nApplicants (%d):\n", len(job.Applicants))
		for _, a := range job.Applicants {
			cmd.Printf("  %s  %-20s bid %d  %s\n", a.ID, a.Name, a.Bid, a.Proposal)
		}
	}

	if job.Invoice != nil {
		cmd.Printf("\nInvoice %s: %d (%s)\n", job.Invoice.ID, job.Invoice.Amount, job.Invoice.Date.Format(timeLayout))
		if job.Invoice.Notes != "" {
			cmd.Printf("  %s\n", job.Invoice.Notes)
		}
	}
}
