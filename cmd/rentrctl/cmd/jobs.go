package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List, inspect and manage jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs, newest first",
	Long: `List jobs, newest first.

Example:
  rentrctl jobs list --status Open --type Plumbing --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		types, _ := flags.GetStringSlice("type")
		statuses, _ := flags.GetStringSlice("status")
		limit, _ := flags.GetInt("limit")
		offset, _ := flags.GetInt("offset")

		query := url.Values{}
		for _, t := range types {
			query.Add("type", t)
		}
		for _, s := range statuses {
			query.Add("status", s)
		}
		if limit > 0 {
			query.Set("limit", strconv.Itoa(limit))
		}
		if offset > 0 {
			query.Set("offset", strconv.Itoa(offset))
		}

		jobs, err := newClient().ListJobs(query)
		if err != nil {
			return err
		}
		printJobTable(cmd, jobs)
		return nil
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show [job_id]",
	Short: "Show a job with its applicants and invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := newClient().GetJob(args[0])
		if err != nil {
			return err
		}
		printJob(cmd, job)
		return nil
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a new job",
	Long: `Post a new job in status Open.

Example:
  rentrctl jobs create --title "Install Ceiling Fan" --description "Living room" --type Electrical --budget 300`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		description, _ := flags.GetString("description")
		jobType, _ := flags.GetString("type")
		budgetRaw, _ := flags.GetString("budget")

		if title == "" || description == "" {
			return fmt.Errorf("--title and --description are required")
		}
		budget, err := models.ParseAmount(budgetRaw)
		if err != nil {
			return fmt.Errorf("--budget: %w", err)
		}

		job, err := newClient().CreateJob(models.JobRequest{
			Title:       title,
			Description: description,
			Type:        jobType,
			Budget:      &budget,
		})
		if err != nil {
			return err
		}
		cmd.Printf("✓ Job created!\nID: %s\nStatus: %s\n", job.ID, job.Status)
		return nil
	},
}

var jobsEditCmd = &cobra.Command{
	Use:   "edit [job_id]",
	Short: "Change title, description, type or budget of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var update models.JobUpdate
		for name, target := range map[string]**string{
			"title":       &update.Title,
			"description": &update.Description,
			"type":        &update.Type,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*target = &v
			}
		}
		if flags.Changed("budget") {
			raw, _ := flags.GetString("budget")
			budget, err := models.ParseAmount(raw)
			if err != nil {
				return fmt.Errorf("--budget: %w", err)
			}
			update.Budget = &budget
		}
		if update.Empty() {
			return fmt.Errorf("nothing to update, pass at least one of --title, --description, --type, --budget")
		}

		job, err := newClient().EditJob(args[0], update)
		if err != nil {
			return err
		}
		cmd.Printf("✓ Job updated!\n")
		printJob(cmd, job)
		return nil
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete [job_id]",
	Short: "Delete a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteJob(args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Job %s deleted\n", args[0])
		return nil
	},
}

func init() {
	listFlags := jobsListCmd.Flags()
	listFlags.StringSlice("type", nil, "Filter by job type (repeatable)")
	listFlags.StringSlice("status", nil, "Filter by status (repeatable)")
	listFlags.Int("limit", 0, "Maximum number of jobs [1:100]")
	listFlags.Int("offset", 0, "Number of jobs to skip")

	createFlags := jobsCreateCmd.Flags()
	createFlags.String("title", "", "Job title (required)")
	createFlags.String("description", "", "Job description (required)")
	createFlags.String("type", string(models.General), "Plumbing, Electrical, Carpentry, HVAC or General")
	createFlags.String("budget", "", "Budget in whole units (required)")

	editFlags := jobsEditCmd.Flags()
	editFlags.String("title", "", "New title")
	editFlags.String("description", "", "New description")
	editFlags.String("type", "", "New job type")
	editFlags.String("budget", "", "New budget")

	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsCreateCmd, jobsEditCmd, jobsDeleteCmd)
	rootCmd.AddCommand(jobsCmd)
}
