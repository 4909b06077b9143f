package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rentrctl",
	Short: "rentrctl is a command line tool for the rentr job marketplace",
	Long: `rentrctl drives the rentr API from a terminal.

Jobs move through a fixed lifecycle:
  Open -> Assigned -> In Progress -> Completed -> Invoiced -> Paid

Common workflows:

  Post a job:
    rentrctl jobs create --title "Fix Leaking Kitchen Sink" --description "Under the sink" --type Plumbing --budget 150

  Apply and assign:
    rentrctl apply <job-id> --name "Bob the Builder" --bid 140
    rentrctl assign <job-id> <applicant-id>

  Finish and get paid:
    rentrctl start <job-id>
    rentrctl complete <job-id>
    rentrctl invoice <job-id> --amount 140
    rentrctl pay <job-id>

Configuration:
  RENTR_URL    API endpoint (default: http://localhost:8080)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute запускает корневую команду.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", describeError(err))
		return err
	}
	return nil
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".rentrctl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RENTR")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rentrctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8080", "rentr API URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}

func newClient() *JobClient {
	return NewJobClient(viper.GetString("url"))
}

func describeError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind != "" {
		return fmt.Sprintf("%s (%d): %s", apiErr.Kind, apiErr.StatusCode, apiErr.Message)
	}
	return err.Error()
}
