package main

import (
	"context"
	"log"
	"os"

	"github.com/iamvkosarev/campus-assistant/config"
	"github.com/iamvkosarev/campus-assistant/internal/app"
	"github.com/iamvkosarev/campus-assistant/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	pageURL    string
	pageTitle  string
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "assistant",
		Short: "Campus assistant chat relay and terminal widget",
		Long: `assistant runs the campus chat relay and a terminal chat widget.

Examples:
  assistant serve                       Start the relay
  assistant serve -c config/config.yaml Start the relay with a config file
  assistant chat                        Open the terminal widget`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to the YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return app.RunRelay(cmd.Context(), cfg)
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the terminal chat widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			page := &model.PageContext{URL: pageURL, Title: pageTitle}
			return app.RunChat(cmd.Context(), cfg, page)
		},
	}
	chatCmd.Flags().StringVar(&pageURL, "page-url", "/", "page path reported to the assistant")
	chatCmd.Flags().StringVar(&pageTitle, "page-title", "Campus Assistant", "page title reported to the assistant")

	rootCmd.AddCommand(serveCmd, chatCmd)
	return rootCmd
}
