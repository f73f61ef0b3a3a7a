package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/itrgo/internal/assistant"
	"github.com/rgehrsitz/itrgo/internal/extract"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text-file]",
	Short: "Read name, PAN, salary and 80C from a Form 16 text dump",
	Long: `Read profile fields from the recognised text of a salary document and print
them as a profile YAML that can be completed and passed to calculate.

Examples:
  ./itrgo extract form16.txt > profile.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}

		result := extract.NewTextExtractor().Extract(context.Background(), extract.Document{
			Filename: filepath.Base(args[0]),
			Text:     string(data),
		})
		if result.Err != "" {
			return errors.New(result.Err)
		}

		out, err := yaml.Marshal(result.Prefill())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the tax FAQ assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kbFile, _ := cmd.Flags().GetString("knowledge-base")
		kb := assistant.DefaultKnowledgeBase()
		if kbFile != "" {
			data, err := os.ReadFile(kbFile)
			if err != nil {
				return fmt.Errorf("failed to read knowledge base %s: %w", kbFile, err)
			}
			if kb, err = assistant.ParseKnowledgeBase(data); err != nil {
				return err
			}
		}

		answer := assistant.New(kb).Answer(strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func initAssistCommands() {
	askCmd.Flags().String("knowledge-base", "", "Path to a knowledge base YAML file (default: built-in)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(askCmd)
}
