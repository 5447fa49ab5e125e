// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/generator"
	mcpserver "github.com/forgeworks/mcp-creator/src/mcp-server"
	"github.com/forgeworks/mcp-creator/src/web"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// Execute runs the root command, handling any errors that occur during execution.
//
// Without arguments the binary starts the MCP server on stdio. Subcommands
// expose the scaffolding engines directly for terminal use: listing and
// previewing templates, generating servers, inspecting saved workflows, and
// starting the web interface.
func Execute(version string) {
	deps, err := mcpserver.DefaultServerDependencies(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	framework := mcpserver.NewCLIFramework(os.Getenv("MCP_CREATOR_CONFIG_FILE"), deps)
	rootCmd := framework.BuildRootCommand()

	rootCmd.AddCommand(
		newTemplatesCmd(deps.Engines),
		newGenerateCmd(deps.Engines),
		newWorkflowsCmd(deps.Engines),
		newWebCmd(deps.Engines, version),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newTemplatesCmd lists the template catalog, optionally filtered by language.
func newTemplatesCmd(engines *mcpserver.Engines) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available server templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := engines.Templates.List(language)
			if len(list) == 0 {
				if language != "" {
					return fmt.Errorf("no templates for language %q (available: %s)",
						language, strings.Join(engines.Templates.Languages(), ", "))
				}
				return fmt.Errorf("no templates available")
			}

			table := tablewriter.NewTable(cmd.OutOrStdout())
			table.Header([]string{"KEY", "LANGUAGE", "DESCRIPTION", "FEATURES"})

			rows := make([][]string, 0, len(list))
			for _, t := range list {
				rows = append(rows, []string{
					t.Key(),
					t.Metadata.Language,
					t.Metadata.Description,
					strings.Join(t.Metadata.Features, ", "),
				})
			}
			if err := table.Bulk(rows); err != nil {
				return fmt.Errorf("failed to build template table: %w", err)
			}
			return table.Render()
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "filter templates by language")
	return cmd
}

// newGenerateCmd generates a server project from the command line.
func newGenerateCmd(engines *mcpserver.Engines) *cobra.Command {
	var (
		description  string
		language     string
		templateType string
		features     []string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "generate NAME",
		Short: "Generate a new MCP server project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := engines.Generator.Generate(cmd.Context(), generator.ServerSpec{
				Name:         args[0],
				Description:  description,
				Language:     language,
				TemplateType: templateType,
				Features:     features,
				OutputDir:    outputDir,
			})
			if err != nil {
				if suggestions := engines.Templates.Suggest(language, 3); len(suggestions) > 0 {
					return fmt.Errorf("%w (try: %s)", err, strings.Join(suggestions, ", "))
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s at %s\n", result.ServerName, result.OutputDir)
			fmt.Fprintf(out, "Template: %s\n", result.TemplateKey)
			fmt.Fprintf(out, "Files:\n")
			for _, f := range result.Files {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "An MCP server", "description embedded in the generated project")
	cmd.Flags().StringVarP(&language, "language", "l", "python", "target language")
	cmd.Flags().StringVarP(&templateType, "template", "t", "basic", "template type within the language")
	cmd.Flags().StringSliceVarP(&features, "features", "f", nil, "requested capabilities (e.g. tools,resources)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: configured output dir)")
	return cmd
}

// newWorkflowsCmd lists saved scaffolding workflows.
func newWorkflowsCmd(engines *mcpserver.Engines) *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "List saved scaffolding workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			workflows := engines.Workflows.List()
			if len(workflows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved workflows.")
				return nil
			}

			table := tablewriter.NewTable(cmd.OutOrStdout())
			table.Header([]string{"ID", "NAME", "STEPS", "CREATED"})

			rows := make([][]string, 0, len(workflows))
			for _, w := range workflows {
				rows = append(rows, []string{
					w.ID,
					w.Name,
					fmt.Sprintf("%d", w.StepCount),
					w.CreatedAt.Format(time.RFC3339),
				})
			}
			if err := table.Bulk(rows); err != nil {
				return fmt.Errorf("failed to build workflow table: %w", err)
			}
			return table.Render()
		},
	}
}

// newWebCmd starts the HTTP interface for the scaffolding engines.
func newWebCmd(engines *mcpserver.Engines, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Start the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := web.New(engines, version)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
}
