// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/template"

	"github.com/forgeworks/mcp-creator/src/internal/helper/posix"
	"github.com/forgeworks/mcp-creator/src/logger"
	"github.com/forgeworks/mcp-creator/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// cliHelpData holds the data used to populate the CLI help template.
//
// It is used internally by BuildRootCommand to prepare data for the
// embedded cli_help.md template. It contains the dynamic values that
// need to be substituted into the CLI help text.
//
// Fields:
//   - ExeName: The name of the executable binary for command examples
//   - InstructionsFlagName: The formatted instructions flag name (e.g., "--instructions")
//   - ConfigFlagName: The formatted config flag name (e.g., "--config")
//   - HelpFlagName: The formatted help flag name (e.g., "--help")
type cliHelpData struct {
	// ExeName: Executable name for command examples
	ExeName string
	// InstructionsFlagName: Dynamic instructions flag name
	InstructionsFlagName string
	// ConfigFlagName: Dynamic config flag name
	ConfigFlagName string
	// HelpFlagName: Dynamic help flag name
	HelpFlagName string
}

// CLIFramework integrates Cobra CLI with MCP server capabilities.
// It provides a unified interface for both CLI operations and MCP server functionality.
//
// The CLIFramework serves as a bridge between command-line interface patterns
// and MCP server operations, enabling users to interact with scaffolding tools
// through both traditional CLI commands and MCP protocol communication.
//
// Key features:
//   - Dynamic executable naming based on actual binary path (not hardcoded)
//   - [Gopls-style] --instructions flag for displaying scaffolding workflows
//   - Configuration file support via --config flag or MCP_CREATOR_CONFIG_FILE environment variable
//   - Default MCP server startup when no arguments are provided
//   - Graceful shutdown handling with signal interception
//
// Fields:
//   - configFile: Path to the MCP server configuration file.
//     Can be set via --config flag or defaults to empty string for environment variable fallback.
//   - config: Server configuration containing AI settings, timeouts, and other options.
//     Loaded from configFile or defaults when not specified.
//   - embed: Embedded filesystem interface for static resources and templates.
//     Used for accessing embedded documentation, prompts, and resource files.
//   - version: Server version string for identification and User-Agent headers.
//     Displayed in CLI --version flag and used in HTTP requests.
//   - engines: Scaffolding engines shared by every tool and resource handler.
//   - tools: List of tool definitions without configuration requirements.
//   - toolsWithConfig: List of tool definitions that require configuration access.
//     These tools receive the server Config parameter for AI API keys or timeouts.
//   - resources: List of static and dynamic resources provided by the server.
//   - prompts: List of predefined prompts for guided workflows.
//   - samplingHandler: Handler for bidirectional AI communication and streaming responses.
//   - instructions: Server instructions for MCP clients describing capabilities and behavior.
//     Instructions sent during MCP initialization handshake.
//   - populateCache: Whether to populate metadata cache for resource handlers.
//     When enabled, resource handlers can access cached tool/prompt/resource metadata.
//
// This struct enables seamless integration between CLI and MCP server operations,
// providing both traditional command-line usage and modern MCP protocol support.
//
// [Gopls-style]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
type CLIFramework struct {
	configFile      string
	config          *Config
	embed           templates.EmbedFS
	version         string
	engines         *Engines
	tools           []ToolDefinition
	toolsWithConfig []ToolDefinitionWithConfig
	resources       []server.ServerResource
	prompts         []server.ServerPrompt
	samplingHandler client.SamplingHandler
	instructions    string
	populateCache   bool
}

// NewCLIFramework creates a new CLI framework instance with MCP server integration.
// It initializes the framework with all necessary dependencies for both CLI and MCP operations.
//
// The constructor performs dependency injection by accepting a configFile path and
// ServerDependencies struct containing all required components. Configuration loading
// is deferred until runtime (in startMCPServer) to allow CLI flag overrides and
// environment variable fallbacks.
//
// Parameters:
//   - configFile: Path to the MCP server configuration file.
//     Can be overridden via --config flag or MCP_CREATOR_CONFIG_FILE environment variable.
//     Pass empty string to use environment variable or default configuration.
//   - deps: Server dependencies containing all required components for MCP server operation.
//     Includes the engine bundle, tools, resources, prompts, and handlers.
//
// Returns:
//   - *CLIFramework: Initialized CLI framework ready for building commands.
//
// Example usage:
//
//	deps := ServerDependencies{
//	    Version: "1.0.0",
//	    Config: &Config{...},
//	    Engines: engines,
//	    // ... other dependencies
//	}
//	framework := NewCLIFramework("config.json", deps)
//	cmd := framework.BuildRootCommand()
func NewCLIFramework(configFile string, deps ServerDependencies) *CLIFramework {
	return &CLIFramework{
		configFile:      configFile,
		config:          deps.Config,
		embed:           deps.Embed,
		version:         deps.Version,
		engines:         deps.Engines,
		tools:           deps.Tools,
		toolsWithConfig: deps.ToolsWithConfig,
		resources:       deps.Resources,
		prompts:         deps.Prompts,
		samplingHandler: deps.SamplingHandler,
		instructions:    deps.Instructions,
		populateCache:   deps.PopulateCache,
	}
}

// BuildRootCommand creates the root Cobra command with integrated MCP server capabilities.
// It sets up the CLI structure and provides access to MCP server functionality through subcommands.
//
// The command is designed to be flexible and user-friendly:
//   - Uses dynamic executable naming based on os.Args[0] to match the actual binary name
//   - Provides [gopls-style] --instructions flag for displaying scaffolding workflows
//   - Includes --config flag for specifying MCP server configuration file
//   - Defaults to starting MCP server when no arguments are provided (no server subcommand needed)
//   - Supports --help and --version flags automatically via Cobra
//
// Command behavior:
//   - With --instructions: Displays formatted workflows and exits
//   - With arguments: Executes the specified subcommand (if any)
//   - Without arguments: Starts MCP server directly (default behavior)
//
// Returns:
//   - *cobra.Command: Root command with MCP server integration.
//
// The returned command can be executed directly or used as a parent for subcommands.
// When executed, it handles the --instructions flag, loads configuration, and starts
// the MCP server with proper signal handling and graceful shutdown.
//
// [gopls-style]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
func (cf *CLIFramework) BuildRootCommand() *cobra.Command {
	// Use cross-platform executable name extraction for consistent UX
	// This handles .exe extensions on Windows and provides fallback for edge cases
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:     exeName,
		Short:   "MCP server scaffolding tool with MCP server integration",
		Version: cf.version,
	}

	// Ensure help flag is available for flag name lookup during command building
	// Cobra normally adds this during Execute, but we need it for providing a dynamic help description that includes the actual binary name
	rootCmd.Flags().BoolP("help", "h", false, "help for "+exeName)

	// Add instructions flag similar to gopls for displaying usage workflows
	// This provides users with immediate access to scaffolding guidance
	var showInstructions bool
	rootCmd.PersistentFlags().BoolVar(&showInstructions, "instructions", false, "print usage workflows for scaffolding operations")

	// Add config file flag with persistent behavior for subcommands
	// Allows configuration override via CLI flag while supporting environment variables
	rootCmd.PersistentFlags().StringVar(&cf.configFile, "config", cf.configFile, "path to MCP server configuration file")

	// Extract flag names for template processing
	instructionsFlagName, configFlagName, helpFlagName := extractFlagNames(rootCmd)

	// Check if embed filesystem is available before proceeding with template loading
	if cf.embed == nil {
		panic("CLIFramework embed filesystem not initialized")
	}

	// Load and execute CLI help template
	longDesc, examples, err := cf.loadAndExecuteCLIHelpTemplate(exeName, instructionsFlagName, configFlagName, helpFlagName)
	if err != nil {
		// Template processing failures are critical errors during command building
		panic(fmt.Sprintf("failed to process CLI help template: %v", err))
	}

	// Set the processed template content on the command
	rootCmd.Long = longDesc
	rootCmd.Example = examples

	// Override root command run to handle instructions flag and default server behavior
	// This custom run logic enables the dual CLI/MCP functionality
	originalRunE := rootCmd.RunE
	rootCmd.RunE = cf.createRootCommandRunE(&showInstructions, exeName, originalRunE)

	return rootCmd
}

// loadAndExecuteCLIHelpTemplate loads the CLI help template from embedded filesystem,
// executes it with dynamic data, and parses the result to extract Long description and Examples.
// This function handles the template processing logic separately from command building.
//
// Parameters:
//   - exeName: The name of the executable binary for command examples
//   - instructionsFlagName: The formatted instructions flag name (e.g., "--instructions")
//   - configFlagName: The formatted config flag name (e.g., "--config")
//   - helpFlagName: The formatted help flag name (e.g., "--help")
//
// Returns:
//   - longDesc: The processed Long description text for the CLI command
//   - examples: The processed Examples section text for the CLI command
//   - err: Template loading, parsing, execution, or result parsing errors
func (cf *CLIFramework) loadAndExecuteCLIHelpTemplate(exeName, instructionsFlagName, configFlagName, helpFlagName string) (longDesc, examples string, err error) {
	// Load CLI help template from embedded filesystem
	templateBytes, err := cf.embed.ReadFile("cli_help.md")
	if err != nil {
		return "", "", fmt.Errorf("failed to load CLI help template: %w", err)
	}

	// Prepare data for template
	data := cliHelpData{
		ExeName:              exeName,
		InstructionsFlagName: instructionsFlagName,
		ConfigFlagName:       configFlagName,
		HelpFlagName:         helpFlagName,
	}

	// Parse and execute template
	tmpl, err := template.New("cli_help").Parse(string(templateBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse CLI help template: %w", err)
	}

	// Execute template and parse result
	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", "", fmt.Errorf("failed to execute CLI help template: %w", err)
	}

	// Parse the template result to extract Long and Example sections
	templateResult := result.String()
	longDesc, examples, err = cf.parseTemplateResult(templateResult)
	if err != nil {
		return "", "", err
	}

	return longDesc, examples, nil
}

// parseTemplateResult parses the template execution result to extract Long description and Examples.
// It looks for the "## Examples" marker and splits the content accordingly.
//
// Parameters:
//   - templateResult: The rendered template output as a string
//
// Returns:
//   - longDesc: The Long description text (everything before "## Examples")
//   - examples: The Examples section text (everything after "## Examples")
//   - err: Parsing errors if the template format is invalid
//
// The function validates that the required "## Examples" section marker exists,
// ensuring the template follows the expected format for proper CLI help generation.
func (cf *CLIFramework) parseTemplateResult(templateResult string) (longDesc, examples string, err error) {
	// Look for "## Examples" section marker
	examplesMarker := "## Examples"
	markerIndex := strings.Index(templateResult, examplesMarker)
	if markerIndex == -1 {
		return "", "", fmt.Errorf("CLI help template has invalid format - missing '## Examples' section")
	}

	// Find the start of the line containing "## Examples"
	lineStart := strings.LastIndex(templateResult[:markerIndex], "\n")
	if lineStart == -1 {
		lineStart = 0 // No preceding newline, start from beginning
	} else {
		lineStart++ // Skip the newline character
	}

	// Find the end of the line containing "## Examples"
	lineEnd := strings.Index(templateResult[markerIndex:], "\n")
	if lineEnd == -1 {
		lineEnd = len(templateResult) - markerIndex // No following newline
	} else {
		lineEnd += markerIndex
	}

	// Extract Long description (everything before "## Examples" line)
	longDesc = strings.TrimSpace(templateResult[:lineStart])

	// Extract Examples section (everything after "## Examples" line)
	examples = strings.TrimSpace(templateResult[lineEnd:])

	return longDesc, examples, nil
}

// extractFlagNames extracts formatted flag names from the root command.
// It looks up the actual flag objects and formats them with the "--" prefix.
//
// This function ensures that CLI help text always reflects the actual flag names
// used in the command, preventing inconsistencies between code and documentation.
//
// Parameters:
//   - rootCmd: The root Cobra command from which to extract flag information
//
// Returns:
//   - instructionsFlagName: Formatted instructions flag (e.g., "--instructions")
//   - configFlagName: Formatted config flag (e.g., "--config")
//   - helpFlagName: Formatted help flag (e.g., "--help")
//
// All returned flag names include the "--" prefix for consistent CLI documentation.
// If a flag lookup fails, sensible default names are returned to maintain functionality.
func extractFlagNames(rootCmd *cobra.Command) (instructionsFlagName, configFlagName, helpFlagName string) {
	// Get flag names for dynamic text generation
	instructionsFlag := rootCmd.PersistentFlags().Lookup("instructions")
	instructionsFlagName = "--instructions"
	if instructionsFlag != nil {
		instructionsFlagName = "--" + instructionsFlag.Name
	}

	configFlag := rootCmd.PersistentFlags().Lookup("config")
	configFlagName = "--config"
	if configFlag != nil {
		configFlagName = "--" + configFlag.Name
	}

	helpFlag := rootCmd.Flags().Lookup("help")
	helpFlagName = "--help"
	if helpFlag != nil {
		helpFlagName = "--" + helpFlag.Name
	}

	return instructionsFlagName, configFlagName, helpFlagName
}

// startMCPServer starts the MCP server directly without requiring the 'server' subcommand.
// This is the default behavior when running the binary without arguments.
//
// The method performs a complete MCP server initialization sequence:
//  1. Loads configuration from file (with fallback to defaults)
//  2. Builds MCP server using the ServerBuilder pattern
//  3. Registers all tools, resources, prompts, and sampling handlers
//  4. Starts stdio-based MCP server for protocol communication
//  5. Implements graceful shutdown with signal handling
//
// Configuration loading:
//   - Uses cf.configFile if set via --config flag
//   - Falls back to MCP_CREATOR_CONFIG_FILE environment variable
//   - Uses default configuration if no file specified
//
// Signal handling:
//   - Intercepts SIGINT (Ctrl+C) and SIGTERM signals
//   - Uses context cancellation for graceful shutdown
//   - Provides user feedback during shutdown process
//
// The server runs indefinitely until interrupted, communicating via stdio
// for MCP protocol messages. This enables integration with MCP clients and AI assistants.
//
// Returns:
//   - nil: When server shuts down gracefully due to signal interruption (successful operation)
//   - error: Configuration loading, server building, timeouts, or other runtime errors.
func (cf *CLIFramework) startMCPServer() error {
	// Create a logger for server messages that outputs to stderr
	l := logger.NewCLILogger()
	l.SetOutput(os.Stderr)

	// Load config based on the --config flag or environment variable fallback
	// This allows users to override configuration without editing files
	config, err := loadConfig(cf.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Build MCP server using the ServerBuilder pattern for clean dependency management
	// Each With* method adds specific capabilities to the server
	builder := NewServerBuilder().
		WithConfig(config).
		WithEmbed(cf.embed).
		WithVersion(cf.version).
		WithEngines(cf.engines).
		WithTools(cf.tools...).
		WithToolsWithConfig(cf.toolsWithConfig...).
		WithResources(cf.resources...).
		WithPrompts(cf.prompts...).
		WithSampling(cf.samplingHandler).
		WithInstructions(cf.instructions)

	// Enable metadata cache population if requested
	// This allows resource handlers to access cached tool/prompt/resource information
	if cf.populateCache {
		builder = builder.WithPopulate()
	}

	// Build the server with all configured components
	// This validates dependencies and creates the final server instance
	mcpServer, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build MCP server: %w", err)
	}

	// Start the MCP server with stdio transport for protocol communication
	// Stdio transport enables integration with MCP clients via standard input/output
	// The server will handle JSON-RPC messages over stdin/stdout
	stdioServer := server.NewStdioServer(mcpServer)

	// Implement graceful shutdown with context cancellation
	// This ensures clean termination when signals are received
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM signals for graceful shutdown
	// Creates a goroutine that waits for termination signals
	go func() {
		// Set up signal channel to receive OS signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		// Block until signal is received, then cancel context
		sig := <-sigChan
		// Clear the line (including any ^C) and show clean shutdown message
		l.Printf("\rReceived signal %s, initiating graceful shutdown...", sig)
		cancel()
	}()

	// Start the server - this will block until context is cancelled
	// The server listens for MCP protocol messages on stdin and responds on stdout
	// All MCP tool calls, resource requests, and sampling operations are handled here
	l.Printf("MCP Creator server started.")

	// Check if the error is due to context cancellation (graceful shutdown)
	// Only user-initiated cancellation (signals) should be treated as graceful shutdown
	// Timeout errors are operational issues that should be reported
	if err = stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && err == context.Canceled {
		return nil
	}

	return err
}

// printInstructions displays usage workflows for scaffolding operations.
// It uses the pre-generated instructions from server initialization.
//
// The function provides the same instruction display capability as the MCP server
// but accessible through the CLI --instructions flag, similar to [gopls]. It uses
// pre-generated instructions to ensure consistency between CLI and server.
//
// Returns:
//   - error: None (instructions are pre-generated and validated).
//
// [gopls]: https://tip.golang.org/gopls/features/mcp#instructions-to-the-model
func (cf *CLIFramework) printInstructions() error {
	// Use pre-generated instructions from server initialization
	// This ensures consistency between CLI and MCP server instruction display
	fmt.Print(cf.instructions)

	return nil
}

// createRootCommandRunE creates the RunE function for the root command.
// It handles the instructions flag display and default server startup behavior.
//
// This function encapsulates the command execution logic that determines what action
// to take when the CLI application is run:
//  1. If --instructions flag is provided, display usage workflows and exit
//  2. If no arguments and no special flags, start MCP server directly
//  3. If arguments provided, attempt to execute subcommands or return error
//
// The instructions flag is passed as a pointer because its value is only
// populated once Cobra has parsed the command line, after this function runs.
//
// Parameters:
//   - showInstructions: Pointer to the bound --instructions flag value
//   - exeName: The executable name for error messages and identification
//   - originalRunE: The original RunE function (if any) from Cobra command setup
//
// Returns:
//   - func(*cobra.Command, []string) error: The RunE function that handles command execution
//
// Error Handling:
//   - Invalid arguments result in clear error messages with executable name
//   - Instructions display uses pre-generated content for consistency
//   - Server startup delegates to the full MCP server initialization process
func (cf *CLIFramework) createRootCommandRunE(showInstructions *bool, exeName string, originalRunE func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		// Handle instructions flag by displaying formatted workflows
		if *showInstructions {
			return cf.printInstructions()
		}
		// If no arguments and no instructions flag, start MCP server directly
		// This makes the default behavior user-friendly - just run the binary
		if len(args) == 0 {
			return cf.startMCPServer()
		}
		if originalRunE != nil {
			return originalRunE(cmd, args)
		}
		// If we reach here with arguments, it means an invalid command was provided
		// Return an error to indicate the command is not recognized
		return fmt.Errorf("unexpected arguments: %s for %q", strings.Join(args, " "), exeName)
	}
}
