package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kohashi/browserpilot/pkg/agent"
	"github.com/kohashi/browserpilot/pkg/browser"
	"github.com/kohashi/browserpilot/pkg/config"
	"github.com/kohashi/browserpilot/pkg/llm/bedrock"
	"github.com/kohashi/browserpilot/pkg/logging"
)

// defaultInstruction keeps the binary usable without arguments, matching
// the shipped demo task.
const defaultInstruction = "Search for the most popular waterproof Bluetooth speaker under $50 on Amazon and add it to the cart."

type cliOptions struct {
	configPath      string
	credentialsPath string
	modelID         string
	maxTurns        int
	debug           bool
	headless        bool
}

func rootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "browserpilot [instruction]",
		Short: "LLM-driven browser automation agent",
		Long: "browserpilot drives a Chromium page from a natural-language instruction.\n" +
			"A Bedrock model decides click and type actions against an accessibility\n" +
			"snapshot of the page; the agent executes them and reports the new page\n" +
			"state back until the model produces a final answer.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := defaultInstruction
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				instruction = args[0]
			}
			return run(cmd.Context(), opts, instruction)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to YAML config file (optional)")
	cmd.Flags().StringVar(&opts.credentialsPath, "credentials", config.DefaultCredentialsPath, "path to AWS credentials JSON file")
	cmd.Flags().StringVar(&opts.modelID, "model", "", "Bedrock model id (overrides config)")
	cmd.Flags().IntVar(&opts.maxTurns, "max-turns", 0, "maximum conversation turns (overrides config)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging to a timestamped session file")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "run the browser without a window")

	return cmd
}

// run wires the whole session: logging, config, credentials, browser,
// provider, agent. Startup failures return before any conversation begins.
func run(ctx context.Context, opts *cliOptions, instruction string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logSession, err := logging.New(opts.debug)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logSession.Close()
	log := logSession.Logger

	if logSession.Path != "" {
		log.Info("debug log file opened", zap.String("path", logSession.Path))
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.modelID != "" {
		cfg.ModelID = opts.modelID
	}
	if opts.maxTurns > 0 {
		cfg.MaxTurns = opts.maxTurns
	}
	if opts.headless {
		cfg.Headless = true
	}

	creds, err := config.LoadCredentials(opts.credentialsPath)
	if err != nil {
		return err
	}

	manager := browser.NewManager()
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			log.Warn("browser shutdown failed", zap.Error(err))
		}
	}()

	session, err := manager.NewSession(browser.SessionOptions{
		Headless:     cfg.Headless,
		TimeoutMs:    cfg.TimeoutMs,
		AllowedRoles: cfg.AllowedRoles,
	})
	if err != nil {
		return err
	}
	log.Info("browser session started",
		zap.String("browser_session", session.ID),
		zap.Bool("headless", session.Headless),
	)

	if err := session.Navigate(cfg.InitialURL); err != nil {
		// The initial page failing to settle is not fatal; the model sees
		// whatever state the page reached through the first snapshot.
		log.Warn("initial navigation did not complete", zap.String("url", cfg.InitialURL), zap.Error(err))
	}

	provider := bedrock.NewProvider(
		creds.AccessKeyID, creds.SecretAccessKey, creds.Region,
		bedrock.WithModel(cfg.ModelID),
		bedrock.WithPromptCaching(cfg.PromptCaching),
	)

	dispatcher := agent.NewDispatcher(session, log)
	loop := agent.New(provider, dispatcher, session, cfg.MaxTurns, log)

	log.Info("starting session",
		zap.String("model", cfg.ModelID),
		zap.Int("max_turns", cfg.MaxTurns),
		zap.String("instruction", instruction),
	)

	result, err := loop.Run(ctx, instruction)
	reportResult(result, err)
	if err != nil {
		log.Error("session failed",
			zap.String("state", result.State.String()),
			zap.Int("turns", result.Turns),
			zap.Error(err),
		)
		return err
	}

	log.Info("session finished",
		zap.Int("turns", result.Turns),
		zap.Int("input_tokens", result.Usage.InputTokens),
		zap.Int("output_tokens", result.Usage.OutputTokens),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return nil
}

// reportResult prints the user-visible outcome: the model's answer, or a
// labeled failure with the last known page context.
func reportResult(result *agent.Result, err error) {
	if err == nil {
		fmt.Println(result.FinalText)
		return
	}

	fmt.Printf("Session failed after %d turn(s): %v\n", result.Turns, err)
	if errors.Is(err, agent.ErrTurnLimitExceeded) {
		fmt.Println("The model kept requesting browser actions without producing a final answer.")
	}
	if result.LastSnapshot != nil {
		fmt.Printf("Last observed page: %s (%d interactive elements)\n",
			result.LastSnapshot.URL, len(result.LastSnapshot.Elements))
	}
}
