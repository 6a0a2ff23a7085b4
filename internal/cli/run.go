package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/agraph/internal/brain"
	"github.com/roach88/agraph/internal/cells"
	"github.com/roach88/agraph/internal/config"
	"github.com/roach88/agraph/internal/flowfile"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config string

	// Tokens allows overriding the run-token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens brain.TokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <flow-file>",
		Short: "Run a flow to completion",
		Long: `Run a flow file to completion.

The flow file declares the cells to register and the start activation.
The run ends when a cell raises the terminal interrupt or the queue stays
empty past the configured idle budget; both are clean outcomes. With
--format json the dispatch trace is printed as canonical JSON.

Example:
  agraph run ./flow.yaml
  agraph run --config ./agraph.toml ./flow.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to TOML engine config")

	return cmd
}

func runFlow(opts *RunOptions, flowPath string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	cfg := config.Default()
	if opts.Config != "" {
		var err error
		cfg, err = config.Load(opts.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	slog.Info("loading flow", "path", flowPath)
	flow, err := flowfile.Load(flowPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load flow", err)
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = brain.UUIDv7Generator{}
	}

	rec := brain.NewRecorder()
	b := brain.New(append(cfg.Options(),
		brain.WithRecorder(rec),
		brain.WithTokenGenerator(tokens),
	)...)

	if err := registerCells(b, flow, cmd.OutOrStdout()); err != nil {
		return WrapExitError(ExitCommandError, "failed to register cells", err)
	}
	slog.Info("cells registered", "cells", b.Len())

	// Setup signal handling for graceful shutdown.
	// Use command's context if available (for testing), otherwise create one.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	start := brain.Activation{Priority: 0, Cell: flow.Start.Cell, Args: brain.Args(flow.Start.Args)}
	outcome, err := b.Run(ctx, &start)
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	trace := rec.Snapshot()
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		out, err := trace.MarshalCanonical()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to serialize trace", err)
		}
		return formatter.Raw(out)
	}
	return formatter.Success(fmt.Sprintf("outcome: %s, dispatches: %d", outcome, len(trace.Dispatches)))
}

// registerCells builds and registers the flow's cell declarations.
// Print cells write to the command's stdout so output is capturable.
func registerCells(b *brain.Brain, flow *flowfile.Flow, out io.Writer) error {
	for _, spec := range flow.Cells {
		var cell brain.Cell
		switch spec.Kind {
		case flowfile.KindPrint:
			cell = &cells.PrintCell{Name: spec.Name, W: out}
		case flowfile.KindRelay:
			cell = &cells.RelayCell{Name: spec.Name, To: spec.To}
		default:
			// Unreachable: flowfile.Validate rejects unknown kinds.
			return fmt.Errorf("unknown cell kind %q", spec.Kind)
		}
		if _, err := b.Add(cell); err != nil {
			return err
		}
	}
	return nil
}
