package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"eventmaster/internal/services"
)

// Session is everything a command needs to read and change orders.
type Session struct {
	Backend string
	Service services.OrderService
	Book    *services.OrderBook
	Clock   services.Clock
	Close   func()
}

// Opener connects to the configured backend. It runs once per invocation,
// only for commands that touch orders.
type Opener func(ctx context.Context) (*Session, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	open Opener
}

var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command of the eventmaster CLI.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "eventmaster",
		Short:         "EventMaster - catering order tracker",
		Long:          "Track catering orders from intake through production, quality control and delivery.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewProductionCommand(opts))
	cmd.AddCommand(NewQCCommand(opts))
	cmd.AddCommand(NewDeliveryCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// withSession opens the store for the duration of run.
func (o *RootOptions) withSession(cmd *cobra.Command, run func(*Session) error) error {
	if o.open == nil {
		return NewExitError(ExitCommandError, "no order store configured")
	}
	session, err := o.open(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open order store", err)
	}
	if session.Close != nil {
		defer session.Close()
	}
	o.formatter(cmd).VerboseLog("store %s: live=%t, %d orders", session.Backend, session.Book.Live(), len(session.Book.Orders()))
	return run(session)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
