package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eventmaster/internal/report"
	"eventmaster/internal/services"
)

func NewReportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the operational reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "orders",
		Short: "General order list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				rows := report.OrderList(s.Book.Orders())
				return opts.formatter(cmd).Success(rows, func(w io.Writer) error {
					return report.RenderOrderList(w, rows, s.Clock.Now())
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "production",
		Short: "Kitchen production sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				entries := report.Production(s.Book.Orders())
				return opts.formatter(cmd).Success(entries, func(w io.Writer) error {
					return report.RenderProduction(w, entries, s.Clock.Now())
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "qc <order-id>",
		Short: "Quality control sheet for one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				order, ok := s.Book.Find(args[0])
				if !ok {
					return operationError("build quality control report", args[0], fmt.Errorf("%w: %s", services.ErrNotFound, args[0]))
				}
				sheet, err := report.QualityControl(order)
				if err != nil {
					return operationError("build quality control report", args[0], err)
				}
				return opts.formatter(cmd).Success(sheet, func(w io.Writer) error {
					return report.RenderQualityControl(w, sheet, s.Clock.Now())
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logistics",
		Short: "Delivery log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				rows := report.Logistics(s.Book.Orders())
				return opts.formatter(cmd).Success(rows, func(w io.Writer) error {
					return report.RenderLogistics(w, rows, s.Clock.Now())
				})
			})
		},
	})

	return cmd
}
