package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"eventmaster/internal/models"
	"eventmaster/internal/report"
	"eventmaster/internal/services"
)

func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, inspect and create orders",
	}
	cmd.AddCommand(newOrdersListCommand(opts))
	cmd.AddCommand(newOrdersShowCommand(opts))
	cmd.AddCommand(newOrdersCreateCommand(opts))
	return cmd
}

type listOptions struct {
	query string
	view  string
	limit int
}

func newOrdersListCommand(opts *RootOptions) *cobra.Command {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				orders, err := selectView(s.Book.Orders(), lo.view, lo.limit)
				if err != nil {
					return err
				}
				orders = services.Search(orders, lo.query)
				return opts.formatter(cmd).Success(orders, func(w io.Writer) error {
					return writeOrderTable(w, orders)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&lo.query, "query", "q", "", "filter by client name or order id")
	cmd.Flags().StringVar(&lo.view, "view", "all", "board to show (all|production|dispatch|delivered)")
	cmd.Flags().IntVar(&lo.limit, "limit", 0, "maximum delivered orders to show (delivered view only)")
	return cmd
}

func selectView(orders []models.Order, view string, limit int) ([]models.Order, error) {
	switch view {
	case "all":
		return orders, nil
	case "production":
		return services.ProductionBoard(orders), nil
	case "dispatch":
		return services.DispatchQueue(orders), nil
	case "delivered":
		return services.DeliveredHistory(orders, limit), nil
	default:
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown view %q", view))
	}
}

func writeOrderTable(w io.Writer, orders []models.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLIENT\tSERVICE\tPAX\tEVENT\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", o.ID, o.ClientName, o.ServiceType, o.Headcount, o.EventDate, o.Status)
	}
	return tw.Flush()
}

func newOrdersShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order with its production and delivery records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				order, ok := s.Book.Find(args[0])
				if !ok {
					return WrapExitError(ExitFailure, "unknown order", fmt.Errorf("%w: %s", services.ErrNotFound, args[0]))
				}
				return opts.formatter(cmd).Success(order, func(w io.Writer) error {
					return writeOrderDetail(w, order)
				})
			})
		},
	}
}

func writeOrderDetail(w io.Writer, o models.Order) error {
	fmt.Fprintf(w, "Order %s (%s)\n", o.ID, o.ShortRef())
	fmt.Fprintf(w, "Client:   %s\n", o.ClientName)
	fmt.Fprintf(w, "Service:  %s, %d pax\n", o.ServiceType, o.Headcount)
	fmt.Fprintf(w, "Event:    %s at %s\n", o.EventDate, o.EventLocation)
	fmt.Fprintf(w, "Status:   %s\n", o.Status)
	fmt.Fprintf(w, "Created:  %s\n", o.CreatedAt.UTC().Format(report.TimeLayout))

	if p := o.Production; p != nil && len(p.Items) > 0 {
		fmt.Fprintf(w, "\nProduction: %d units, %d/%d approved\n", p.TotalUnits(), p.ApprovedCount(), len(p.Items))
		for _, item := range p.Items {
			mark := " "
			if item.QCApproved {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %d x %s  (%s)\n", mark, item.Quantity, item.Name, item.ID)
		}
	}
	if d := o.Delivery; d != nil {
		fmt.Fprintf(w, "\nDelivered: %s\n", d.DeliveryDate.UTC().Format(report.TimeLayout))
		if d.ProofURL != "" {
			fmt.Fprintf(w, "Proof:     %s\n", d.ProofURL)
		}
	}
	return nil
}

func newOrdersCreateCommand(opts *RootOptions) *cobra.Command {
	var draft models.OrderDraft
	var serviceType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new pending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.ServiceType = models.ServiceType(serviceType)
			return opts.withSession(cmd, func(s *Session) error {
				order, err := s.Service.CreateOrder(cmd.Context(), draft)
				if err != nil {
					return operationError("create order", "", err)
				}
				s.Book.Acknowledge(order)
				return opts.formatter(cmd).Success(order, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Created order %s for %s\n", order.ID, order.ClientName)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&draft.ClientName, "client", "", "client name")
	cmd.Flags().StringVar(&serviceType, "service", string(models.ServiceCatering), fmt.Sprintf("service type %v", models.ServiceTypes))
	cmd.Flags().IntVar(&draft.Headcount, "headcount", 0, "number of guests")
	cmd.Flags().StringVar(&draft.EventDate, "date", "", "event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&draft.EventLocation, "location", "", "event location")
	return cmd
}
