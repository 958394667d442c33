package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"eventmaster/internal/models"
	"eventmaster/internal/services"
)

func NewProductionCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "production",
		Short: "Record the kitchen production breakdown",
	}

	var items []string
	record := &cobra.Command{
		Use:   "record <order-id>",
		Short: "Replace the production items of an order and move it into production",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseItems(items)
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *Session) error {
				order, err := s.Service.RecordProduction(cmd.Context(), args[0], parsed)
				if err != nil {
					return operationError("record production", args[0], err)
				}
				s.Book.Acknowledge(order)
				return opts.formatter(cmd).Success(order, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Order %s: %d items, %d units, status %s\n",
						order.ShortRef(), len(order.Production.Items), order.Production.TotalUnits(), order.Status)
					return err
				})
			})
		},
	}
	record.Flags().StringArrayVar(&items, "item", nil, `production item as "name=quantity" (repeatable)`)

	cmd.AddCommand(record)
	return cmd
}

// parseItems turns "name=quantity" flags into production items. The last
// '=' splits, so names may contain one.
func parseItems(raw []string) ([]models.ProductionItem, error) {
	items := make([]models.ProductionItem, 0, len(raw))
	for _, r := range raw {
		i := strings.LastIndex(r, "=")
		if i <= 0 {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid item %q: want name=quantity", r))
		}
		name := strings.TrimSpace(r[:i])
		qty, err := strconv.Atoi(strings.TrimSpace(r[i+1:]))
		if err != nil || qty < 0 || name == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid item %q: want name=quantity", r))
		}
		items = append(items, models.ProductionItem{Name: name, Quantity: qty})
	}
	return items, nil
}

func NewQCCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Record quality control results",
	}

	var approve, reject, notes []string
	record := &cobra.Command{
		Use:   "record <order-id>",
		Short: "Mark items approved or pending and attach inspection notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				current, ok := s.Book.Find(args[0])
				if !ok {
					return operationError("record quality control", args[0], fmt.Errorf("%w: %s", services.ErrNotFound, args[0]))
				}
				var items []models.ProductionItem
				if current.Production != nil {
					items = models.CloneItems(current.Production.Items)
				}
				if err := applyInspection(items, approve, reject, notes); err != nil {
					return err
				}

				order, err := s.Service.RecordQualityControl(cmd.Context(), args[0], items)
				if err != nil {
					return operationError("record quality control", args[0], err)
				}
				s.Book.Acknowledge(order)
				return opts.formatter(cmd).Success(order, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Order %s: %d/%d items approved\n",
						order.ShortRef(), order.Production.ApprovedCount(), len(order.Production.Items))
					return err
				})
			})
		},
	}
	record.Flags().StringArrayVar(&approve, "approve", nil, "item id to approve (repeatable)")
	record.Flags().StringArrayVar(&reject, "reject", nil, "item id to send back to review (repeatable)")
	record.Flags().StringArrayVar(&notes, "note", nil, `inspection note as "item-id=text" (repeatable)`)

	cmd.AddCommand(record)
	return cmd
}

// applyInspection edits items in place. Every referenced id must exist.
func applyInspection(items []models.ProductionItem, approve, reject, notes []string) error {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.ID] = i
	}
	lookup := func(id string) (int, error) {
		i, ok := index[id]
		if !ok {
			return 0, NewExitError(ExitCommandError, fmt.Sprintf("unknown item id %q", id))
		}
		return i, nil
	}

	for _, id := range approve {
		i, err := lookup(id)
		if err != nil {
			return err
		}
		items[i].QCApproved = true
	}
	for _, id := range reject {
		i, err := lookup(id)
		if err != nil {
			return err
		}
		items[i].QCApproved = false
	}
	for _, n := range notes {
		id, text, found := strings.Cut(n, "=")
		if !found {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid note %q: want item-id=text", n))
		}
		i, err := lookup(id)
		if err != nil {
			return err
		}
		items[i].QCNotes = text
	}
	return nil
}

func NewDeliveryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Confirm deliveries",
	}

	var confirmation services.DeliveryConfirmation
	confirm := &cobra.Command{
		Use:   "confirm <order-id>",
		Short: "Mark an order delivered and freeze what left the kitchen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *Session) error {
				order, err := s.Service.ConfirmDelivery(cmd.Context(), args[0], confirmation)
				if err != nil {
					return operationError("confirm delivery", args[0], err)
				}
				s.Book.Acknowledge(order)
				return opts.formatter(cmd).Success(order, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Order %s delivered with %d items\n", order.ShortRef(), len(order.Delivery.ItemsSnapshot))
					return err
				})
			})
		},
	}
	confirm.Flags().StringVar(&confirmation.ProofURL, "proof", "", "URL of the delivery photo")

	cmd.AddCommand(confirm)
	return cmd
}
