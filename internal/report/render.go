package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func header(w io.Writer, title string, generatedAt time.Time) {
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Fecha de emisión: %s\n\n", generatedAt.UTC().Format(TimeLayout))
}

func stamp(t *time.Time, missing string) string {
	if t == nil {
		return missing
	}
	return t.UTC().Format(TimeLayout)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func RenderOrderList(w io.Writer, rows []OrderRow, generatedAt time.Time) error {
	header(w, "Reporte General de Pedidos", generatedAt)

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCliente\tServicio\tPax\tFecha Evento\tLugar\tEstado")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.Ref, r.ClientName, r.ServiceType, r.Headcount, r.EventDate, r.Location, r.Status)
	}
	return tw.Flush()
}

func RenderProduction(w io.Writer, entries []ProductionEntry, generatedAt time.Time) error {
	header(w, "Reporte de Producción", generatedAt)

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No hay órdenes en producción.")
		return err
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		coverage := "no cubre"
		if e.CoversHeadcount {
			coverage = "cubre"
		}
		fmt.Fprintf(w, "%s (ID: %s)\n", e.ClientName, e.Ref)
		fmt.Fprintf(w, "Evento: %s | Lugar: %s\n", e.EventDate, e.Location)
		fmt.Fprintf(w, "Inicio Prod: %s\n", stamp(e.StartDate, "-"))
		fmt.Fprintf(w, "Total Unidades: %d / %d pax (%s)\n", e.TotalUnits, e.Headcount, coverage)
		for _, item := range e.Items {
			if _, err := fmt.Fprintf(w, "  %d x %s\n", item.Quantity, item.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func RenderQualityControl(w io.Writer, sheet QualityControlSheet, generatedAt time.Time) error {
	header(w, "Reporte de Control de Calidad", generatedAt)

	fmt.Fprintf(w, "Pedido: #%s\n", sheet.Ref)
	fmt.Fprintf(w, "Cliente: %s\n", sheet.ClientName)
	fmt.Fprintf(w, "Evento: %s\n", sheet.ServiceType)
	fmt.Fprintf(w, "Fecha: %s\n", sheet.EventDate)
	fmt.Fprintf(w, "Lugar: %s\n\n", sheet.Location)

	tw := newTable(w)
	fmt.Fprintln(tw, "Producto\tEstado\tObservaciones")
	for _, line := range sheet.Lines {
		state := "Revisión"
		if line.Approved {
			state = "Aprobado"
		}
		fmt.Fprintf(tw, "%d x %s\t%s\t%s\n", line.Quantity, line.Name, state, orDefault(line.Notes, "Sin observaciones"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	verdict := "EN REVISIÓN"
	if sheet.FullyApproved {
		verdict = "APROBADO"
	}
	fmt.Fprintf(w, "\nItems Aprobados: %d / %d\n", sheet.Approved, sheet.Total)
	fmt.Fprintf(w, "Fecha de Revisión: %s\n", stamp(sheet.LastQCDate, "No registrada"))
	_, err := fmt.Fprintf(w, "Estado Final: %s\n", verdict)
	return err
}

func RenderLogistics(w io.Writer, rows []LogisticsRow, generatedAt time.Time) error {
	header(w, "Reporte de Logística", generatedAt)

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No hay entregas registradas.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCliente\tDestino\tFecha Entrega\tProductos\tEvidencia")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Ref, r.ClientName, r.Location, r.DeliveryDate.UTC().Format(TimeLayout), r.Items, orDefault(r.ProofURL, "N/A"))
	}
	return tw.Flush()
}
