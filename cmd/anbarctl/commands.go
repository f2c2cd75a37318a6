package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

var stderr io.Writer = os.Stderr

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archivo|->",
		Short: "Importa piezas desde una tabla TSV o CSV (- lee stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("leer entrada: %w", err)
			}
			counts, err := s.svc.Importer.Import(cmd.Context(), string(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported=%d duplicates=%d malformed=%d\n",
				counts.Imported, counts.Duplicates, counts.Malformed)
			return nil
		},
	}
}

func newStockCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "stock <in|out> <sku> <cantidad>",
		Short:     "Registra una entrada o salida de stock",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{entity.TransactionIn, entity.TransactionOut},
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("cantidad %q no es un entero", args[2])
			}
			res, err := s.svc.Ledger.Apply(cmd.Context(), dto.ApplyTransactionRequest{
				Type:     args[0],
				SKU:      args[1],
				Quantity: qty,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d -> %d\n",
				res.Transaction.PartSKU, res.Transaction.Type, res.Transaction.Quantity, res.NewQuantity)
			return nil
		},
	}
}

func newPartsCmd(s *session) *cobra.Command {
	parts := &cobra.Command{Use: "parts", Short: "Catálogo de piezas"}

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista las piezas ordenadas por nombre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := s.svc.Catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			return printParts(cmd.OutOrStdout(), items)
		},
	}
	search := &cobra.Command{
		Use:   "search <término>",
		Short: "Busca por nombre, SKU, MPN, categoría o ubicación",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := s.svc.Catalog.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printParts(cmd.OutOrStdout(), items)
		},
	}
	parts.AddCommand(list, search)
	return parts
}

func newHistoryCmd(s *session) *cobra.Command {
	var sku string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Movimientos de stock, del más reciente al más antiguo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := s.svc.History.List(cmd.Context(), sku)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tSKU\tPART\tTYPE\tQTY")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", e.Date, e.PartSKU, e.PartName, e.Type, e.Quantity)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "filtra por SKU")
	return cmd
}

func newDashboardCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Resumen del inventario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := s.svc.Dashboard.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "parts=%d quantity=%d locations=%d\n",
				st.UniqueParts, st.TotalQuantity, st.UniqueLocations)
			return nil
		},
	}
}

func newShoppingCmd(s *session) *cobra.Command {
	shop := &cobra.Command{Use: "shopping", Short: "Lista de compras"}

	var (
		asPDF bool
		out   string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Exporta la lista en JSON (o PDF con --pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run := s.svc.Shopping.Export
			if asPDF {
				run = s.svc.Shopping.ExportPDF
			}
			exp, err := run(cmd.Context())
			if err != nil {
				return err
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(exp.Data)
				return err
			}
			path := out
			if path == "" {
				path = exp.FileName
			}
			if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	export.Flags().BoolVar(&asPDF, "pdf", false, "exporta la hoja en PDF")
	export.Flags().StringVarP(&out, "output", "o", "", "archivo destino (- = stdout; por defecto el nombre con fecha)")

	shop.AddCommand(export)
	return shop
}

func printParts(out io.Writer, parts []entity.Part) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tNAME\tCATEGORY\tLOCATION\tQTY")
	for _, p := range parts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.SKU, p.Name, p.Category, p.Location, p.Quantity)
	}
	return w.Flush()
}
