package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"edgestats/adapters/answerset"
	"edgestats/adapters/excel"
	"edgestats/adapters/postgres"
	"edgestats/domain/answer"
	"edgestats/domain/contingency"
	"edgestats/domain/core"
	"edgestats/internal"
	"edgestats/internal/association"
	"edgestats/internal/batch"
	"edgestats/internal/config"
	"edgestats/internal/database"
	"edgestats/internal/format"
	"edgestats/internal/table"

	"github.com/spf13/cobra"
)

func newPanelCmd() *cobra.Command {
	var decimals int

	cmd := &cobra.Command{
		Use:   "panel [edge-attributes.json]",
		Short: "Print the statistics panel of one edge",
		Long: `Read an edge_attributes object from a file (or stdin) and print every
applicable statistic with its interpretation.

Example: edgestats panel edge.json --decimals 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := readAttributes(cmd, args)
			if err != nil {
				return err
			}
			printPanel(cmd.OutOrStdout(), association.NewPresenter(decimals).Panel(association.Compute(attrs)))
			return nil
		},
	}

	cmd.Flags().IntVar(&decimals, "decimals", format.StatisticsDecimals, "Decimal places for statistics")
	return cmd
}

func newTableCmd() *cobra.Command {
	var decimals int
	var output string

	cmd := &cobra.Command{
		Use:   "table [edge-attributes.json]",
		Short: "Render the contingency table of one edge",
		Long: `Render the contingency table with row and column totals.

Output formats: markdown (default), html, json.

Example: edgestats table edge.json --decimals 1 --output html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := readAttributes(cmd, args)
			if err != nil {
				return err
			}
			grid, err := table.NewRenderer(decimals).RenderEdge(attrs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "markdown", "md":
				fmt.Fprint(out, grid.Markdown())
			case "html":
				out.Write(table.HTML(grid.Markdown()))
			case "json":
				return writeJSON(out, grid)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&decimals, "decimals", format.TableDecimals, "Decimal places for percentages")
	cmd.Flags().StringVarP(&output, "output", "o", "markdown", "Output format: markdown, html or json")
	return cmd
}

func newMatrixCmd() *cobra.Command {
	var sheet string
	var chi, p float64
	var decimals int

	cmd := &cobra.Command{
		Use:   "matrix [table.xlsx|table.csv]",
		Short: "Compute statistics for a bare frequency table from a spreadsheet",
		Long: `Load a frequency table from an Excel or CSV file and print its statistics.
Chi-square and p-value are optional and only shown when given.

Example: edgestats matrix counts.xlsx --sheet Sheet1 --chi 7.2 --p 0.0073`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := excel.NewMatrixReader(args[0], sheet).ReadMatrix()
			if err != nil {
				return err
			}
			attrs := contingency.EdgeAttributes{FeatureMatrix: m}
			if cmd.Flags().Changed("chi") {
				attrs.ChiSquared = contingency.Float(chi)
			}
			if cmd.Flags().Changed("p") {
				attrs.PValue = contingency.Float(p)
			}
			printPanel(cmd.OutOrStdout(), association.NewPresenter(decimals).Panel(association.Compute(attrs)))
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default: first sheet)")
	cmd.Flags().Float64Var(&chi, "chi", 0, "Chi-square statistic computed upstream")
	cmd.Flags().Float64Var(&p, "p", 0, "P-value computed upstream")
	cmd.Flags().IntVar(&decimals, "decimals", format.StatisticsDecimals, "Decimal places for statistics")
	return cmd
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [answer.json]",
		Short: "Evaluate every edge of an answer document",
		Long: `Evaluate every edge of an answer document concurrently and print a JSON
report with per-edge results and a summary.

Concurrency and precision follow BATCH_CONCURRENCY, STATS_DECIMALS and TABLE_DECIMALS.

Example: edgestats batch answer.json > report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			set, err := readAnswer(cmd, args)
			if err != nil {
				return err
			}
			report, err := newRunner(cfg).Run(cmd.Context(), set.Edges)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [edge-attributes.json]",
		Short: "Export the table and statistics of one edge to an Excel workbook",
		Long: `Write a workbook with a Contingency sheet and a Statistics sheet.

Example: edgestats export edge.json --out edge.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			attrs, err := readAttributes(cmd, args)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("edgestats-%s.xlsx", core.NewReportID())
			}

			res := newRunner(cfg).Evaluate(answer.Edge{Attributes: attrs})
			if err := excel.NewExporter().Save(out, res.Panel, res.Grid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output workbook path (default: generated name)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var answerID string

	cmd := &cobra.Command{
		Use:   "import [answer.json]",
		Short: "Store the edges of an answer document in PostgreSQL",
		Long: `Parse an answer document and upsert its edges into the edge store
configured by DATABASE_URL. The answer id defaults to the document's id.

Example: edgestats import answer.json --answer-id 7f3c`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			set, err := readAnswer(cmd, args)
			if err != nil {
				return err
			}
			if answerID != "" {
				set.ID = core.AnswerID(answerID)
			}
			if set.ID == "" {
				return fmt.Errorf("answer document has no id, pass --answer-id")
			}

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewEdgeRepository(db).SaveEdges(cmd.Context(), set.ID, set.Edges); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d edges for answer %s\n", len(set.Edges), set.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&answerID, "answer-id", "", "Answer id to store the edges under")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the edge store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newRunner(cfg *config.Config) *batch.Runner {
	return batch.NewRunner(batch.Options{
		StatisticsDecimals: cfg.Display.StatisticsDecimals,
		TableDecimals:      cfg.Display.TableDecimals,
		Encoding:           cfg.EncoderConfig(),
		Concurrency:        cfg.Batch.Concurrency,
		Logger:             internal.NewDefaultLogger(),
	})
}

// readInput reads the named file, or stdin when no file is given or it is "-"
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

func readAttributes(cmd *cobra.Command, args []string) (contingency.EdgeAttributes, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return contingency.EdgeAttributes{}, err
	}
	return answerset.ParseAttributes(data)
}

func readAnswer(cmd *cobra.Command, args []string) (*answer.Set, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	return answerset.Parse(data)
}

func printPanel(w io.Writer, p association.Panel) {
	if p.Empty() {
		fmt.Fprintln(w, "Nothing to display")
		return
	}
	for _, l := range p.Upstream {
		fmt.Fprintln(w, l.Text)
	}
	if len(p.FromTable) > 0 {
		fmt.Fprintln(w, "From Table:")
		for _, l := range p.FromTable {
			fmt.Fprintln(w, "  "+l.Text)
		}
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
