// Command blackjack is a thin CLI over the library: inspect tabular files,
// summarize their numeric columns, and convert between formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	blackjack "github.com/monner/black-jack"
	"github.com/monner/black-jack/internal/config"
	"github.com/monner/black-jack/internal/display"
	"github.com/monner/black-jack/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "blackjack",
		Short: "Columnar data toolkit",
		Long: `blackjack reads tabular files (CSV, JSON, Arrow IPC, Parquet), prints
and summarizes them, and converts between formats. Formats are picked by
file extension.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadFromEnv(config.NewDefaultConfig())
			cfg.VerboseLogging = cfg.VerboseLogging || verbose
			return blackjack.Configure(cfg)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd(), newHeadCmd(), newDescribeCmd(), newConvertCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Short())
		},
	}
}

func newHeadCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "head FILE",
		Short: "Print the first rows of a tabular file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readFile(args[0])
			if err != nil {
				return err
			}
			defer df.Release()

			opts := display.DefaultOptions()
			opts.MaxRows = rows
			return display.Render(os.Stdout, df, opts)
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "number of rows to print")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE",
		Short: "Summary statistics for the numeric columns of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readFile(args[0])
			if err != nil {
				return err
			}
			defer df.Release()

			summary, err := df.Describe()
			if err != nil {
				return err
			}
			defer summary.Release()
			return display.Render(os.Stdout, summary, display.DefaultOptions())
		},
	}
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Convert between tabular formats",
		Long: `Convert reads SRC and writes DST; both formats are picked by file
extension (.csv, .json, .jsonl, .arrow, .parquet).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readFile(args[0])
			if err != nil {
				return err
			}
			defer df.Release()
			return writeFile(args[1], df)
		},
	}
}

func readFile(path string) (*blackjack.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch formatOf(path) {
	case "csv":
		return blackjack.ReadCSV(f)
	case "json":
		return blackjack.ReadJSON(f)
	case "jsonl":
		return blackjack.ReadJSONLines(f)
	case "arrow":
		return blackjack.ReadArrow(f)
	case "parquet":
		return blackjack.ReadParquet(f)
	default:
		return nil, fmt.Errorf("unsupported input format for %q", path)
	}
}

func writeFile(path string, df *blackjack.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch formatOf(path) {
	case "csv":
		return blackjack.WriteCSV(f, df)
	case "json":
		return blackjack.WriteJSON(f, df)
	case "jsonl":
		return blackjack.WriteJSONLines(f, df)
	case "arrow":
		return blackjack.WriteArrow(f, df)
	case "parquet":
		return blackjack.WriteParquet(f, df)
	default:
		return fmt.Errorf("unsupported output format for %q", path)
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".arrow", ".ipc":
		return "arrow"
	case ".parquet", ".pq":
		return "parquet"
	default:
		return ""
	}
}
