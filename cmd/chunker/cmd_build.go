package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"chunker/cmd/chunker/ui"
	"chunker/internal/chunk"
	"chunker/internal/config"
	"chunker/internal/logging"
	"chunker/internal/table"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildName  string
	buildLimit string
	buildJSON  bool
)

// buildCmd prints the chunks for a name without touching the clipboard.
var buildCmd = &cobra.Command{
	Use:   "build FILE",
	Short: "Print the email chunks for a name",
	Long: `Loads FILE, keeps the rows whose name column equals --name and prints
the email chunks of at most --limit addresses each.

Example:
  chunker build contacts.xlsx --name "Jane Doe" --limit 50
  chunker build contacts.xls -n "Jane Doe" -l 50 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildName, "name", "n", "", "Exact value of the name column (required)")
	buildCmd.Flags().StringVarP(&buildLimit, "limit", "l", "", "Maximum emails per chunk (required)")
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "Print JSON instead of text")
	_ = buildCmd.MarkFlagRequired("name")
	_ = buildCmd.MarkFlagRequired("limit")
}

// chunkReport is the --json output.
type chunkReport struct {
	File     string      `json:"file"`
	Name     string      `json:"name"`
	Capacity int         `json:"capacity"`
	Total    int         `json:"total"`
	Chunks   []chunkJSON `json:"chunks"`
}

type chunkJSON struct {
	Index  int      `json:"index"`
	Length int      `json:"length"`
	Emails []string `json:"emails"`
	Text   string   `json:"text"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	file := args[0]
	chunks, criteria, err := loadChunks(ctx, cfg, file, buildName, buildLimit)
	if err != nil {
		return err
	}
	list := chunk.NewList(chunks)
	out := cmd.OutOrStdout()
	delim := cfg.Chunk.Delimiter
	if delim == "" {
		delim = chunk.DefaultDelimiter
	}

	if buildJSON {
		return writeJSON(out, file, criteria, list, delim)
	}
	writeText(out, file, criteria, list, delim)
	return nil
}

// loadChunks runs the load and build steps shared by build and copy.
func loadChunks(ctx context.Context, c *config.Config, file, name, limit string) ([]chunk.Chunk, chunk.Criteria, error) {
	criteria, err := chunk.ParseCriteria(name, limit)
	if err != nil {
		return nil, chunk.Criteria{}, err
	}

	loader := &table.Loader{MaxFileSize: c.Loader.MaxFileSize}
	rows, err := loader.Load(ctx, file)
	if err != nil {
		return nil, criteria, err
	}
	logger.Debug("spreadsheet loaded", zap.String("file", file), zap.Int("rows", len(rows)))

	cols := chunk.Columns{Name: c.Columns.Name, Email: c.Columns.Email}
	if len(rows) > 0 {
		if missing := table.HasColumns(rows, cols.Name, cols.Email); len(missing) > 0 {
			logger.Warn("spreadsheet is missing columns",
				zap.String("file", file), zap.Strings("missing", missing))
		}
	}

	chunks, err := chunk.BuildChunks(rows, criteria.Name, criteria.Capacity, cols)
	if err != nil {
		return nil, criteria, err
	}
	logging.Chunker("cli built %d chunks for %q from %s", len(chunks), criteria.Name, file)
	return chunks, criteria, nil
}

// summaryCellWidth caps the First and Last columns of the build summary.
const summaryCellWidth = 32

func writeText(w io.Writer, file string, criteria chunk.Criteria, list chunk.List, delim string) {
	if list.Len() == 0 {
		fmt.Fprintf(w, "No matching emails for %q in %s\n", criteria.Name, filepath.Base(file))
		return
	}

	styles := ui.DefaultStyles()
	title := fmt.Sprintf("%s: %s emails for %q in %s chunk(s) of up to %d",
		filepath.Base(file), humanize.Comma(int64(list.Total())), criteria.Name,
		humanize.Comma(int64(list.Len())), criteria.Capacity)
	summary := ui.NewSimpleTable(title,
		ui.Column{Header: "Chunk", Numeric: true},
		ui.Column{Header: "Length", Numeric: true},
		ui.Column{Header: "First", MaxWidth: summaryCellWidth},
		ui.Column{Header: "Last", MaxWidth: summaryCellWidth},
	)
	for i, c := range list.Chunks() {
		summary.AddRow(strconv.Itoa(i+1), strconv.Itoa(c.Len()), c[0], c[len(c)-1])
	}
	summary.SetFooter("Total", humanize.Comma(int64(list.Total())))
	fmt.Fprintln(w, summary.View(styles))

	for i, c := range list.Chunks() {
		fmt.Fprintf(w, "Chunk %d, length: %d\n", i+1, c.Len())
		fmt.Fprintln(w, c.Join(delim))
		if i < list.Len()-1 {
			fmt.Fprintln(w, strings.Repeat("-", 20))
		}
	}
}

func writeJSON(w io.Writer, file string, criteria chunk.Criteria, list chunk.List, delim string) error {
	report := chunkReport{
		File:     file,
		Name:     criteria.Name,
		Capacity: criteria.Capacity,
		Total:    list.Total(),
		Chunks:   make([]chunkJSON, 0, list.Len()),
	}
	for i, c := range list.Chunks() {
		report.Chunks = append(report.Chunks, chunkJSON{
			Index:  i + 1,
			Length: c.Len(),
			Emails: []string(c),
			Text:   c.Join(delim),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
