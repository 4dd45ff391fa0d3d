package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/millennium/codec"
	"github.com/s0up4200/millennium/filter"
	"github.com/s0up4200/millennium/millennium"
)

var (
	filterExpr string
	preset     string
	limit      int
	postData   string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <method> [key=value...]",
	Short: "Call a Millennium method with GET",
	Long: `Call a Millennium method with GET and print the returned records.

Parameters are passed as key=value pairs and sent in the query string.
Records can be narrowed down locally with an expression, e.g.
  millennium get millenium.produtos.lista ativo=true --filter 'preco > 100'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <method> [key=value...]",
	Short: "Call a Millennium method with POST",
	Long: `Call a Millennium method with POST and print the returned record.

Parameters are passed as key=value pairs and/or a JSON object with --data,
and are sent as the JSON request body.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPost,
}

func init() {
	getCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the returned records")
	getCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	getCmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n records (0 prints all)")

	postCmd.Flags().StringVar(&postData, "data", "", "JSON object merged into the parameters")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	method := args[0]

	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}

	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	logger.Info().Str("method", method).Msg("Calling Millennium method")

	resp, err := client.Get(ctx, method, params)
	if err != nil {
		return err
	}

	records := resp.Collect()
	if expr != "" {
		f, err := filterCompiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		records, err = filter.NewEvaluator().Evaluate(ctx, f, records)
		if err != nil {
			return err
		}
		logger.Debug().Str("filter", expr).Int("matches", len(records)).Msg("Filtered records")
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	var count *int64
	if n, ok := resp.Count(); ok {
		count = &n
	}

	return printRecords(cmd.OutOrStdout(), cfg.Output.Format, count, records)
}

func runPost(cmd *cobra.Command, args []string) error {
	method := args[0]

	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}
	if postData != "" {
		if err := mergeJSONParams(params, postData); err != nil {
			return err
		}
	}

	logger.Info().Str("method", method).Msg("Posting to Millennium method")

	resp, err := client.Post(cmd.Context(), method, params)
	if err != nil {
		return err
	}

	return printRecord(cmd.OutOrStdout(), cfg.Output.Format, resp.Record())
}

// filterCompiler is shared by every command; presets are compiled into its
// cache at startup.
var filterCompiler = filter.NewExprCompiler(filter.WithCache(filterCacheSize))

const filterCacheSize = 64

// compileFilterPresets compiles the configured presets and returns the
// names of those that fail, sorted.
func compileFilterPresets(presets map[string]string) []string {
	var invalid []string
	for _, name := range slices.Sorted(maps.Keys(presets)) {
		if _, err := filterCompiler.Compile(presets[name]); err != nil {
			invalid = append(invalid, name)
		}
	}
	return invalid
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filter.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}

// parseParams turns key=value arguments into call parameters. Values that
// look like booleans, canonical integers, numbers or wire date-times are
// converted; everything else is kept as text.
func parseParams(args []string) (millennium.Params, error) {
	params := make(millennium.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected key=value)", arg)
		}
		params[key] = parseValue(value)
	}
	return params, nil
}

func parseValue(s string) any {
	if t, ok := codec.ParseTimestamp(s); ok {
		return t
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	// Only canonical forms, so codes like "007" stay text
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	return s
}

// mergeJSONParams decodes a JSON object into params. Wire date-times in the
// object become time.Time values.
func mergeJSONParams(params millennium.Params, data string) error {
	var obj map[string]any
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return fmt.Errorf("invalid --data: %w", err)
	}
	for k, v := range codec.Decode(obj).(map[string]any) {
		params[k] = v
	}
	return nil
}
