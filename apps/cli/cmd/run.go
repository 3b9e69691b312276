package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/builder"
	"github.com/abdul-hamid-achik/xhrmock/packages/core/config"
	"github.com/abdul-hamid-achik/xhrmock/packages/core/env"
	"github.com/abdul-hamid-achik/xhrmock/packages/fixture"
	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"github.com/abdul-hamid-achik/xhrmock/packages/output"
	"github.com/abdul-hamid-achik/xhrmock/packages/xhr"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [file|directory...]",
	Short: "Perform a simulated call against fixture routes",
	Long: `Load fixture routes, perform one simulated XMLHttpRequest call per
--call and print the events it fired. Fixtures default to the "fixtures"
entry of the config file.

Examples:
  xhrmock run routes.yaml --call "GET /users/42"
  xhrmock run ./fixtures/ --call "POST /orders" --body '{"sku":"a1"}' -H "Content-Type: application/json"
  xhrmock run routes.yaml --call "GET /slow" --timeout 50ms
  xhrmock run routes.yaml --call "GET /slow" --abort-after 10ms
  xhrmock run routes.yaml --call "GET /a" --call "GET /b" -o tap
  xhrmock run routes.yaml --call "GET /a" -o junit --output-file report.xml
  xhrmock run routes.yaml --call "GET /me" --env-file .env
  xhrmock run routes.yaml --call "GET /a" --watch`,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	callsFlag      []string
	bodyFlag       string
	headersFlag    []string
	envFilesFlag   []string
	timeoutFlag    string
	abortAfterFlag string
	verboseFlag    int // 0=off, 1=-v, 2=-vv debug logs
	noColorFlag    bool
	outputFlag     string
	outputFileFlag string
	watchFlag      bool
	configFlag     string
)

func init() {
	runCmd.Flags().StringArrayVarP(&callsFlag, "call", "c", nil, `Call to perform as "METHOD URL" (repeatable)`)
	runCmd.Flags().StringVarP(&bodyFlag, "body", "d", "", "Request body sent with every call")
	runCmd.Flags().StringArrayVarP(&headersFlag, "header", "H", nil, `Request header as "Name: value" (repeatable)`)
	runCmd.Flags().StringArrayVar(&envFilesFlag, "env-file", nil, "Dotenv file read by {{env.NAME}} placeholders (repeatable)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("XHRMOCK_TIMEOUT", ""), "Transport timeout, e.g. 50ms (env: XHRMOCK_TIMEOUT)")
	runCmd.Flags().StringVar(&abortAfterFlag, "abort-after", "", "Abort each call after this much virtual time, e.g. 0s or 10ms")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("XHRMOCK_CONFIG", ""), "Path to config file (env: XHRMOCK_CONFIG)")

	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v for every event, -vv for debug logs)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("XHRMOCK_NO_COLOR", false), "Disable colored output (env: XHRMOCK_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("XHRMOCK_OUTPUT", "console"), "Output format: console, json, junit, tap (env: XHRMOCK_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch fixtures for changes and re-run the calls")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return val == "yes"
		}
		return b
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatTrace(t *output.Trace)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// call is one --call entry
type call struct {
	method string
	url    string
}

func parseCall(s string) (call, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return call{}, fmt.Errorf("invalid call %q (want \"METHOD URL\")", s)
	}
	return call{method: fields[0], url: fields[1]}, nil
}

func parseHeaders(values []string, defaults map[string]string) (map[string]string, []string, error) {
	headers := make(map[string]string, len(defaults)+len(values))
	var order []string
	// Names are case-insensitive, so keys are lower-cased and a later
	// source replaces an earlier one whatever its spelling
	set := func(name, value string) {
		key := strings.ToLower(name)
		if _, ok := headers[key]; !ok {
			order = append(order, key)
		}
		headers[key] = value
	}

	names := make([]string, 0, len(defaults))
	for k := range defaults {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		set(k, defaults[k])
	}

	for _, h := range values {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, nil, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
		}
		set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers, order, nil
}

// runSettings is everything a single pass over the calls needs
type runSettings struct {
	calls      []call
	headers    map[string]string
	order      []string
	body       string
	timeout    time.Duration
	abortAfter time.Duration
	abort      bool
	maxTasks   int
	vars       *env.Vars
	logger     *zap.Logger
}

func newFormatter(w io.Writer, verbose, noColor bool) Formatter {
	switch strings.ToLower(outputFlag) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w))
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w))
	default: // "console"
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(verbose),
			output.WithNoColor(noColor),
		)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	settings := runSettings{
		body:     bodyFlag,
		timeout:  fileConfig.TimeoutDuration(),
		maxTasks: fileConfig.MaxTasks,
		vars:     env.NewVars(),
		logger:   zap.NewNop(),
	}

	// Files named on the command line win over the configured ones
	for _, path := range append(append([]string{}, fileConfig.EnvFiles...), envFilesFlag...) {
		if err := settings.vars.LoadFile(path); err != nil {
			return withExitCode(ExitConfigError, err)
		}
	}

	if timeoutFlag != "" {
		settings.timeout, err = time.ParseDuration(timeoutFlag)
		if err != nil {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid timeout value %q: %w (use format like 50ms, 1s)", timeoutFlag, err))
		}
	}
	if abortAfterFlag != "" {
		settings.abort = true
		settings.abortAfter, err = time.ParseDuration(abortAfterFlag)
		if err != nil {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid abort-after value %q: %w", abortAfterFlag, err))
		}
	}

	if len(callsFlag) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("at least one --call is required"))
	}
	for _, c := range callsFlag {
		parsed, err := parseCall(c)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
		settings.calls = append(settings.calls, parsed)
	}

	settings.headers, settings.order, err = parseHeaders(headersFlag, fileConfig.Headers)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if verboseFlag > 1 {
		if logger, err := zap.NewDevelopment(); err == nil {
			settings.logger = logger
			defer logger.Sync()
		}
	}

	sources := args
	if len(sources) == 0 {
		sources = fileConfig.Fixtures
	}
	if len(sources) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no fixtures given and none configured"))
	}
	files, err := collectFiles(sources)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .yaml, .yml or .json files found"))
	}

	outWriter := cmd.OutOrStdout()
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		outWriter = f
	}

	verbose := verboseFlag > 0 || fileConfig.GetVerbose()
	noColor := noColorFlag || fileConfig.GetNoColor()

	runOnce := func() error {
		formatter := newFormatter(outWriter, verbose, noColor)
		formatter.FormatHeader(version)

		start := time.Now()
		failed, err := runSources(sources, settings, formatter)
		if err != nil {
			formatter.FormatError(err)
		}

		// Flush output for formatters that accumulate results
		if flushable, ok := formatter.(Flushable); ok {
			if ferr := flushable.Flush(time.Since(start)); ferr != nil {
				return fmt.Errorf("error writing output: %w", ferr)
			}
		}

		if err != nil {
			return withExitCode(ExitParseError, err)
		}
		if failed > 0 {
			return withExitCode(ExitCallFailure, fmt.Errorf("%d call(s) did not load", failed))
		}
		return nil
	}

	err = runOnce()
	if !watchFlag {
		return err
	}

	return watchFixtures(cmd, watchDirs(sources, files), runOnce)
}

// runSources collects the fixtures under sources again and runs the calls,
// so files added to a directory since the last run are picked up.
func runSources(sources []string, s runSettings, formatter Formatter) (int, error) {
	files, err := collectFiles(sources)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no .yaml, .yml or .json files found")
	}
	return runCalls(files, s, formatter)
}

// runCalls installs the fixtures into a fresh builder and performs every
// call. It returns how many calls did not end in a load event.
func runCalls(files []string, s runSettings, formatter Formatter) (int, error) {
	parsed, err := fixture.LoadFiles(files)
	if err != nil {
		return 0, err
	}

	var loopOpts []loop.Option
	if s.maxTasks > 0 {
		loopOpts = append(loopOpts, loop.WithMaxTasks(s.maxTasks))
	}

	b := builder.New(
		builder.WithLogger(s.logger),
		builder.WithTimeout(s.timeout),
		builder.WithLoop(loop.New(loopOpts...)),
	)
	target := &builder.Env{}
	if err := b.Setup(target); err != nil {
		return 0, err
	}
	defer b.Teardown()

	for _, f := range parsed {
		if _, err := f.Install(b.Registry(), fixture.WithEnv(s.vars)); err != nil {
			return 0, fmt.Errorf("%s: %w", f.Path, err)
		}
	}

	failed := 0
	for _, c := range s.calls {
		trace := performCall(b, target, c, s)
		formatter.FormatTrace(trace)
		if !trace.Passed() {
			failed++
		}
	}
	return failed, nil
}

func performCall(b *builder.Builder, target *builder.Env, c call, s runSettings) *output.Trace {
	x := target.XMLHttpRequest().(*xhr.Transport)
	trace := output.Record(c.method+" "+c.url, x)

	if err := x.Open(c.method, c.url); err != nil {
		trace.Fail(err)
		return trace
	}
	for _, name := range s.order {
		if err := x.SetRequestHeader(name, s.headers[name]); err != nil {
			trace.Fail(err)
			return trace
		}
	}
	if err := x.Send(s.body); err != nil {
		trace.Fail(err)
		return trace
	}
	if s.abort {
		b.Loop().SetTimeout(s.abortAfter, x.Abort)
	}

	if _, err := b.Loop().RunErr(); err != nil {
		trace.Fail(err)
	}
	trace.Finish(x)
	return trace
}

// watchDirs returns the directories holding files plus every directory
// under the directory sources, each once.
func watchDirs(sources, files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, file := range files {
		add(filepath.Dir(file))
	}

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				add(path)
			}
			return nil
		})
	}
	return dirs
}

// isWatchEvent reports whether ev changes the set or content of fixtures
func isWatchEvent(ev fsnotify.Event) bool {
	if !isFixtureFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func watchFixtures(cmd *cobra.Command, dirs []string, runOnce func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if isWatchEvent(ev) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				name := ev.Name
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running calls...\n\n", name)
					if err := runOnce(); err != nil && exitCode(err) != ExitCallFailure {
						fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
