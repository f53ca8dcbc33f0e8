// Package main is the CLI entry point for edutubed.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/edutubed/internal/daemon"
	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/engine"
	"github.com/eliteGoblin/edutubed/internal/infra"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
	"github.com/eliteGoblin/edutubed/internal/liststore"
	"github.com/eliteGoblin/edutubed/internal/oracle"
	"github.com/eliteGoblin/edutubed/internal/score"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

var (
	// Version info (set via ldflags)
	Version   = "0.3.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "edutubed",
	Short: "Educational content filter sidecar for video feeds",
	Long: `edutubed is a local daemon that classifies video feed items as
educational or not and tells the browser shim which ones to hide.
Classification runs through explicit allow/deny lists, user keywords,
lexical scoring, an optional category lookup, and a sensitivity dial.`,
	Version: Version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon",
	Long: `Starts the sidecar daemon: opens the encrypted settings store and
serves the loopback HTTP API the browser shim connects to.`,
	RunE: runRun,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [title]",
	Short: "Classify a single item from the command line",
	Long: `Scores a title (plus optional description and channel) through the
lexical layer and prints the score breakdown. Useful for tuning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Classify a JSON batch of items offline",
	Long: `Reads a JSON array of records ({"item_id", "channel_id", "title",
"description", "channel_name"}) from a file or stdin and runs each through
the full pipeline using the persisted lists and sensitivity. The daemon does
not need to be running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show or edit the allow/deny lists",
}

var listsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current list entries",
	RunE:  runListsShow,
}

var listsAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Add a channel, item, or keyword entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsMutate,
}

var listsRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a channel, item, or keyword entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsMutate,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show classification counters",
	RunE:  runStats,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the daemon is running",
	RunE:  runStatus,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	dataDir     string
	listenAddr  string
	oracleURL   string
	oracleKey   string
	channelName string
	description string
	sensitivity int
	jsonOutput  bool
	listName    string
	entryKind   string
)

func init() {
	runCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for the encrypted settings store")
	runCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8417", "Loopback address for the shim API")
	runCmd.Flags().StringVar(&oracleURL, "oracle-url", "", "Category lookup endpoint (empty disables the category layer)")
	runCmd.Flags().StringVar(&oracleKey, "oracle-key", "", "Category lookup API key")

	classifyCmd.Flags().StringVar(&channelName, "channel", "", "Channel name")
	classifyCmd.Flags().StringVar(&description, "desc", "", "Description text")
	classifyCmd.Flags().IntVar(&sensitivity, "sensitivity", 50, "Sensitivity dial (0-100)")

	scanCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for the encrypted settings store")
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output decisions as JSON")

	listsCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for the encrypted settings store")
	for _, c := range []*cobra.Command{listsAddCmd, listsRemoveCmd} {
		c.Flags().StringVar(&listName, "list", "", "Target list: whitelist or blacklist")
		c.Flags().StringVar(&entryKind, "kind", "", "Entry kind: channel, item, or keyword")
	}
	listsCmd.AddCommand(listsShowCmd)
	listsCmd.AddCommand(listsAddCmd)
	listsCmd.AddCommand(listsRemoveCmd)

	statsCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for the encrypted settings store")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".edutubed"
	}
	return filepath.Join(home, ".edutubed")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	cfg := daemon.DefaultConfig(dataDir)
	cfg.ListenAddr = listenAddr
	if oracleURL != "" {
		cfg.Oracle = oracle.Config{
			BaseURL: oracleURL,
			APIKey:  oracleKey,
			Enabled: true,
		}
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	return d.Run(ctx)
}

func runClassify(cmd *cobra.Command, args []string) error {
	lex := lexicon.Default()
	scorer := score.New(lex)

	rec := domain.Record{
		Title:       args[0],
		Description: description,
		ChannelName: channelName,
	}
	res := scorer.Score(rec)

	fmt.Printf("\n=== Classification ===\n")
	fmt.Printf("Title: %s\n", rec.Title)
	if rec.ChannelName != "" {
		fmt.Printf("Channel: %s\n", rec.ChannelName)
	}
	fmt.Printf("Score: %d\n", res.Score)
	if res.ImmediateReject {
		fmt.Println("Immediate reject: yes")
	}
	fmt.Println("\nBreakdown:")
	for _, delta := range res.Breakdown {
		fmt.Printf("  %+d  %s\n", delta.Delta, delta.Reason)
	}

	eduCutoff, nonEduCutoff := engine.StrongCutoffs(sensitivity)
	threshold := engine.FallbackThreshold(sensitivity)
	fmt.Printf("\nAt sensitivity %d (%s band):\n", sensitivity, engine.BandFor(sensitivity))
	switch {
	case res.Score >= eduCutoff:
		fmt.Println("  Decision: SHOW (strong educational score)")
	case res.Score <= nonEduCutoff:
		fmt.Println("  Decision: HIDE (strong non-educational score)")
	case res.Score >= threshold:
		fmt.Printf("  Decision: SHOW (fallback threshold %d)\n", threshold)
	default:
		fmt.Printf("  Decision: HIDE (fallback threshold %d)\n", threshold)
	}
	fmt.Println("======================")
	return nil
}

// openSettings opens the encrypted settings store for the offline commands.
func openSettings(dir string) (domain.SettingsStore, error) {
	keyProvider := infra.NewFileKeyProvider(dir)
	if !keyProvider.KeyExists() {
		return nil, fmt.Errorf("no settings store in %s; run 'edutubed run' first", dir)
	}
	key, err := keyProvider.GetKey()
	if err != nil {
		return nil, fmt.Errorf("failed to read storage key: %w", err)
	}
	store, err := infra.NewEncryptedStore(dir, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return store, nil
}

// scanResult is one line of scan output.
type scanResult struct {
	ItemID string       `json:"item_id"`
	Title  string       `json:"title"`
	Hidden bool         `json:"hidden"`
	Layer  domain.Layer `json:"layer"`
}

// classifyBatch decodes a JSON array of records and runs each through the
// engine.
func classifyBatch(in io.Reader, eng *engine.Engine) ([]scanResult, error) {
	var records []domain.Record
	if err := json.NewDecoder(in).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	out := make([]scanResult, 0, len(records))
	for _, rec := range records {
		d := eng.Classify(context.Background(), rec)
		out = append(out, scanResult{
			ItemID: rec.ItemID,
			Title:  rec.Title,
			Hidden: d.Hidden,
			Layer:  d.Layer,
		})
	}
	return out, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	// Persisted lists and sensitivity apply when a store exists; without one
	// the batch is scored against defaults.
	var store domain.SettingsStore
	if s, err := openSettings(dataDir); err == nil {
		store = s
	} else {
		store = infra.NewMemoryStore()
	}
	defer store.Close()

	logger := zap.NewNop()
	lex := lexicon.Default()
	eng := engine.New(lex, liststore.New(store, logger), score.New(lex),
		nil, stats.New(store, logger), store, logger)

	results, err := classifyBatch(in, eng)
	if err != nil {
		return err
	}
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		verdict := "SHOW"
		if r.Hidden {
			verdict = "HIDE"
		}
		fmt.Printf("%-4s  %-20s  %-19s  %s\n", verdict, r.ItemID, r.Layer, r.Title)
	}
	return nil
}

// kindKeyword extends the list-entry kinds with free-text phrases for the
// lists subcommands.
const kindKeyword domain.IDKind = "keyword"

// mutateList applies one add or remove to the store.
func mutateList(lists *liststore.Store, action string, list domain.ListName, kind domain.IDKind, value string) error {
	if list != domain.Whitelist && list != domain.Blacklist {
		return fmt.Errorf("unknown list %q (want whitelist or blacklist)", list)
	}
	add := action == "add"
	switch kind {
	case domain.KindChannel:
		if add {
			lists.AddChannel(list, value)
		} else {
			lists.RemoveChannel(list, value)
		}
	case domain.KindItem:
		if add {
			lists.AddItem(list, value)
		} else {
			lists.RemoveItem(list, value)
		}
	case kindKeyword:
		if add {
			lists.AddKeyword(list, value)
		} else {
			lists.RemoveKeyword(list, value)
		}
	default:
		return fmt.Errorf("unknown kind %q (want channel, item, or keyword)", kind)
	}
	return nil
}

func runListsShow(cmd *cobra.Command, args []string) error {
	store, err := openSettings(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	snap := liststore.New(store, zap.NewNop()).Snapshot()

	fmt.Println("\n=== edutubed Lists ===")
	printEntries := func(label string, entries []string) {
		fmt.Printf("%s (%d):\n", label, len(entries))
		for _, e := range entries {
			fmt.Printf("  %s\n", e)
		}
	}
	printEntries("Whitelisted channels", snap.WhitelistChannels)
	printEntries("Blacklisted channels", snap.BlacklistChannels)
	printEntries("Whitelisted items", snap.WhitelistItems)
	printEntries("Blacklisted items", snap.BlacklistItems)
	printEntries("Allow keywords", snap.AllowKeywords)
	printEntries("Deny keywords", snap.DenyKeywords)
	fmt.Println("======================")
	return nil
}

func runListsMutate(cmd *cobra.Command, args []string) error {
	store, err := openSettings(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	lists := liststore.New(store, zap.NewNop())
	if err := mutateList(lists, cmd.Name(), domain.ListName(listName), domain.IDKind(entryKind), args[0]); err != nil {
		return err
	}
	fmt.Printf("%s %s %q (%s)\n", cmd.Name(), listName, args[0], entryKind)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openSettings(dataDir)
	if err != nil {
		fmt.Println("No settings store found. Run 'edutubed run' first.")
		return nil
	}
	defer store.Close()

	snap := stats.New(store, zap.NewNop()).Snapshot()

	fmt.Println("\n=== edutubed Stats ===")
	fmt.Printf("Shown:    %d\n", snap.Shown)
	fmt.Printf("Hidden:   %d\n", snap.Hidden)
	fmt.Printf("Sessions: %d\n", snap.Sessions)
	if len(snap.Layers) > 0 {
		fmt.Println("\nDecisions by layer:")
		for layer, n := range snap.Layers {
			fmt.Printf("  %-20s %d\n", layer, n)
		}
	}
	fmt.Println("======================")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("\n=== edutubed Status ===")

	pids, err := infra.FindByName("edutubed")
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	self := os.Getpid()
	running := false
	for _, pid := range pids {
		if pid != self && infra.IsRunning(pid) {
			fmt.Printf("Status: RUNNING (pid %d)\n", pid)
			running = true
		}
	}
	if !running {
		fmt.Println("Status: NOT RUNNING")
		fmt.Println("\nRun 'edutubed run' to start the daemon.")
	}

	if info, err := infra.SelfInfo(); err == nil && running {
		fmt.Printf("CLI process: pid %d, rss %d KiB\n", info.PID, info.RSSBytes/1024)
	}

	fmt.Println("=======================")
	return nil
}

func createLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{filepath.Join(os.TempDir(), "edutubed.log"), "stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("edutubed %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
