package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/swibrow/recall/internal/config"
	"github.com/swibrow/recall/internal/history"
	"github.com/swibrow/recall/internal/llm"
	"github.com/swibrow/recall/internal/logging"
	"github.com/swibrow/recall/internal/memory"
	"github.com/swibrow/recall/internal/prompt"
	"github.com/swibrow/recall/internal/ui"
)

var (
	flagQuiet    bool
	flagExplain  bool
	flagFallback bool
	flagSession  string
	flagVerbose  bool
	flagHistory  string
	flagDetail   bool
	flagLimit    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "recall [query]",
		Short:         "Find a past answer that matches your question",
		Long:          "Index past agent conversations by keyword and return the stored final answer whose question best overlaps yours.",
		Args:          cobra.MinimumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log indexing and lookup details to stderr")
	rootCmd.PersistentFlags().StringVar(&flagHistory, "history", "", "History file to index (overrides config and RECALL_HISTORY)")

	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Output only the answer line (for piping)")
	rootCmd.Flags().BoolVarP(&flagExplain, "explain", "e", false, "Show extracted keywords and index hits")
	rootCmd.Flags().BoolVar(&flagFallback, "fallback", false, "Ask the configured model when history has no match")
	rootCmd.Flags().StringVarP(&flagSession, "session", "s", "", "Session whose earlier turns are sent to the fallback model")

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Build the index and show what it contains",
		Args:  cobra.NoArgs,
		RunE:  runIndex,
	}
	indexCmd.Flags().BoolVarP(&flagDetail, "detail", "d", false, "List keywords and sessions")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := config.Show()
			if err != nil {
				return err
			}
			fmt.Println(output)
			return nil
		},
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Println("Default config created at ~/.config/recall/config.yaml")
			fmt.Println("Point history.path at your conversation history, or set backend: sqlite.")
			return nil
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the SQLite history store",
	}

	historyImportCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON history file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(nil)
			ctx := context.Background()

			records, err := history.NewFile(args[0], logger).Records(ctx)
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			n, err := store.Import(ctx, records)
			if err != nil {
				return fmt.Errorf("importing history: %w", err)
			}
			fmt.Printf("Imported %d conversations.\n", n)
			return nil
		},
	}

	historyListCmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent stored conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			records, err := store.List(context.Background(), flagLimit)
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No stored conversations yet.")
				return nil
			}
			ui.New(os.Stdout, os.Stderr).Records(records)
			return nil
		},
	}
	historyListCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Maximum number of conversations to list")

	historyExportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored conversations as a JSON history document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			records, err := store.Records(context.Background())
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			data, err := history.Export(records)
			if err != nil {
				return fmt.Errorf("exporting history: %w", err)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	historyClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			if err := store.Clear(context.Background()); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Println("History cleared.")
			return nil
		},
	}

	historyCmd.AddCommand(historyImportCmd, historyListCmd, historyExportCmd, historyClearCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(indexCmd, historyCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		ui.New(os.Stdout, os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	lc := logging.Config{Output: os.Stderr, Pretty: ui.IsTerminal(os.Stderr)}
	if cfg != nil {
		lc.Level = cfg.Log.Level
		lc.Pretty = lc.Pretty || cfg.Log.Pretty
	}
	if flagVerbose {
		lc.Level = "debug"
	}
	return logging.New(lc)
}

func openStore() (*history.Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	store, err := history.OpenStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return store, nil
}

// openSource picks the record source for the configured backend. The store is
// returned as well when the backend is SQLite so callers can append to it.
func openSource(cfg *config.Config, logger zerolog.Logger) (history.Source, *history.Store, error) {
	if flagHistory == "" && cfg.History.Backend == config.BackendSQLite {
		store, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}

	path := flagHistory
	if path == "" {
		var err error
		if path, err = cfg.HistoryPath(); err != nil {
			return nil, nil, err
		}
	}
	return history.NewFile(path, logger), nil, nil
}

func buildIndexer(ctx context.Context) (*config.Config, *memory.Indexer, *history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	source, store, err := openSource(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	ix := memory.NewIndexer(source, memory.WithLogger(logger))
	if err := ix.BuildIndex(ctx); err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, nil, err
	}
	return cfg, ix, store, nil
}

func run(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := context.Background()
	out := ui.New(os.Stdout, os.Stderr)

	cfg, ix, store, err := buildIndexer(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close() //nolint:errcheck
	}

	m, ok := ix.Match(query)
	if flagExplain && !flagQuiet {
		out.Keywords(m)
	}

	if ok {
		if flagQuiet {
			out.AnswerQuiet(m.Answer())
			return nil
		}
		out.Answer(m)
		return nil
	}

	if !flagFallback && !cfg.Fallback.Enabled {
		if !flagQuiet {
			out.NoMatch()
		}
		return nil
	}

	return askFallback(ctx, cfg, ix.Snapshot(), store, out, query)
}

// askFallback sends the query to the configured model and, with a SQLite
// history, stores the exchange so the next build can answer it.
func askFallback(ctx context.Context, cfg *config.Config, snap *memory.Snapshot, store *history.Store, out *ui.Printer, query string) error {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("initializing provider: %w", err)
	}

	var turns []llm.Turn
	if flagSession != "" {
		turns = prompt.SessionTurns(snap.Session(flagSession))
	}

	response, err := provider.Complete(ctx, prompt.SystemPrompt(cfg.SystemPrompt), turns, query)
	if err != nil {
		return fmt.Errorf("LLM request failed: %w", err)
	}

	answer, ok := memory.FinalAnswer(response)
	if !ok {
		answer = strings.TrimSpace(response)
		response = memory.FormatAnswer(answer)
	}

	if store != nil {
		rec := history.Record{
			SessionID: flagSession,
			Query:     query,
			Response:  response,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := store.Append(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: answer not saved: %v\n", err)
		}
	}

	if flagQuiet {
		out.AnswerQuiet(memory.FormatAnswer(answer))
		return nil
	}
	out.Generated(answer, cfg.Provider)
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	_, ix, store, err := buildIndexer(context.Background())
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close() //nolint:errcheck
	}

	ui.New(os.Stdout, os.Stderr).Index(ix.Snapshot(), flagDetail)
	return nil
}
