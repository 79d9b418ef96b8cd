// Package main provides the CLI entrypoint for flashdeck.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"flashdeck/internal/config"
	"flashdeck/internal/deck"
	"flashdeck/internal/history"
	"flashdeck/internal/library"
	"flashdeck/internal/model"
	"flashdeck/internal/session"
	"flashdeck/internal/store"
	"flashdeck/internal/tui"
)

var (
	studyMode       string
	studySeconds    int
	studyCatalogURL string
	studyDeckFile   string

	exportOutput string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flashdeck",
		Short:         "TUI flashcard trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStudyCmd,
	}

	rootCmd.Flags().StringVar(&studyMode, "mode", "free", "study mode: free or speed")
	rootCmd.Flags().IntVar(&studySeconds, "speed-seconds", 0, "countdown budget for speed mode (0 = saved setting)")
	rootCmd.Flags().StringVar(&studyCatalogURL, "catalog-url", "", "remote deck catalog URL")
	rootCmd.Flags().StringVar(&studyDeckFile, "deck", "", "load a deck file for this run without saving it")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &studyMode, fileCfg.Study.Mode)
	applyIntConfig(cmd, "speed-seconds", &studySeconds, fileCfg.Study.SpeedSeconds)
	applyStringConfig(cmd, "catalog-url", &studyCatalogURL, fileCfg.Study.CatalogURL)

	mode, ok := model.ParseMode(studyMode)
	if !ok {
		return fmt.Errorf("--mode must be %q or %q", model.ModeFree, model.ModeSpeed)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	settings, err := config.LoadSettings(ctx, st)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if studySeconds > 0 {
		settings.SpeedModeSeconds = studySeconds
	}

	repo := deck.NewRepository(st)
	status, err := repo.LoadPersisted(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore saved deck: %w", err)
	}

	if studyDeckFile != "" {
		raw, err := os.ReadFile(studyDeckFile)
		if err != nil {
			return fmt.Errorf("failed to read deck file: %w", err)
		}
		if _, err := repo.ImportFromFile(studyDeckFile, raw); err != nil {
			return fmt.Errorf("failed to import %s: %w", studyDeckFile, err)
		}
	}

	log := history.NewLog(st)
	engine := session.New(log, nil)
	lib := library.NewService(st, studyCatalogURL, nil)

	model := tui.NewModel(st, repo, deck.NewEditor(), engine, log, lib, settings, status, mode)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a deck file and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read deck file: %w", err)
	}
	cards, err := deck.ParseCards(raw)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	repo := deck.NewRepository(st)
	name := deck.DeriveName(args[0])
	clean, err := repo.CommitEdited(context.Background(), cards, name)
	if err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Saved deck %q with %d cards\n", name, len(clean)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if dropped := len(cards) - len(clean); dropped > 0 {
		if _, err := fmt.Fprintf(out, "Dropped %d incomplete cards\n", dropped); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved deck as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOutput, "output", "", "output file (default: <deck name>.json)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	repo := deck.NewRepository(st)
	status, err := repo.LoadPersisted(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load saved deck: %w", err)
	}
	if status != deck.StatusRestored {
		return fmt.Errorf("no saved deck to export")
	}

	raw, err := deck.ExportJSON(repo.Active())
	if err != nil {
		return fmt.Errorf("failed to export deck: %w", err)
	}
	path := exportOutput
	if path == "" {
		path = repo.Name() + ".json"
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear all session history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	})
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries, err := history.NewLog(st).List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		if _, err := fmt.Fprintln(out, "No history found."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	deckWidth := historyDeckWidth()
	if _, err := fmt.Fprintf(out, "%-17s  %-*s  %7s  %7s  %6s\n", "Date", deckWidth, "Deck", "Correct", "Wrong", "Time"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, e := range entries {
		name := e.Deck
		if len(name) > deckWidth {
			name = name[:deckWidth]
		}
		if _, err := fmt.Fprintf(out, "%-17s  %-*s  %7d  %7d  %5ds\n", e.Date, deckWidth, name, e.Correct, e.Wrong, e.ElapsedSeconds); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	sum := history.Summarize(entries)
	if _, err := fmt.Fprintf(out, "\n%d sessions, %.0f%% accuracy, %ds studied\n", sum.Sessions, sum.Accuracy()*100, sum.ElapsedSeconds); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// historyDeckWidth sizes the deck column to the terminal, with sane bounds.
func historyDeckWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 22
	}
	deckWidth := width - 45
	if deckWidth < 10 {
		return 10
	}
	if deckWidth > 40 {
		return 40
	}
	return deckWidth
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	if _, err := fmt.Fprint(cmd.OutOrStdout(), "Clear all history? [y/N] "); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if err := history.NewLog(st).Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List decks in the remote catalog",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
	cmd.Flags().StringVar(&studyCatalogURL, "catalog-url", "", "remote deck catalog URL")
	return cmd
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog-url", &studyCatalogURL, fileCfg.Study.CatalogURL)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	lib := library.NewService(st, studyCatalogURL, nil)
	entries, err := lib.FetchCatalog(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, entry := range entries {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", entry.Title, entry.File, entry.Description); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# flashdeck configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# mode = "free"            # Study mode: "free" or "speed"
# speed-seconds = %d       # Countdown budget for speed mode
# catalog-url = %q
`,
		config.DefaultSpeedSeconds,
		library.DefaultCatalogURL,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
