package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v0xg/pagestep/internal/ai"
	"github.com/v0xg/pagestep/internal/browser"
	"github.com/v0xg/pagestep/internal/config"
	"github.com/v0xg/pagestep/internal/dates"
	"github.com/v0xg/pagestep/internal/expr"
	"github.com/v0xg/pagestep/internal/page"
	"github.com/v0xg/pagestep/internal/scenario"
	"github.com/v0xg/pagestep/internal/steps"
	"github.com/v0xg/pagestep/internal/vars"
)

var (
	pagesFile   string
	propsFiles  []string
	screenshots string
	pageName    string
	provider    string
	model       string
	verbose     bool

	log = logrus.New()
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "pagestep",
		Short: "Run browser test scenarios against named page elements",
		Long: `pagestep runs YAML test scenarios against a real browser. Pages are declared
once with logical element names; steps refer to those names, use {variable}
placeholders, relative dates and computed expressions.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	runCmd := &cobra.Command{
		Use:   "run <scenarios.yaml>...",
		Short: "Run scenario files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	runCmd.Flags().StringVarP(&pagesFile, "pages", "p", "pages.yaml", "Page definitions file")
	runCmd.Flags().StringSliceVar(&propsFiles, "props", nil, "Property files (.yaml or .env) used for {name} fallback")
	runCmd.Flags().StringVar(&screenshots, "screenshots", "", "Directory for failure screenshots (default $PAGESTEP_SCREENSHOT_DIR)")

	scanCmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Print a page definition skeleton for a live page",
		Args:  cobra.ExactArgs(1),
		RunE:  scan,
	}
	scanCmd.Flags().StringVar(&pageName, "name", "page", "Name of the generated page definition")

	draftCmd := &cobra.Command{
		Use:   "draft <pages.yaml> <page> <prompt>",
		Short: "Draft a scenario for a page using AI",
		Args:  cobra.ExactArgs(3),
		RunE:  draft,
	}
	draftCmd.Flags().StringVar(&provider, "provider", "", "AI provider: claude, openai (default: from env or claude)")
	draftCmd.Flags().StringVar(&model, "model", "", "Specific model override")

	evalCmd := &cobra.Command{
		Use:   "eval <expression> [name=value]...",
		Short: "Evaluate an expression with variables bound",
		Args:  cobra.MinimumNArgs(1),
		RunE:  evaluate,
	}

	dateCmd := &cobra.Command{
		Use:   "date <phrase>",
		Short: "Resolve a relative date phrase",
		Args:  cobra.ExactArgs(1),
		RunE:  date,
	}

	rootCmd.AddCommand(runCmd, scanCmd, draftCmd, evalCmd, dateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	settings, err := config.LoadSettings(nil)
	if err != nil {
		return err
	}
	if screenshots != "" {
		settings.ScreenshotDir = screenshots
	}

	registry, err := page.LoadRegistry(pagesFile)
	if err != nil {
		return err
	}
	props, err := properties()
	if err != nil {
		return err
	}
	table, err := dateTable(settings)
	if err != nil {
		return err
	}

	var scenarios []steps.Scenario
	for _, path := range args {
		sc, err := steps.LoadScenarios(path)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, sc...)
	}

	fmt.Printf("→ Launching browser... ")
	b, err := browser.Launch(browser.Options{
		Width:      settings.Width,
		Height:     settings.Height,
		Headless:   settings.Headless,
		ProfileDir: settings.ProfileDir,
		Logger:     log,
	})
	if err != nil {
		fmt.Println("failed")
		return err
	}
	defer b.Close()
	fmt.Println("done")

	runner := &steps.Runner{
		Deps: scenario.Deps{
			Driver:   b.Driver(),
			Registry: registry,
			Controller: &page.Controller{
				LoadTimeout:   settings.LoadTimeout,
				UnloadTimeout: settings.UnloadTimeout,
				SettleTimeout: settings.SettleTimeout,
				Logger:        log,
			},
			Properties: props,
			Engine:     expr.GojaEngine{Timeout: settings.EvalTimeout},
			Dates:      table,
		},
		Navigator: b,
		Screens:   b,
		Options: steps.Options{
			StepTimeout:   settings.StepTimeout,
			DateLayout:    settings.DateLayout,
			DateLocale:    settings.DateLocale,
			ScreenshotDir: settings.ScreenshotDir,
		},
		Logger: log,
	}

	failed := 0
	for _, res := range runner.RunAll(ctx, scenarios) {
		if res.Err != nil {
			failed++
			fmt.Printf("✗ %s (%s)\n  %v\n", res.Scenario, res.Duration.Round(time.Millisecond), res.Err)
			if res.Screenshot != "" {
				fmt.Printf("  screenshot: %s\n", res.Screenshot)
			}
			continue
		}
		fmt.Printf("✓ %s (%s)\n", res.Scenario, res.Duration.Round(time.Millisecond))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

func scan(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(nil)
	if err != nil {
		return err
	}
	b, err := browser.Launch(browser.Options{
		Width:      settings.Width,
		Height:     settings.Height,
		Headless:   settings.Headless,
		ProfileDir: settings.ProfileDir,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Navigate(cmd.Context(), args[0]); err != nil {
		return err
	}
	found, err := b.Scan(cmd.Context())
	if err != nil {
		return err
	}
	log.WithField("elements", len(found)).Debug("scan complete")
	return page.WriteDefinitions(os.Stdout, browser.Suggest(pageName, found))
}

func draft(cmd *cobra.Command, args []string) error {
	registry, err := page.LoadRegistry(args[0])
	if err != nil {
		return err
	}
	def, err := registry.Lookup(args[1])
	if err != nil {
		return err
	}

	selected := provider
	if selected == "" {
		selected = os.Getenv("PAGESTEP_DEFAULT_PROVIDER")
		if selected == "" {
			selected = "claude"
		}
	}
	p, err := ai.NewProvider(selected, model)
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "→ Drafting steps via %s... ", selected)
	drafted, err := p.DraftSteps(cmd.Context(), def, args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed")
		return err
	}
	fmt.Fprintf(os.Stderr, "done (%d steps)\n", len(drafted))

	doc := map[string][]steps.Scenario{
		"scenarios": {{Name: args[2], Steps: drafted}},
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func evaluate(_ *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(nil)
	if err != nil {
		return err
	}

	store := vars.NewStore()
	for _, kv := range args[1:] {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", kv)
		}
		store.Put(name, value)
	}

	ev := &expr.Evaluator{Store: store, Engine: expr.GojaEngine{Timeout: settings.EvalTimeout}}
	v, err := ev.Evaluate(args[0])
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

func date(_ *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(nil)
	if err != nil {
		return err
	}
	table, err := dateTable(settings)
	if err != nil {
		return err
	}
	d, err := table.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, strings.Join(table.Phrases(), ", "))
	}
	fmt.Println(dates.Format(d, settings.DateLayout, settings.DateLocale))
	return nil
}

// properties merges the --props files with the environment; files listed
// first win
func properties() (config.Source, error) {
	chain := config.Chain{}
	for _, path := range propsFiles {
		m, err := config.LoadProperties(path)
		if err != nil {
			return nil, err
		}
		chain = append(chain, m)
	}
	return append(chain, config.Env{}), nil
}

func dateTable(s config.Settings) (*dates.Table, error) {
	if s.Today == "" {
		return dates.Default, nil
	}
	return dates.NewTableAt(s.Today, time.Local)
}
