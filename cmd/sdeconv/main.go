package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mkravets/sdeconv/internal/cache"
	"github.com/mkravets/sdeconv/internal/config"
	"github.com/mkravets/sdeconv/internal/models"
	"github.com/mkravets/sdeconv/internal/report"
	"github.com/mkravets/sdeconv/internal/tui"
	"github.com/mkravets/sdeconv/internal/validate"
)

var (
	configFile string
	cacheDir   string
	noReload   bool
	noPersist  bool
	live       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sdeconv",
		Short: "Monte Carlo validation of stochastic convergence rates",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the configured validation scenarios",
		RunE:  runScenarios,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "realization cache directory (overrides config)")
	runCmd.Flags().BoolVar(&noReload, "no-reload", false, "ignore cached realizations")
	runCmd.Flags().BoolVar(&noPersist, "no-persist", false, "do not persist generated realizations")
	runCmd.Flags().BoolVar(&live, "live", false, "show live progress view")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range models.NewRegistry().List() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default config to path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, modelsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// eventForwarder relays driver events to the live view, dropping them once
// quit is closed so a full buffer with no reader cannot block the run.
func eventForwarder(events chan<- validate.Event, quit <-chan struct{}) validate.Observer {
	return func(ev validate.Event) {
		select {
		case events <- ev:
		case <-quit:
		}
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if noReload {
		cfg.Reload = false
	}
	if noPersist {
		cfg.Persist = false
	}

	store := cache.NewFSStore(cfg.CacheDir)
	if cfg.Persist {
		if err := store.Init(); err != nil {
			return err
		}
	}
	c := cache.New(store, cfg.Reload, cfg.Persist)

	reg := models.NewRegistry()
	scenarios := make([]*validate.Scenario, 0, len(cfg.Scenarios))
	for _, sc := range cfg.Scenarios {
		scn, err := sc.ToScenario(reg)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, scn)
	}

	driver := validate.New(c)

	var results []*validate.Result
	runAll := func() error {
		for _, scn := range scenarios {
			res, err := driver.Run(scn)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		return nil
	}

	if live {
		events := make(chan validate.Event, 16)
		quit := make(chan struct{})
		driver.SetObserver(eventForwarder(events, quit))

		finished := make(chan struct{})
		var runErr error
		go func() {
			defer close(finished)
			runErr = runAll()
			close(events)
		}()

		_, teaErr := tea.NewProgram(tui.NewModel(events)).Run()

		// The view may have quit early; release the run goroutine and
		// wait for it before reading runErr and results.
		close(quit)
		<-finished

		if teaErr != nil {
			return teaErr
		}
		if runErr != nil {
			return runErr
		}
	} else {
		driver.SetObserver(func(ev validate.Event) {
			switch ev.Type {
			case validate.EpsCompleted:
				fmt.Printf("%s: eps=%g done (%d/%d)\n", ev.Scenario, ev.Eps, ev.Index+1, ev.Total)
			case validate.EpsFailed:
				fmt.Printf("%s: eps=%g failed: %v\n", ev.Scenario, ev.Eps, ev.Err)
			}
		})
		if err := runAll(); err != nil {
			return err
		}
	}

	for _, res := range results {
		fmt.Println()
		report.Write(os.Stdout, res)
	}
	return nil
}
