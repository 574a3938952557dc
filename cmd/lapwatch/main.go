package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/lapwatch/internal/config"
	"github.com/jask/lapwatch/internal/logging"
	"github.com/jask/lapwatch/internal/stopwatch"
	"github.com/jask/lapwatch/internal/tui"
)

func main() {
	writeConfig := flag.Bool("write-config", false, "write the effective configuration, including every key binding, and exit")
	flag.Parse()

	if err := run(*writeConfig); err != nil {
		log.Fatal(err)
	}
}

func run(writeConfig bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	keys := tui.NewKeyRegistry()
	if err := keys.ApplyOverrides(cfg.Keys); err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	if writeConfig {
		cfg.Keys = keys.Export()
		if err := config.Save(cfg); err != nil {
			return err
		}
		path, _ := config.Path()
		fmt.Println("wrote", path)
		return nil
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	widget := tui.New(tui.Options{
		Config:     cfg,
		Clock:      stopwatch.SystemClock{},
		Keys:       keys,
		Logger:     logger,
		SaveConfig: config.Save,
	})

	opts := []tea.ProgramOption{}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	_, err = tea.NewProgram(widget, opts...).Run()
	widget.Unmount()
	if err != nil {
		logger.WithError(err).Error("program exited")
		return err
	}
	printSummary(widget)
	return nil
}

// printSummary leaves the final reading on the terminal once the alternate
// screen is gone.
func printSummary(w *tui.Widget) {
	sw := w.Stopwatch()
	if sw.Elapsed() == 0 && sw.LapCount() == 0 {
		return
	}
	fmt.Printf("%s  %s\n", w.Title(), stopwatch.Format(sw.Elapsed()))
	for i, l := range sw.Laps() {
		fmt.Printf("%3d  %s  %s\n", i+1, stopwatch.Format(l.Split), stopwatch.Format(l.Total))
	}
}
