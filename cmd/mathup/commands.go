package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/deosjr/mathup"
	"github.com/deosjr/mathup/ledger"
	"github.com/deosjr/mathup/nbg"
)

var (
	configPath  string
	ledgerPath  string
	deciderName string
	showMetrics bool

	rootCmd = &cobra.Command{
		Use:           "mathup",
		Short:         "An interactive proof checker for first-order logic and NBG set theory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check the shipped NBG theorem library in a fresh session",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}

	ledgerCmd = &cobra.Command{
		Use:   "ledger",
		Short: "Inspect a proof ledger",
	}
	ledgerSessionsCmd = &cobra.Command{
		Use:   "sessions [ledger path]",
		Short: "List the sessions recorded in a ledger",
		Args:  cobra.ExactArgs(1),
		RunE:  runLedgerSessions,
	}
	ledgerShowCmd = &cobra.Command{
		Use:   "show [ledger path] [session id]",
		Short: "Print the steps of one recorded session",
		Args:  cobra.ExactArgs(2),
		RunE:  runLedgerShow,
	}
)

func init() {
	checkCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	checkCmd.Flags().StringVar(&ledgerPath, "ledger", "", "Record accepted steps in this bbolt file")
	checkCmd.Flags().StringVar(&deciderName, "decider", "", "Tautology decider: auto, truth-table or sat")
	checkCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print rule metrics after checking")

	ledgerCmd.AddCommand(ledgerSessionsCmd, ledgerShowCmd)
	rootCmd.AddCommand(checkCmd, ledgerCmd)
}

// config loads the file and lets explicitly set flags win over it.
func config(cmd *cobra.Command) (mathup.Config, error) {
	cfg, err := mathup.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("ledger") {
		cfg.LedgerPath = ledgerPath
	}
	if flags.Changed("decider") {
		cfg.Decider = deciderName
	}
	if flags.Changed("metrics") {
		cfg.Metrics = showMetrics
	}
	return cfg, cfg.Validate()
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config(cmd)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	opts := []mathup.Option{
		mathup.WithLogger(logger),
		mathup.WithDecider(cfg.NewDecider()),
	}
	registry := prometheus.NewRegistry()
	if cfg.Metrics {
		opts = append(opts, mathup.WithMetrics(mathup.NewMetrics(registry)))
	}
	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer l.Close()
		opts = append(opts, mathup.WithJournal(l))
	}

	s := mathup.NewSession(opts...)
	logger.Info("checking library", "session", s.ID(), "decider", cfg.Decider)
	_, loadErr := nbg.Load(s)

	out := cmd.OutOrStdout()
	for _, name := range nbg.Names() {
		n, err := s.Lookup(mathup.Name(name))
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%-20s %s\n", name, n)
	}
	if cfg.Metrics {
		if err := writeMetrics(out, registry); err != nil {
			return err
		}
	}
	if loadErr != nil {
		return fmt.Errorf("session %s: %w", s.ID(), loadErr)
	}
	logger.Info("library checked", "session", s.ID(), "theorems", len(s.Keys()))
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func runLedgerSessions(cmd *cobra.Command, args []string) error {
	l, err := openExisting(args[0])
	if err != nil {
		return err
	}
	defer l.Close()
	ids, err := l.Sessions()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runLedgerShow(cmd *cobra.Command, args []string) error {
	l, err := openExisting(args[0])
	if err != nil {
		return err
	}
	defer l.Close()
	entries, err := l.Entries(args[1])
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d %-20s %-16s %v %s\n", e.Seq, e.Key, e.Rule, e.Branch, e.Formula)
	}
	return nil
}

// openExisting refuses to create a ledger that is only being read.
func openExisting(path string) (*ledger.Ledger, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return ledger.Open(path)
}
