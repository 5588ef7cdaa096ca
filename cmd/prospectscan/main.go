package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/config"
	"github.com/dharsanguruparan/prospectscan/internal/ingest"
	"github.com/dharsanguruparan/prospectscan/internal/logger"
	"github.com/dharsanguruparan/prospectscan/internal/model"
	"github.com/dharsanguruparan/prospectscan/internal/shell"
	"github.com/dharsanguruparan/prospectscan/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "prospectscan: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	apiURL string
	cfg    *config.Config
	log    *zap.Logger
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
		if err := cfg.Finalize(); err != nil {
			return err
		}
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) client() *ingest.Client {
	return ingest.NewClient(a.cfg.APIBaseURL,
		ingest.WithTimeout(a.cfg.UploadTimeout),
		ingest.WithLogger(a.log.Named("client")),
	)
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "prospectscan",
		Short: "ProspectScan front-end",
		Long: `ProspectScan front-end serves the ingesta, cruce and heatmap pages and forwards
ZoomInfo spreadsheets to the ProspectScan API. The same flows are available from the terminal.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	cmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "ProspectScan API base URL (overrides PROSPECTSCAN_API_URL)")
	cmd.AddCommand(
		newServeCmd(a),
		newUploadCmd(a),
		newAnalysisCmd(a),
		newAnalyzeCmd(a),
		newHealthCmd(a),
	)
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.log.Sync()
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			client := a.client()
			srv, err := shell.New(a.cfg, client, client, a.log.Named("shell"), reg)
			if err != nil {
				return err
			}
			a.log.Info("forwarding uploads", zap.String("api", client.BaseURL()))
			return srv.Run(cmd.Context())
		},
	}
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.xlsx>",
		Short: "Upload a ZoomInfo spreadsheet and print the snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.log.Sync()
			name := args[0]
			// Check the name first so a bad extension fails without opening
			// anything.
			if err := ingest.ValidateFileName(name); err != nil {
				return err
			}
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			defer f.Close()

			w := ingest.NewWidget(a.client(),
				ingest.WithWidgetLogger(a.log.Named("widget")),
				ingest.WithListener(func(st ingest.State) {
					if st.Phase == ingest.PhaseUploading {
						fmt.Fprintln(cmd.ErrOrStderr(), "Procesando archivo...")
					}
				}),
			)
			defer w.Close()
			if err := w.Drop(cmd.Context(), ingest.File{Name: name, Body: f}); err != nil {
				return err
			}
			st := w.State()
			return view.NewResultView(*st.Result, a.cfg.Location).WriteText(cmd.OutOrStdout())
		},
	}
}

func newAnalysisCmd(a *app) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "analysis <record.json>",
		Short: "Render a saved enriched analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rec, err := model.DecodeAnalysis(data)
			if err != nil {
				return err
			}
			return printDetail(cmd, rec, tab, a.cfg)
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(view.TabSummary), "Tab to show: summary, insights, commercial or sales")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "analyze <domain>",
		Short: "Fetch and render the enriched analysis of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.log.Sync()
			rec, err := a.client().AnalyzeEnriched(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printDetail(cmd, rec, tab, a.cfg)
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(view.TabSummary), "Tab to show: summary, insights, commercial or sales")
	return cmd
}

func printDetail(cmd *cobra.Command, rec *model.AnalysisRecord, tab string, cfg *config.Config) error {
	t, err := view.ParseTab(tab)
	if err != nil {
		return err
	}
	dv := view.NewDetailView(*rec, cfg.Location, nil)
	if err := dv.Select(t); err != nil {
		return err
	}
	return dv.WriteText(cmd.OutOrStdout())
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the ProspectScan API",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.client().Health(cmd.Context())
			if err != nil {
				var se *ingest.StatusError
				if errors.As(err, &se) {
					return fmt.Errorf("api unhealthy: %w", err)
				}
				return err
			}
			keys := make([]string, 0, len(doc))
			for k := range doc {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := cmd.OutOrStdout()
			for _, k := range keys {
				v, _ := json.Marshal(doc[k])
				fmt.Fprintf(out, "%s: %s\n", k, v)
			}
			return nil
		},
	}
}
