package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naveenspark/shelfdesk/internal/config"
	"github.com/naveenspark/shelfdesk/internal/guard"
	"github.com/naveenspark/shelfdesk/internal/logging"
	"github.com/naveenspark/shelfdesk/internal/session"
	"github.com/naveenspark/shelfdesk/internal/tui"
	"github.com/naveenspark/shelfdesk/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs, built once per invocation.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	session *session.Manager
	client  *client.Client
	access  guard.AccessTable
}

type globalFlags struct {
	envFiles []string
	apiURL   string
}

// setup loads configuration and wires the session manager, API client and
// access table. The session is not restored here; commands decide when.
func setup(flags *globalFlags) (*env, error) {
	cfg, err := config.Load(flags.envFiles...)
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	access, err := guard.LoadAccessTable(cfg.AccessFile)
	if err != nil {
		return nil, err
	}

	mgr := session.NewManager(
		session.NewFileStore(cfg.SessionFile),
		session.WithValidity(cfg.SessionTTL),
		session.WithLogger(log.Named("session")),
	)
	c := client.New(cfg.APIURL,
		client.WithCredentials(mgr),
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(log.Named("client")),
	)
	log.Debug("configured", zap.String("api_url", cfg.APIURL), zap.String("session_file", cfg.SessionFile))
	return &env{cfg: cfg, log: log, session: mgr, client: c, access: access}, nil
}

func (e *env) close() {
	e.session.Close()
	e.log.Sync() //nolint:errcheck
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var e *env

	root := &cobra.Command{
		Use:           "shelfdesk",
		Short:         "Bookstore back office and point of sale",
		Long:          "shelfdesk signs you in to the bookstore API and opens the admin and cashier screens your role allows.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			e, err = setup(flags)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e != nil {
				e.close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(e)
		},
	}
	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", []string{".env"}, "dotenv files loaded before the environment is read")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "API base URL (overrides SHELFDESK_API_URL)")

	envOf := func() *env { return e }
	root.AddCommand(
		newLoginCmd(envOf),
		newLogoutCmd(envOf),
		newWhoamiCmd(envOf),
		newForgotPasswordCmd(envOf),
		newResetPasswordCmd(envOf),
		newCatalogCmd(envOf),
		newReportCmd(envOf),
		newProductCmd(envOf),
		newAuthorCmd(envOf),
		newCategoryCmd(envOf),
		newEditorialCmd(envOf),
		newStockCmd(envOf),
		newSaleCmd(envOf),
		newUserCmd(envOf),
		newRoleCmd(envOf),
		newPermissionCmd(envOf),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "shelfdesk "+version)
		},
	}
}

func runTUI(e *env) error {
	app := tui.NewApp(e.client, e.session, e.access, version)
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// printf writes to w, ignoring errors like fmt.Printf does.
func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...) //nolint:errcheck
}
