package main

import (
	"context"

	bookshelf "github.com/ideamans/go-bookshelf"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand
type app struct {
	settings settings
	log      *log.Logger
	store    *bookshelf.Store
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{settings: defaultSettings(getenv), log: log.New()}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Manage a book collection stored in a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.settings.Backend, "backend", a.settings.Backend, "storage backend: sheets, excel or sqlite ($"+envBackend+")")
	flags.StringVar(&a.settings.Credentials, "credentials", a.settings.Credentials, "service account JSON key for Google Sheets ($"+envCredentials+")")
	flags.StringVar(&a.settings.Dir, "dir", a.settings.Dir, "directory holding workbooks or databases ($"+envDir+")")
	flags.StringVar(&a.settings.Spreadsheet, "spreadsheet", a.settings.Spreadsheet, "spreadsheet name ($"+envSpreadsheet+")")
	flags.StringVar(&a.settings.Table, "table", a.settings.Table, "table (worksheet) name ($"+envTable+")")
	flags.BoolVar(&a.settings.Create, "create", false, "create a missing workbook, database or table (excel and sqlite)")
	flags.BoolVarP(&a.settings.Verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		a.addCmd(),
		a.getCmd(),
		a.findCmd(),
		a.isbnCmd(),
		a.editCmd(),
		a.listCmd(),
		a.filterCmd(),
		a.distinctCmd(),
		a.columnsCmd(),
		a.statsCmd(),
	)

	return root
}

// withStore wraps a command body so that it runs against an open store
func (a *app) withStore(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.connect(cmd); err != nil {
			return err
		}
		defer a.store.Close()
		return fn(cmd, args)
	}
}

// connect configures logging, validates the settings and opens the store
func (a *app) connect(cmd *cobra.Command) error {
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if a.settings.Verbose {
		a.log.SetLevel(log.DebugLevel)
	}

	if err := a.settings.validate(); err != nil {
		return err
	}
	auth, err := a.settings.authenticator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.log.WithFields(log.Fields{
		"backend":     a.settings.Backend,
		"spreadsheet": a.settings.Spreadsheet,
		"table":       a.settings.Table,
	}).Debug("connecting")

	store, err := bookshelf.Connect(ctx, auth, a.settings.Spreadsheet, a.settings.Table, &bookshelf.Config{Logger: a.log})
	if err != nil {
		return err
	}
	a.store = store
	return nil
}
