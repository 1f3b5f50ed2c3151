package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/opensdc/sdc-app-sheets/commands"
	"github.com/opensdc/sdc-app-sheets/config"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.GetCmd,
	&commands.PlanCmd,
	&commands.ProvisionCmd,
}

var options = commands.Options{
	Debug: false,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           commands.APP,
		Short:         "Provisions booking calendars from an opening hours time-table",
		Version:       commands.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			options.Logger = config.NewLogger(os.Stderr, options.Debug)
		},
	}

	root.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	root.PersistentFlags().StringVar(&options.Config, "config", options.Config, "Path to the YAML configuration file")

	for _, c := range cli {
		root.AddCommand(wrap(c))
	}

	if err := root.ExecuteContext(ctx); err != nil {
		if options.Logger != nil {
			options.Logger.Error(err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "\nERROR: %v\n\n", err)
		}

		os.Exit(1)
	}
}

func wrap(c commands.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%v %v", c.Name(), c.Usage()),
		Short: c.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Execute(cmd.Context(), &options)
		},
	}

	flags := pflag.NewFlagSet(c.Name(), pflag.ContinueOnError)
	flags.AddGoFlagSet(c.FlagSet())

	cmd.Flags().AddFlagSet(flags)
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		c.Help()
	})

	return cmd
}
