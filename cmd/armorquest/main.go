// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mhbuild/armorquest/lib/textui"
)

// logLevelFlag adapts a --verbosity flag value to logrus.Level.
type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

func main() {
	logLevel := logLevelFlag{Level: logrus.InfoLevel}
	var catalogDir string

	argparser := &cobra.Command{
		Use:   "armorquest {[flags]|SUBCOMMAND}",
		Short: "Search an equipment catalog for armor sets meeting skill targets",

		Args: cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
		SilenceUsage:  true, // our FlagErrorFunc will handle it

		CompletionOptions: cobra.CompletionOptions{ //nolint:exhaustivestruct
			DisableDefaultCmd: true,
		},

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := logrus.New()
			logger.SetLevel(logLevel.Level)
			cmd.SetContext(dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger)))
			return nil
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().Var(&logLevel, "verbosity", "set the verbosity")
	argparser.PersistentFlags().StringVar(&catalogDir, "catalog", "", "load the armor/jewel/skill catalog from `directory`")
	if err := argparser.MarkPersistentFlagDirname("catalog"); err != nil {
		panic(err)
	}
	if err := argparser.MarkPersistentFlagRequired("catalog"); err != nil {
		panic(err)
	}
	stopProfile := addProfileFlags(argparser)

	argparser.AddCommand(newSearchCmd(&catalogDir))
	argparser.AddCommand(newExploreCmd(&catalogDir))

	exitCode := 0
	if err := argparser.ExecuteContext(context.Background()); err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		exitCode = 1
	}
	if err := stopProfile(); err != nil {
		fmt.Fprintf(os.Stderr, "armorquest: error stopping profiler: %v\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}
