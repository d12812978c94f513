package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLanguageCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "language [en|ar]",
		Short:     "Show or set the display language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"en", "ar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				lang := a.prefs.Language()
				if len(args) == 1 {
					var err error
					lang, err = a.prefs.SetLanguage(args[0])
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, catalog locale %s)\n", lang, lang.Direction(), lang.Locale())
				return nil
			})
		},
	}
}
