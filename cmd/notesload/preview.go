package main

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/notesload/internal/cli"
	"github.com/idilsaglam/notesload/internal/tui"
)

func newPreviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse the notes a run would send, without sending them",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := a.options(cmd, args)
			if err != nil {
				return err
			}
			notes, err := cli.LoadNotes(opt)
			if err != nil {
				return err
			}
			return tui.Run(notes, opt.Config.File)
		},
	}
	cmd.Flags().StringP("file", "f", "", "notes file, JSON or YAML (env NOTES_FILE)")
	return cmd
}
