package main

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/notesload/internal/cli"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect the token a run would use",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status [token]",
		Short: "Show where the token comes from and, for a JWT, its claims",
		Long: `Resolves the token exactly like a run does (JWT_TOKEN first, then the
argument) and decodes its claims locally. The signature is not verified;
only the server can do that.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := a.options(cmd, args)
			if err != nil {
				return err
			}
			return cli.AuthStatus(opt)
		},
	})
	return cmd
}
