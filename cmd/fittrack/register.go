package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/platform"
	"github.com/aretw0/fittrack/pkg/auth"
)

var changePassword string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account for --user",
	Long: `Create an account. Only a bcrypt hash of the password is stored.
With --new-password, the password of an existing account is changed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		authn, err := platform.NewAuthenticator(svc, auth.WithLogger(logger))
		if err != nil {
			return err
		}
		name, pw, err := credentials()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		if changePassword != "" {
			if err := authn.ChangePassword(ctx, name, pw, changePassword); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password of '%s' changed.\n", name)
			return nil
		}

		if err := authn.Register(ctx, name, pw); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User '%s' registered.\n", name)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&changePassword, "new-password", "", "Change the password of an existing account")
	rootCmd.AddCommand(registerCmd)
}
