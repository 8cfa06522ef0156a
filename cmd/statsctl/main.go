// Command statsctl computes training statistics from a backup export and
// issues development tokens for the API.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"example.com/trainingstats/internal/auth"
	"example.com/trainingstats/internal/config"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "statsctl",
		Short:         "Training volume statistics from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.LoadDotEnv()
		},
	}

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newMilestonesCmd())
	rootCmd.AddCommand(newTokenCmd())
	return rootCmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		tenant  string
		scopes  string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			token, err := auth.Sign(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
				subject, tenant, strings.Split(scopes, ","), ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "local-user", "token subject (user id)")
	cmd.Flags().StringVar(&tenant, "tenant", "local", "tenant id")
	cmd.Flags().StringVar(&scopes, "scopes", strings.Join([]string{auth.ScopeWorkoutsWrite, auth.ScopeWorkoutsRead, auth.ScopeStatsRead}, ","), "comma separated scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
