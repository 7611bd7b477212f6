package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boofino/boofino/config"
	"github.com/boofino/boofino/pkg/auth"
)

var tokenTTL time.Duration

// boofino token:service <name> mints a JWT for a backend service such as
// the fulfillment system, which uses it on PUT /order/{code}/status.
var tokenCmd = &cobra.Command{
	Use:   "token:service <name>",
	Short: "Generate a service token for a backend integration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		token, err := auth.GenerateServiceToken(args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 90*24*time.Hour, "token lifetime")
}
