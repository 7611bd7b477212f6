package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boofino/boofino/config"
	"github.com/boofino/boofino/database/indexes"
	"github.com/boofino/boofino/database/seeders"
	"github.com/boofino/boofino/pkg/database"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// boofino db:indexes
var dbIndexesCmd = &cobra.Command{
	Use:   "db:indexes",
	Short: "Create the unique and query indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := indexes.Ensure(ctx, database.DB); err != nil {
			return err
		}
		fmt.Println("Indexes ensured.")
		return nil
	},
}

// boofino db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Insert the demo school, products, discount codes and users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := seeders.RunAll(ctx, database.DB); err != nil {
			return err
		}
		fmt.Println("Seeding complete.")
		return nil
	},
}
