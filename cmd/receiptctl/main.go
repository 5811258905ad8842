package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "receiptctl",
	Short: "Operator tooling for the Frutas loyalty service",
	Long: `receiptctl talks to the loyalty database directly using the same
configuration as the API server. It migrates the schema, seeds the menu
catalog and finalizes or claims receipts when the POS front end is down.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedMenuCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(claimCmd)

	finalizeCmd.Flags().StringArrayP("item", "i", nil, "Cart line as menu_item_id:quantity (repeatable)")
	finalizeCmd.Flags().String("qr", "", "Write the receipt QR code PNG to this path")
	_ = finalizeCmd.MarkFlagRequired("item")

	claimCmd.Flags().String("code", "", "Receipt code printed on the ticket")
	claimCmd.Flags().String("user", "", "UUID of the customer to credit")
	_ = claimCmd.MarkFlagRequired("code")
	_ = claimCmd.MarkFlagRequired("user")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
