// dreamctl is an operator CLI for the stored-dream database: inspect records and
// run the account-deletion cascade without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/karake-shoya/dream-analysis-app-sub000/internal/config"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/factory"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/platform/logger"
	"github.com/karake-shoya/dream-analysis-app-sub000/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "dreamctl",
	Short: "Operator CLI for the dream analysis store",
}

func newDreamService() (*services.DreamService, func(), error) {
	_ = godotenv.Load()
	log := logger.NewConsole("dreamctl")

	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	st, err := factory.NewStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return services.NewDreamService(st), func() { _ = st.Close() }, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	var dreamID, owner string

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one stored dream by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newDreamService()
			if err != nil {
				return err
			}
			defer closeFn()
			// Operator access bypasses owner/share-token checks.
			rec, err := svc.GetForOperator(context.Background(), dreamID)
			if err != nil {
				return err
			}
			return printJSON(rec)
		},
	}
	getCmd.Flags().StringVar(&dreamID, "id", "", "Dream ID (required)")
	_ = getCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(getCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored dreams for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newDreamService()
			if err != nil {
				return err
			}
			defer closeFn()
			recs, err := svc.ListByOwner(context.Background(), owner)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}
	listCmd.Flags().StringVar(&owner, "owner", "", "Owner user ID (required)")
	_ = listCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(listCmd)

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all stored dreams for an owner (account-deletion cascade)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newDreamService()
			if err != nil {
				return err
			}
			defer closeFn()
			n, err := svc.PurgeOwner(context.Background(), owner)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d record(s)\n", n)
			return nil
		},
	}
	purgeCmd.Flags().StringVar(&owner, "owner", "", "Owner user ID (required)")
	_ = purgeCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(purgeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
