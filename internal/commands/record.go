package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ddbstore "github.com/finmart-data/finmart/internal/store/dynamodb"
)

// NewRecordCmd creates the record command.
func NewRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record [transaction-id]",
		Short: "Fetch a classified record from the record store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(args[0])
		},
	}
}

func runRecord(transactionID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Stream.TableName == "" {
		return fmt.Errorf("stream.tableName is required for record")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := ddbstore.New(ctx, cfg.Stream.TableName, cfg.Region)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}

	record, err := store.Get(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("fetching record: %w", err)
	}
	if record == nil {
		return fmt.Errorf("no record found for transaction %s", transactionID)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
