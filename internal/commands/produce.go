package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finmart-data/finmart/internal/producer"
)

// NewProduceCmd creates the produce command.
func NewProduceCmd() *cobra.Command {
	var (
		count    int
		randSeed int64
	)

	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Send generated transaction messages to the stream queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProduce(count, randSeed)
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "number of messages to send (0 runs until interrupted)")
	cmd.Flags().Int64Var(&randSeed, "seed", 0, "random seed (0 uses the current time)")
	return cmd
}

func runProduce(count int, randSeed int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Stream.QueueURL == "" {
		return fmt.Errorf("stream.queueURL is required for produce")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsConfigOptions(cfg.Region)...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	var opts []producer.Option
	opts = append(opts, producer.WithLogger(newLogger()))
	if randSeed != 0 {
		opts = append(opts, producer.WithSeed(randSeed))
	}

	p, err := producer.New(sqs.NewFromConfig(awsCfg), cfg.Stream.QueueURL, opts...)
	if err != nil {
		return err
	}

	sent, err := p.Run(ctx, count)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("producing: %w", err)
	}

	color.Green("Sent %d messages", sent)
	return nil
}
