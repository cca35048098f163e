package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/ec-storefront/internal/events"
	"github.com/example/ec-storefront/internal/infrastructure/kafka"
)

// shellCommand reads commands line by line and runs them against the same
// manager, so guest state lives as long as the shell.
func (a *App) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scanner := bufio.NewScanner(a.in)
			for {
				a.printf("storefront> ")
				if !scanner.Scan() {
					a.printf("\n")
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}
				if strings.Fields(line)[0] == "shell" {
					a.printf("already in a shell\n")
					continue
				}

				a.root.SetArgs(strings.Fields(line))
				if err := a.root.ExecuteContext(cmd.Context()); err != nil {
					a.printf("error: %v\n", err)
				}
			}
		},
	}
}

// eventsCommand tails the state event topic.
func (a *App) eventsCommand() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print state events published to kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			brokers := a.v.GetStringSlice("kafka-brokers")
			if len(brokers) == 0 {
				return errors.New("--kafka-brokers is required")
			}
			consumer := kafka.NewConsumer(brokers, a.v.GetString("kafka-topic"), group, a.logger)
			a.closer.AddCloser("kafka consumer", consumer)

			err := consumer.Consume(cmd.Context(), a.printEvent)
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "consumer group; empty reads new events only")
	return cmd
}

func (a *App) printEvent(_ context.Context, msg kafka.Message) error {
	var e events.Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return errors.Wrap(err, "decode event")
	}
	line := string(e.Type)
	if e.UserID != 0 {
		line += " user=" + strconv.FormatInt(e.UserID, 10)
	}
	if e.Collection != "" {
		line += " " + e.Collection + "/" + e.Operation
	}
	if e.Error != "" {
		line += " error=" + e.Error
	}
	a.printf("%s %s\n", e.OccurredAt.Format(time.RFC3339), line)
	return nil
}
