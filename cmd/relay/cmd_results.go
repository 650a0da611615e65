package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskrelay/internal/client"
	"taskrelay/internal/queue"
)

// resultsCmd lists or fetches result documents. Results are consumer
// managed: fetching does not delete, pass --delete to acknowledge.
var resultsCmd = &cobra.Command{
	Use:   "results [filename]",
	Short: "List result ids or fetch one result document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runResults,
}

var deleteAfterFetch bool

func init() {
	resultsCmd.Flags().BoolVar(&deleteAfterFetch, "delete", false, "delete the result after printing it")
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	listTimeout, err := cfg.ListTimeout()
	if err != nil {
		return err
	}
	cli := client.New(cfg.Executor.ServerURL, cfg.Executor.Token, listTimeout)
	defer cli.Close()

	ctx := cmd.Context()

	if len(args) == 0 {
		names, err := cli.ListFiles(ctx, queue.CollectionResult)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	name := args[0]
	content, err := cli.ReadFile(ctx, queue.CollectionResult, name)
	if err != nil {
		return err
	}
	fmt.Print(content)

	if deleteAfterFetch {
		if err := cli.DeleteFile(ctx, queue.CollectionResult, name); err != nil {
			return err
		}
	}
	return nil
}
