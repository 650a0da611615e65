package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"taskrelay/internal/client"
	"taskrelay/internal/queue"
)

var submitFlags struct {
	file    string
	content string
	rng     string
	pkg     string
	args    string
}

// submitCmd enqueues a command document on the relay.
var submitCmd = &cobra.Command{
	Use:   "submit [action]",
	Short: "Enqueue a command for the executor",
	Long: `Builds a command document for the given action verb and saves it to
the relay's command collection under a generated unique filename. The
matching result appears in the result collection under the same filename
once an executor has processed it.

Example:
  relay submit updateFile --file main.py --range 2-5 --content "x = 1"
  relay submit executeFile --file main.py --args "--fast"
  relay submit installPackage --package requests`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitFlags.file, "file", "", "target file path (relative to the sandbox root)")
	submitCmd.Flags().StringVar(&submitFlags.content, "content", "", "file content for create/update")
	submitCmd.Flags().StringVar(&submitFlags.rng, "range", "", "line range: 'start-end', a line number, 'append', or '0-999999' for full overwrite")
	submitCmd.Flags().StringVar(&submitFlags.pkg, "package", "", "package name for install/uninstall")
	submitCmd.Flags().StringVar(&submitFlags.args, "args", "", "whitespace-separated script arguments")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := queue.EncodeCommand(&queue.Command{
		Action:  args[0],
		File:    submitFlags.file,
		Content: submitFlags.content,
		Range:   submitFlags.rng,
		Package: submitFlags.pkg,
		Args:    submitFlags.args,
	})
	if err != nil {
		return err
	}

	listTimeout, err := cfg.ListTimeout()
	if err != nil {
		return err
	}
	cli := client.New(cfg.Executor.ServerURL, cfg.Executor.Token, listTimeout)
	defer cli.Close()

	name := "task-" + uuid.NewString() + queue.DocumentSuffix
	if err := cli.SaveFile(cmd.Context(), queue.CollectionCommand, name, string(doc)); err != nil {
		return err
	}

	fmt.Println(name)
	return nil
}
