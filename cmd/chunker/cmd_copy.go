package main

import (
	"fmt"

	"chunker/internal/chunk"
	"chunker/internal/clipboard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	copyName  string
	copyLimit string
	copyIndex int
)

// copyCmd copies one chunk to the clipboard.
var copyCmd = &cobra.Command{
	Use:   "copy FILE",
	Short: "Copy one email chunk to the clipboard",
	Long: `Builds the chunks exactly like "chunker build" and copies chunk --chunk
(counting from 1) to the clipboard as a comma separated line.

Example:
  chunker copy contacts.xlsx --name "Jane Doe" --limit 50 --chunk 2`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().StringVarP(&copyName, "name", "n", "", "Exact value of the name column (required)")
	copyCmd.Flags().StringVarP(&copyLimit, "limit", "l", "", "Maximum emails per chunk (required)")
	copyCmd.Flags().IntVar(&copyIndex, "chunk", 1, "Chunk number to copy, starting at 1")
	_ = copyCmd.MarkFlagRequired("name")
	_ = copyCmd.MarkFlagRequired("limit")
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	chunks, _, err := loadChunks(ctx, cfg, args[0], copyName, copyLimit)
	if err != nil {
		return err
	}
	list := chunk.NewList(chunks)
	if list.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching emails")
		return nil
	}
	if copyIndex < 1 || copyIndex > list.Len() {
		return fmt.Errorf("%w: --chunk %d, have %d", chunk.ErrChunkIndex, copyIndex, list.Len())
	}

	clip, err := newClipboard(cfg.Chunk.Clipboard)
	if err != nil {
		return err
	}
	consumer := &chunk.Consumer{Writer: clip, Delimiter: cfg.Chunk.Delimiter}

	idx := copyIndex - 1
	copied, err := list.At(idx)
	if err != nil {
		return err
	}
	rest, err := consumer.Consume(list, idx)
	if err != nil {
		return err
	}
	logger.Info("chunk copied", zap.Int("chunk", copyIndex), zap.Int("emails", copied.Len()))

	fmt.Fprintf(cmd.OutOrStdout(), "Copied chunk %d of %d (%d emails). %d chunk(s) left.\n",
		copyIndex, list.Len(), copied.Len(), rest.Len())

	// Without a system clipboard the payload would otherwise be lost.
	if mem, ok := clip.(*clipboard.Memory); ok {
		if text, ok := mem.Last(); ok {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
	}
	return nil
}
