package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/outofforest/blockfile"
	"github.com/outofforest/blockfile/pkg/filedev"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("reading block file failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "blockfile <file>",
		Short:         "Print a diagnostic summary of a block file",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid at this point, failures from here on are
			// file problems and must not dump the usage text.
			cmd.SilenceUsage = true
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer fd.Close()

	f, err := blockfile.Open(filedev.New(fd))
	if err != nil {
		return err
	}

	count, err := f.CountBlocks()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	h := f.Header()
	fmt.Fprintf(out, "Magic Number: %x\n", h.MagicNumber)
	fmt.Fprintf(out, "File ID: %d\n", h.FileID)
	fmt.Fprintf(out, "Version: %d\n", h.Version)
	fmt.Fprintf(out, "Block Size: %d\n", h.BlockSize)
	fmt.Fprintf(out, "First Free Block: %d\n", h.FirstFreeBlock)
	fmt.Fprintf(out, "User Parameter Count: %d\n", h.ParamCount)

	p := f.Params()
	if p.Len() > 0 {
		fmt.Fprintln(out, "User Parameters:")
		for _, name := range p.Names() {
			value, _ := p.Value(name)
			fmt.Fprintf(out, "  %s: %d\n", name, value)
		}
	}

	fmt.Fprintf(out, "Number of blocks read: %d\n", count)
	return nil
}
