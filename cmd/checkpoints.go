package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sp0x/solrctl/config"
	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/storage/bolt"
)

func init() {
	cmdCheckpoints := &cobra.Command{
		Use:     "checkpoints [run]",
		Aliases: []string{"cp"},
		Short:   "Lists the last committed cursor of recorded migrations.",
		Args:    cobra.MaximumNArgs(1),
		RunE:    checkpointsCommand,
	}
	cmdFlags := cmdCheckpoints.Flags()
	cmdFlags.Bool("yaml", false, "Print the checkpoints as yaml")
	cmdFlags.Bool("clear", false, "Remove every checkpoint")
	rootCmd.AddCommand(cmdCheckpoints)
}

func checkpointsCommand(c *cobra.Command, args []string) error {
	ledger, err := bolt.OpenCheckpoints(appConfig.GetString(config.KeyCheckpoints))
	if err != nil {
		return err
	}
	defer ledger.Close()
	if wipe, _ := c.Flags().GetBool("clear"); wipe {
		return ledger.Clear()
	}
	var checkpoints []operations.Progress
	if len(args) == 1 {
		p, err := ledger.Get(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		checkpoints = append(checkpoints, *p)
	} else if checkpoints, err = ledger.List(); err != nil {
		return err
	}
	if asYaml, _ := c.Flags().GetBool("yaml"); asYaml {
		out, err := yaml.Marshal(checkpoints)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	tabWr := new(tabwriter.Writer)
	tabWr.Init(os.Stdout, 0, 8, 1, '\t', 0)
	_, _ = fmt.Fprintln(tabWr, "RUN\tKIND\tCOLLECTION\tDOCUMENTS\tSTATE\tUPDATED\tCURSOR")
	for _, p := range checkpoints {
		_, _ = fmt.Fprintf(tabWr, "%s\t%s\t%s\t%s/%s\t%s\t%s\t%s\n",
			p.Run, p.Kind, p.Collection,
			humanize.Comma(int64(p.Documents)), humanize.Comma(p.Matched),
			checkpointState(p), humanize.Time(p.Updated), p.Cursor)
	}
	return tabWr.Flush()
}

func checkpointState(p operations.Progress) string {
	switch {
	case p.Error != "":
		return "failed"
	case p.Done:
		return "done"
	default:
		return "running"
	}
}
