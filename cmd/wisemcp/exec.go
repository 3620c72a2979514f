package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/wisemcp/internal/tool"
	"github.com/Cyclone1070/wisemcp/internal/workflow"
	"github.com/Cyclone1070/wisemcp/internal/workflow/toolmanager"
)

// toolFailure marks a tool error that has already been written as JSON.
type toolFailure struct {
	err *tool.Error
}

func (f *toolFailure) Error() string { return f.err.Error() }
func (f *toolFailure) Unwrap() error { return f.err }

func newExecCmd(c *cli) *cobra.Command {
	var (
		params     string
		showEvents bool
	)

	cmd := &cobra.Command{
		Use:   "exec <tool>",
		Short: "Execute one tool call",
		Long: `Execute one tool call by name. Params are a JSON object.

Examples:
  wisemcp exec query_arxiv --params '{"query": "sparse attention", "max_results": 3}'
  wisemcp exec extract_web_content --params '{"url": "https://go.dev/doc/effective_go"}'
  wisemcp exec search_internal_knowledge_base --params '{"query_texts": ["attention"], "where_filter": {"source": "arxiv"}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var decoded map[string]any
			if err := json.Unmarshal([]byte(params), &decoded); err != nil {
				return fmt.Errorf("--params must be a JSON object: %w", err)
			}

			var (
				opts []toolmanager.Option
				wg   sync.WaitGroup
			)
			events := make(chan workflow.Event)
			if showEvents {
				opts = append(opts, toolmanager.WithEvents(events))
				wg.Add(1)
				go func() {
					defer wg.Done()
					printEvents(cmd.ErrOrStderr(), events)
				}()
			}

			a, err := newApp(cmd.Context(), c.cfg, c.logger, opts...)
			if err != nil {
				close(events)
				wg.Wait()
				return err
			}
			defer a.Close()

			out, err := a.manager.Execute(cmd.Context(), args[0], decoded)
			close(events)
			wg.Wait()

			if err != nil {
				var te *tool.Error
				if !errors.As(err, &te) {
					return err
				}
				if werr := writeJSON(cmd.OutOrStdout(), te); werr != nil {
					return werr
				}
				return &toolFailure{err: te}
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Result)
			c.logger.Sugar().Debugf("conversation %s recorded=%t fragments=%d", out.ConversationID, out.Recorded, out.Fragments)
			return nil
		},
	}
	cmd.Flags().StringVarP(&params, "params", "p", "{}", "tool parameters as a JSON object")
	cmd.Flags().BoolVar(&showEvents, "events", false, "print dispatch progress to stderr")
	return cmd
}

func printEvents(w io.Writer, events <-chan workflow.Event) {
	for ev := range events {
		switch e := ev.(type) {
		case workflow.ToolStartEvent:
			fmt.Fprintf(w, "[%s] started %s\n", e.ConversationID, e.ToolName)
		case workflow.ToolEndEvent:
			if e.Err != nil {
				fmt.Fprintf(w, "[%s] failed: %s\n", e.ConversationID, e.Err.Kind)
				continue
			}
			fmt.Fprintf(w, "[%s] finished %s\n", e.ConversationID, e.ToolName)
		case workflow.RecordedEvent:
			fmt.Fprintf(w, "[%s] recorded as #%d\n", e.ConversationID, e.RecordID)
		case workflow.IngestedEvent:
			fmt.Fprintf(w, "[%s] ingested %d fragments\n", e.ConversationID, e.Fragments)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
