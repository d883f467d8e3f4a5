package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/memagent/memory"
)

func init() {
	memCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or reset the agent's memory",
	}

	show := &cobra.Command{
		Use:   "show [path]",
		Short: "Print the memory document, or the value at a dotted path",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMemoryShow,
	}
	show.Flags().StringP("output", "o", "json", "Output format: json or yaml")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete persisted memory and restore defaults",
		Args:  cobra.NoArgs,
		RunE:  runMemoryReset,
	}

	schema := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the well-known memory fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := memory.SchemaJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}

	memCmd.AddCommand(show, reset, schema)
	RootCmd.AddCommand(memCmd)
}

func runMemoryShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown output format %q", format)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := memory.Load(cmd.Context(), store)
	if err != nil {
		return err
	}

	b, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return render(cmd.OutOrStdout(), format, b)
	}

	if _, err := memory.ParsePath(args[0]); err != nil {
		return err
	}
	res := gjson.GetBytes(b, args[0])
	if !res.Exists() {
		return fmt.Errorf("%s: %w", args[0], memory.ErrNotFound)
	}
	return render(cmd.OutOrStdout(), format, []byte(res.Raw))
}

func render(w io.Writer, format string, raw []byte) error {
	v := &memory.Value{}
	if err := v.UnmarshalJSON(raw); err != nil {
		return err
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	if s, ok := v.Text(); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	out := &memory.Document{}
	if v.Kind() == memory.KindMap {
		if err := out.UnmarshalJSON(raw); err != nil {
			return err
		}
		b, err := out.MarshalIndent()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func runMemoryReset(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := memory.Reset(cmd.Context(), store); err != nil {
		return err
	}
	logger.Info("memory reset", "store", cfg.Store.Backend)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Memory reset successfully")
	return err
}
