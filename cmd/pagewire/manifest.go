package main

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagewire/internal/errors"
	"github.com/vango-dev/pagewire/pkg/assets"
)

func manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect asset manifests",
	}
	cmd.AddCommand(manifestVersionCmd(), manifestShowCmd())
	return cmd
}

func manifestVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version <manifest.json>",
		Short: "Print the asset version derived from a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", m.Version())
			return nil
		},
	}
}

func manifestShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <manifest.json>",
		Short: "List manifest entries and the derived version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Version string            `json:"version"`
					Entries map[string]string `json:"entries"`
				}{m.Version(), m.All()})
			}

			entries := m.All()
			keys := make([]string, 0, len(entries))
			for k := range entries {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			printf(cmd, "version %s\n", m.Version())
			for _, k := range keys {
				printf(cmd, "  %s -> %s\n", k, entries[k])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func loadManifest(path string) (*assets.Manifest, error) {
	m, err := assets.Load(path)
	if err != nil {
		if isNotExist(err) {
			return nil, errors.New("E110").WithDetail("No manifest at " + path)
		}
		return nil, errors.New("E111").Wrap(err)
	}
	return m, nil
}
