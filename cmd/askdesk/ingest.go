package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askdesk/askdesk/plugin/ai"
	"github.com/askdesk/askdesk/server/ingest"
	"github.com/askdesk/askdesk/store"
	"github.com/askdesk/askdesk/store/db"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Load documents into the knowledge base",
		Long:  "Chunks each file, embeds the chunks and stores them for retrieval. Requires the postgres driver and a configured embedding provider.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args)
		},
	}
	return cmd
}

func runIngest(cmd *cobra.Command, files []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	serverProfile, err := loadProfile()
	if err != nil {
		return err
	}
	if serverProfile.Driver != "postgres" {
		return errors.New("ingest requires the postgres driver")
	}
	if !serverProfile.IsAIEnabled() {
		return errors.New("ingest requires a configured embedding provider")
	}

	aiConfig := ai.NewConfigFromProfile(serverProfile)
	if err := aiConfig.Validate(); err != nil {
		return err
	}
	embeddingService, err := ai.NewEmbeddingService(&aiConfig.Embedding)
	if err != nil {
		return err
	}

	driver, err := db.NewDBDriver(serverProfile)
	if err != nil {
		return err
	}
	storeInstance := store.New(driver, serverProfile)
	defer storeInstance.Close()
	if err := storeInstance.Migrate(ctx); err != nil {
		return err
	}

	ingester := ingest.NewIngester(storeInstance, embeddingService, aiConfig.Embedding.Model)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "read %s", file)
		}
		title := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

		count, err := ingester.Ingest(ctx, title, string(content))
		if err != nil {
			return errors.Wrapf(err, "ingest %s", file)
		}
		fmt.Fprintf(out, "%s: %d chunks\n", file, count)
	}
	return nil
}
