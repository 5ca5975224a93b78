package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/closetly/product-scraper/internal/model"
	"github.com/closetly/product-scraper/internal/scrape"
)

var (
	scrapeProvider    string
	scrapeAPIKey      string
	scrapeUseAPI      bool
	scrapeUseProxy    bool
	scrapeRender      bool
	scrapeConcurrency int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape URL [URL...]",
	Short: "Scrape one or more product URLs and print the records as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := scrape.New(cfg)
		opts := scrape.Options{
			Provider:       scrapeProvider,
			APIKey:         scrapeAPIKey,
			UseScrapingAPI: scrapeUseAPI,
			UseProxy:       scrapeUseProxy,
			Render:         scrapeRender,
		}

		var (
			mu      sync.Mutex
			records []*model.ProductRecord
			failed  int
		)

		g, gCtx := errgroup.WithContext(cmd.Context())
		g.SetLimit(scrapeConcurrency)
		for _, rawURL := range args {
			rawURL := rawURL
			g.Go(func() error {
				rec, err := svc.ScrapeProduct(gCtx, rawURL, opts)
				if err != nil {
					zap.L().Error("scrape failed",
						zap.String("url", rawURL),
						zap.Error(err),
					)
					mu.Lock()
					failed++
					mu.Unlock()
					return nil
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return eris.Wrap(err, "encode record")
			}
		}

		if failed == len(args) {
			return eris.Errorf("all %d urls failed", failed)
		}
		if failed > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d urls failed\n", failed, len(args))
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeProvider, "provider", "", "scraping-api provider (scraperapi, scrapingbee)")
	scrapeCmd.Flags().StringVar(&scrapeAPIKey, "api-key", "", "provider api key (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeUseAPI, "use-api", false, "force the provider tier")
	scrapeCmd.Flags().BoolVar(&scrapeUseProxy, "use-proxy", false, "force proxy escalation")
	scrapeCmd.Flags().BoolVar(&scrapeRender, "render", false, "ask the provider for js rendering")
	scrapeCmd.Flags().IntVar(&scrapeConcurrency, "concurrency", 4, "max concurrent scrapes")
	rootCmd.AddCommand(scrapeCmd)
}
