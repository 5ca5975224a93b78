package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/closetly/product-scraper/internal/model"
	"github.com/closetly/product-scraper/internal/scrape"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scrape API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := scrape.New(cfg)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/scrape", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				URL            string `json:"url"`
				Provider       string `json:"provider"`
				APIKey         string `json:"api_key"`
				UseScrapingAPI bool   `json:"use_scraping_api"`
				UseProxy       bool   `json:"use_proxy"`
				Render         bool   `json:"render"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeScrapeError(w, &scrape.Error{
					Code:    scrape.CodeInvalidInput,
					Message: "invalid request body",
				})
				return
			}
			if body.URL == "" {
				writeScrapeError(w, &scrape.Error{
					Code:    scrape.CodeInvalidInput,
					Message: "url is required",
				})
				return
			}

			rec, err := svc.ScrapeProduct(req.Context(), body.URL, scrape.Options{
				Provider:       body.Provider,
				APIKey:         body.APIKey,
				UseScrapingAPI: body.UseScrapingAPI,
				UseProxy:       body.UseProxy,
				Render:         body.Render,
			})
			if err != nil {
				if se, ok := scrape.AsError(err); ok {
					writeScrapeError(w, se)
					return
				}
				zap.L().Error("scrape: unexpected error", zap.String("url", body.URL), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   map[string]string{"code": "internal", "message": "internal error"},
				})
				return
			}

			writeJSON(w, http.StatusOK, scrapeSuccess{Success: true, Product: rec})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type scrapeSuccess struct {
	Success bool                 `json:"success"`
	Product *model.ProductRecord `json:"product"`
}

type scrapeFailure struct {
	Success bool            `json:"success"`
	Error   scrapeErrorBody `json:"error"`
}

type scrapeErrorBody struct {
	Code           scrape.Code          `json:"code"`
	Message        string               `json:"message"`
	Suggestion     string               `json:"suggestion,omitempty"`
	UpstreamStatus int                  `json:"upstream_status,omitempty"`
	PartialProduct *model.ProductRecord `json:"partial_product,omitempty"`
}

func writeScrapeError(w http.ResponseWriter, se *scrape.Error) {
	writeJSON(w, se.Code.HTTPStatus(), scrapeFailure{
		Success: false,
		Error: scrapeErrorBody{
			Code:           se.Code,
			Message:        se.Message,
			Suggestion:     se.Suggestion,
			UpstreamStatus: se.StatusCode,
			PartialProduct: se.Partial,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
