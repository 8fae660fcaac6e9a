package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/coolbeans/cardcut/pkg/cards"
	"github.com/coolbeans/cardcut/pkg/export"
	"github.com/coolbeans/cardcut/pkg/filename"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cardcut",
		Short: "Evidence card parser",
		Long: `Cardcut converts rich-text documents into structured evidence cards.

It reads the malformed markup that word processors, PDFs, and browser
editors produce and recovers:
  - Card summaries, citations, authors, and years
  - Highlighted evidence spans with word counts
  - The document outline with heading hierarchy`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(profilesCmd())
	rootCmd.AddCommand(filenameCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var (
		profileName string
		profileFile string
		format      string
		markSpace   bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a document into evidence cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			opts := cards.Options{
				Profile:       cards.ProfileName(profileName),
				MarkJoinSpace: markSpace,
				Logger:        newLogger(verbose),
			}
			if profileFile != "" {
				overrides, err := cards.LoadOverridesFile(profileFile)
				if err != nil {
					return err
				}
				opts.Overrides = overrides
			}

			result := cards.Parse(string(markup), args[0], opts)

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "markdown", "md":
				out, err := export.New().Markdown(result)
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			case "text":
				fmt.Print(export.New().Text(result))
				return nil
			default:
				return fmt.Errorf("unknown format %q (want json, markdown, or text)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "standard", "format profile (see 'cardcut profiles')")
	cmd.Flags().StringVar(&profileFile, "profile-file", "", "YAML file with profile overrides")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, markdown, text")
	cmd.Flags().BoolVar(&markSpace, "mark-space", false, "join highlighted spans with spaces instead of ellipses")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log segmentation decisions")
	return cmd
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in format profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range cards.ProfileNames() {
				profile, _ := cards.Profile(cards.ProfileName(name))
				fmt.Printf("%-16s card-start headings %v, boundary at %d blank line(s)\n",
					name, profile.CardStartHeadings, profile.MinBlankLinesForBoundary)
			}
			return nil
		},
	}
}

func filenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filename <name>",
		Short: "Parse metadata out of an evidence file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(filename.Parse(args[0]))
		},
	}
}

func serveCmd() *cobra.Command {
	var (
		port    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the parse API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)
			slog.SetDefault(logger)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			r := chi.NewRouter()

			r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			})

			r.Post("/api/parse", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					Markup   string          `json:"markup"`
					FileName string          `json:"file_name"`
					Profile  string          `json:"profile"`
					Profiled cards.Overrides `json:"overrides"`
				}
				if err := json.NewDecoder(io.LimitReader(req.Body, 16<<20)).Decode(&body); err != nil {
					writeError(w, http.StatusBadRequest, err)
					return
				}

				result := cards.Parse(body.Markup, body.FileName, cards.Options{
					Profile:   cards.ProfileName(body.Profile),
					Overrides: body.Profiled,
					Logger:    logger,
				})
				writeJSON(w, http.StatusOK, result)
			})

			r.Get("/api/profiles", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, cards.ProfileNames())
			})

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			go func() {
				logger.Info("server starting", "port", port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "error", err)
					os.Exit(1)
				}
			}()

			<-ctx.Done()
			logger.Info("shutting down")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "8086", "listen port")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log segmentation decisions")
	return cmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
