// Package main provides the vcube CLI: a virtual data-cube engine over
// Cloud-Optimized GeoTIFF archives for Sentinel-2 L2A and Landsat 8/9
// Collection-2 L2 imagery.
//
// Usage:
//
//	vcube compute --sensor sentinel-2-l2a --bbox ... --start ... --end ...
//	vcube extract --sensor sentinel-2-l2a --bbox ... --bands red,green,blue
//	vcube tile    --sensor sentinel-2-l2a --x 1723 --y 987 --z 12
//	vcube serve   --addr :8080
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kshitijrajsharma/vcube/internal/cogio"
	"github.com/kshitijrajsharma/vcube/internal/config"
	"github.com/kshitijrajsharma/vcube/internal/stac"
)

var (
	verbose bool
	cfg     config.Config
	catalog *stac.Client
	reader  *cogio.Reader
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vcube",
		Short: "Virtual data-cube engine over Cloud-Optimized GeoTIFF archives",
		Long: `vcube discovers Sentinel-2 L2A and Landsat 8/9 Collection-2 L2 scenes over
a STAC catalog, evaluates a band-math formula per scene, aggregates the
result across time, and renders GeoTIFF/PNG/GIF/ZIP outputs or serves a
single XYZ tile PNG.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

			// godotenv.Load is a no-op error (ErrNotExist) when no .env
			// file is present, which is the common case outside local
			// development; only surface a genuinely malformed file.
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load .env: %w", err)
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			catalog = stac.NewClient(stac.Config{
				EarthSearchRoot:       cfg.STACRootSentinel2,
				PlanetaryComputerRoot: cfg.STACRootLandsat,
			})
			reader = cogio.NewReader(64)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if reader != nil {
				reader.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newComputeCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newTileCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("vcube: fatal", "error", err)
		os.Exit(1)
	}
}

// parseBbox splits a "west,south,east,north" flag value into an AOI.
func parseBbox(s string) (west, south, east, north float64, err error) {
	_, err = fmt.Sscanf(s, "%f,%f,%f,%f", &west, &south, &east, &north)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("bbox must be \"west,south,east,north\": %w", err)
	}
	return west, south, east, north, nil
}
