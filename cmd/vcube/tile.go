package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/tileproc"
	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

func newTileCmd() *cobra.Command {
	var (
		sensor     string
		x, y, z    int
		start      string
		end        string
		cloudCover float64
		band1      string
		band2      string
		formula    string
		colormap   string
		operation  string
		latest     bool
		out        string
	)

	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Render a single XYZ slippy-map tile to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
			}
			endDate, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("--end must be YYYY-MM-DD: %w", err)
			}

			tileCache := tileproc.NewCache(cfg.TileCacheTTL, cfg.TileCacheMaxEntries)
			proc := tileproc.NewProcessor(catalog, reader, tileCache)

			result, err := proc.Generate(context.Background(), tileproc.Request{
				X: x, Y: y, Z: z,
				Sensor:     model.Sensor(sensor),
				Start:      startDate,
				End:        endDate,
				CloudCover: cloudCover,
				Band:       model.BandRequest{Band1: band1, Band2: band2, Formula: formula},
				Colormap:   colormap,
				Latest:     latest,
				Operation:  timestack.Operation(operation),
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, result.PNG, 0o644); err != nil {
				return fmt.Errorf("write tile png: %w", err)
			}
			fmt.Printf("scene: %s\n", result.SceneID)
			fmt.Printf("wrote: %s (%d bytes)\n", out, len(result.PNG))
			return nil
		},
	}

	cmd.Flags().StringVar(&sensor, "sensor", string(model.SensorSentinel2), "sensor: sentinel-2-l2a or landsat-c2-l2")
	cmd.Flags().IntVar(&x, "x", 0, "tile x coordinate (required)")
	cmd.Flags().IntVar(&y, "y", 0, "tile y coordinate (required)")
	cmd.Flags().IntVar(&z, "z", 0, "tile zoom level, 10..23 (required)")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&cloudCover, "cloud-cover", 30, "exclusive upper bound on eo:cloud_cover")
	cmd.Flags().StringVar(&band1, "band1", "", "first band name (required)")
	cmd.Flags().StringVar(&band2, "band2", "", "second band name, for two-band formulas")
	cmd.Flags().StringVar(&formula, "formula", "band1", "band-math expression")
	cmd.Flags().StringVar(&colormap, "colormap", "RdYlGn", "colormap name")
	cmd.Flags().StringVar(&operation, "operation", "mean", "reducer used when latest=false")
	cmd.Flags().BoolVar(&latest, "latest", true, "use only the most recent scene instead of a time-stack aggregate")
	cmd.Flags().StringVar(&out, "out", "tile.png", "output PNG path")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")
	cmd.MarkFlagRequired("z")
	cmd.MarkFlagRequired("band1")

	return cmd
}
