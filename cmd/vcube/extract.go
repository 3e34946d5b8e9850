package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kshitijrajsharma/vcube/internal/extract"
	"github.com/kshitijrajsharma/vcube/internal/model"
)

func newExtractCmd() *cobra.Command {
	var (
		sensor      string
		bbox        string
		start       string
		end         string
		cloudCover  float64
		bands       string
		output      string
		zipOutput   bool
		smartFilter bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Export per-scene multi-band GeoTIFFs for an area and date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, s, e, n, err := parseBbox(bbox)
			if err != nil {
				return err
			}
			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
			}
			endDate, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("--end must be YYYY-MM-DD: %w", err)
			}
			bandList := strings.Split(bands, ",")

			ex := extract.NewExtractor(catalog, reader)
			results, err := ex.Run(context.Background(), extract.Job{
				Sensor:      model.Sensor(sensor),
				Bbox:        model.AOI{West: w, South: s, East: e, North: n},
				Start:       startDate,
				End:         endDate,
				Bands:       bandList,
				CloudCover:  cloudCover,
				SmartFilter: smartFilter,
				OutputDir:   output,
				ZipOutput:   zipOutput,
			})
			if err != nil {
				return err
			}

			for _, r := range results {
				fmt.Printf("%s -> %s\n", r.SceneID, r.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sensor, "sensor", string(model.SensorSentinel2), "sensor: sentinel-2-l2a or landsat-c2-l2")
	cmd.Flags().StringVar(&bbox, "bbox", "", "west,south,east,north in WGS84 degrees")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&cloudCover, "cloud-cover", 30, "exclusive upper bound on eo:cloud_cover")
	cmd.Flags().StringVar(&bands, "bands", "", "comma-separated band names (required)")
	cmd.Flags().StringVar(&output, "output", "", "output directory (required)")
	cmd.Flags().BoolVar(&zipOutput, "zip", false, "bundle per-scene GeoTIFFs into a zip")
	cmd.Flags().BoolVar(&smartFilter, "smart-filter", false, "thin dense scene sets by elapsed span")
	cmd.MarkFlagRequired("bbox")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("bands")
	cmd.MarkFlagRequired("output")

	return cmd
}
