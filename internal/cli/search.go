package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"food-facilities-api-server/internal/models"
	"food-facilities-api-server/internal/search"

	"github.com/spf13/cobra"
)

var (
	// ErrNoResults is returned when a search matches nothing.
	ErrNoResults = errors.New("no food facilities found")
	// ErrApplicantNameRequired is returned for a blank applicant argument.
	ErrApplicantNameRequired = errors.New("applicant name is required")
)

func newSearchCommand(opts *options, load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search facilities by applicant, street or location",
	}
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "output results as JSON")

	var nameStatus string
	byName := &cobra.Command{
		Use:   "name [applicant]",
		Short: "Search by applicant name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return ErrApplicantNameRequired
			}
			searcher, err := opts.searcher(cmd, load)
			if err != nil {
				return err
			}
			results, err := searcher.SearchByApplicantName(cmd.Context(), args[0], nameStatus)
			return opts.print(cmd, results, err)
		},
	}
	byName.Flags().StringVar(&nameStatus, "status", "", "APPROVED, REQUESTED or EXPIRED")

	byStreet := &cobra.Command{
		Use:   "street [street]",
		Short: "Search by street name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, err := opts.searcher(cmd, load)
			if err != nil {
				return err
			}
			results, err := searcher.SearchByStreetName(cmd.Context(), args[0])
			return opts.print(cmd, results, err)
		},
	}

	var (
		lat, lon       float64
		locationStatus string
	)
	byLocation := &cobra.Command{
		Use:   "location",
		Short: "Find the nearest facilities to a point",
		Long: `Returns up to 5 facilities nearest to --lat/--lon.
Only APPROVED facilities are considered unless --status is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			searcher, err := opts.searcher(cmd, load)
			if err != nil {
				return err
			}
			results, err := searcher.SearchByGeoLocation(cmd.Context(), lat, lon, locationStatus)
			return opts.print(cmd, results, err)
		},
	}
	byLocation.Flags().Float64Var(&lat, "lat", 0, "latitude")
	byLocation.Flags().Float64Var(&lon, "lon", 0, "longitude")
	byLocation.Flags().StringVar(&locationStatus, "status", "", "APPROVED, REQUESTED or EXPIRED")
	_ = byLocation.MarkFlagRequired("lat")
	_ = byLocation.MarkFlagRequired("lon")

	cmd.AddCommand(byName, byStreet, byLocation)
	return cmd
}

func (o *options) searcher(cmd *cobra.Command, load Loader) (search.Searcher, error) {
	cfg, logger, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	// An explicit CSV is searched directly, bypassing Mongo.
	if o.csvPath != "" {
		cfg.Mongo.URI = ""
	}
	return load(cmd.Context(), cfg, logger)
}

func (o *options) print(cmd *cobra.Command, results []models.FoodFacility, err error) error {
	if err != nil {
		if msg := search.Message(err); msg != "" {
			return errors.New(msg)
		}
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return ErrNoResults
	}

	if o.jsonOut {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i := range results {
		f := &results[i]
		cmd.Printf("  [%d] %s (%s)\n", i+1, f.Applicant, strings.ToUpper(f.Status))
		if f.Address != "" {
			cmd.Printf("      %s\n", f.Address)
		}
		if f.HasLocation() {
			cmd.Printf("      %.6f, %.6f\n", *f.Latitude, *f.Longitude)
		}
		if f.FoodItems != "" {
			cmd.Printf("      %s\n", f.FoodItems)
		}
	}
	return nil
}
