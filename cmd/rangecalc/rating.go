package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/langchou/evrange/internal/models"
	"github.com/langchou/evrange/internal/rating"
)

func newRatingCmd() *cobra.Command {
	var rangeKm, chargeTime, capacity float64

	cmd := &cobra.Command{
		Use:   "rating",
		Short: "Compute one-stop range and long-distance star rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := models.RangeProfile{
				RealWorldRangeKm:         optionalFloat(cmd, "range", rangeKm),
				FastChargingTimeMin:      optionalFloat(cmd, "charge-time", chargeTime),
				UsableBatteryCapacityKwh: optionalFloat(cmd, "capacity", capacity),
			}
			printRating(cmd.OutOrStdout(), profile)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&rangeKm, "range", 0, "real-world range in km")
	f.Float64Var(&chargeTime, "charge-time", 0, "fast charging time 10%→80% in minutes")
	f.Float64Var(&capacity, "capacity", 0, "usable battery capacity in kWh")
	return cmd
}

func printRating(w io.Writer, profile models.RangeProfile) {
	m, ok := rating.Calculate(profile)
	if !ok {
		fmt.Fprintln(w, "Long-distance rating: insufficient data")
		return
	}

	fmt.Fprintf(w, "Leg 1: %.1f km (%s)\n", m.Leg1DistanceKm, m.Leg1DurationStr)
	if m.CanFastCharge {
		fmt.Fprintf(w, "Charging stop: %s\n", m.ChargingStopStr)
		fmt.Fprintf(w, "Leg 2: %.1f km (%s)\n", m.Leg2DistanceKm, m.Leg2DurationStr)
	} else {
		fmt.Fprintln(w, "Leg 2: no fast charging")
	}
	fmt.Fprintf(w, "One-stop range: %.1f km in %s at %.0f km/h\n", m.OneStopRangeKm, m.TotalDurationStr, m.AverageSpeedKmh)
	fmt.Fprintf(w, "Star rating: %.1f / 5\n", m.StarRating)
}
