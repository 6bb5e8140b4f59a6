package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/langchou/evrange/internal/estimator"
	"github.com/langchou/evrange/internal/models"
)

func newEstimateCmd() *cobra.Command {
	var (
		rangeKm, weightKg, capacity float64
		mixStr                      string
	)
	in := estimator.DefaultInputs()

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate real-world range under given conditions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("mix") {
				m, err := parseMix(mixStr)
				if err != nil {
					return err
				}
				in.Mix = m
			}

			profile := models.RangeProfile{
				RealWorldRangeKm:         optionalFloat(cmd, "range", rangeKm),
				WeightKg:                 optionalFloat(cmd, "weight", weightKg),
				UsableBatteryCapacityKwh: optionalFloat(cmd, "capacity", capacity),
			}
			printEstimate(cmd.OutOrStdout(), estimator.Compute(profile, in))
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&rangeKm, "range", 0, "real-world range in km")
	f.Float64Var(&weightKg, "weight", 0, "kerb weight in kg")
	f.Float64Var(&capacity, "capacity", 0, "usable battery capacity in kWh")
	f.Float64Var(&in.TemperatureC, "temp", in.TemperatureC, "ambient temperature in °C (5-45)")
	f.BoolVar(&in.ACOn, "ac", in.ACOn, "air conditioning on")
	f.StringVar(&mixStr, "mix", "20,15,65", "driving mix city,state,national in percent")
	f.Float64Var(&in.AdditionalWeightKg, "extra-weight", in.AdditionalWeightKg, "additional load in kg (0-600)")
	f.Float64Var(&in.AverageSpeedKmh, "speed", in.AverageSpeedKmh, "average speed in km/h (40-120)")
	return cmd
}

func printEstimate(w io.Writer, res estimator.Result) {
	in := res.Inputs
	fmt.Fprintf(w, "Conditions:  %.0f°C, AC %s, mix %d/%d/%d, +%.0f kg, %.0f km/h\n",
		in.TemperatureC, onOff(in.ACOn), in.Mix.City, in.Mix.State, in.Mix.National,
		in.AdditionalWeightKg, in.AverageSpeedKmh)

	if res.EstimatedRangeKm == nil {
		fmt.Fprintln(w, "Estimated range: insufficient data")
		return
	}
	fmt.Fprintf(w, "Estimated range: %d km\n", *res.EstimatedRangeKm)
	if res.EfficiencyWhPerKm != nil {
		fmt.Fprintf(w, "Efficiency: %.1f Wh/km\n", *res.EfficiencyWhPerKm)
	}

	f := res.Factors
	fmt.Fprintf(w, "Factors: temperature %.3f, hvac %.3f, mix %.3f, weight %.3f, speed %.3f, total %.3f\n",
		f.TemperatureEfficiency, f.HVACEnergy, f.MixFactor, f.WeightFactor, f.SpeedFactor, f.TotalEnergy)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
