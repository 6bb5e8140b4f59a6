package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/langchou/evrange/internal/mix"
	"github.com/langchou/evrange/internal/models"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rangecalc",
		Short:         "EV range estimation and long-distance rating calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEstimateCmd(), newRatingCmd(), newCatalogCmd())
	return root
}

// optionalFloat 未设置的参数视为缺失数据
func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return models.Float64(v)
}

// parseMix 解析 "city,state,national"，总和不为 100 时按比例归一化
func parseMix(s string) (mix.Mix, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mix.Mix{}, fmt.Errorf("mix must be city,state,national: %q", s)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mix.Mix{}, fmt.Errorf("parse mix %q: %w", s, err)
		}
		vals[i] = v
	}
	return mix.Normalize(vals[0], vals[1], vals[2]), nil
}
