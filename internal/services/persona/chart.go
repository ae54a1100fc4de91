package persona

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/credalabs/creda/internal/models"
)

// assetChartLabels map asset-class keys to short display labels.
var assetChartLabels = map[string]string{
	models.AssetLargeCapEquity:      "Large Cap",
	models.AssetMidSmallCapEquity:   "Mid/Small",
	models.AssetInternationalEquity: "Intl Eq",
	models.AssetGovernmentBonds:     "Govt Bonds",
	models.AssetCorporateBonds:      "Corp Bonds",
	models.AssetGold:                "Gold",
	models.AssetCashEquivalents:     "Cash",
}

// RenderAllocationChart renders the recommended allocation as a PNG
// bar chart, one bar per asset class in canonical order.
func (s *Service) RenderAllocationChart(result *models.PersonaResult) ([]byte, error) {
	if result == nil || len(result.Allocation) == 0 {
		return nil, fmt.Errorf("no allocation to chart")
	}

	values := make([]chart.Value, 0, len(models.AssetClasses))
	for _, asset := range models.AssetClasses {
		pct, ok := result.Allocation[asset]
		if !ok {
			continue
		}
		values = append(values, chart.Value{
			Label: assetChartLabels[asset],
			Value: pct * 100,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Recommended Allocation — %s", result.Persona.Name),
		Width:    900,
		Height:   450,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorFromHex("fefefe"),
		},
		YAxis: chart.YAxis{
			Name: "Allocation %",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render allocation chart: %w", err)
	}

	s.logger.Debug().
		Int("bytes", buf.Len()).
		Str("persona", result.Persona.Name).
		Msg("Allocation chart rendered")

	return buf.Bytes(), nil
}
