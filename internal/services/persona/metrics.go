package persona

import (
	"math"

	"github.com/credalabs/creda/internal/models"
)

// assetParam holds historical return/risk estimates for one asset class.
type assetParam struct {
	Return float64
	Risk   float64
}

// assetParams are Indian-market historical estimates, annualized.
var assetParams = map[string]assetParam{
	models.AssetLargeCapEquity:      {Return: 0.12, Risk: 0.16},
	models.AssetMidSmallCapEquity:   {Return: 0.15, Risk: 0.22},
	models.AssetInternationalEquity: {Return: 0.10, Risk: 0.18},
	models.AssetGovernmentBonds:     {Return: 0.07, Risk: 0.06},
	models.AssetCorporateBonds:      {Return: 0.09, Risk: 0.10},
	models.AssetGold:                {Return: 0.08, Risk: 0.12},
	models.AssetCashEquivalents:     {Return: 0.04, Risk: 0.01},
}

// referenceRisk normalizes portfolio risk onto a 0-1 score.
const referenceRisk = 0.20

// computeMetrics derives expected return, risk, and Sharpe ratio from an
// allocation and the static asset parameter table. Unknown asset classes
// contribute nothing.
func computeMetrics(allocation models.AssetAllocation, riskFreeRate float64) models.PortfolioMetrics {
	var expectedReturn, riskSq float64
	for asset, weight := range allocation {
		params, ok := assetParams[asset]
		if !ok {
			continue
		}
		expectedReturn += weight * params.Return
		wr := weight * params.Risk
		riskSq += wr * wr
	}
	risk := math.Sqrt(riskSq)

	riskScore := risk / referenceRisk
	if riskScore > 1 {
		riskScore = 1
	}

	var sharpe float64
	if risk > 0 {
		sharpe = (expectedReturn - riskFreeRate) / risk
	}

	return models.PortfolioMetrics{
		ExpectedReturn: round3(expectedReturn),
		PortfolioRisk:  round3(risk),
		RiskScore:      round3(riskScore),
		SharpeRatio:    round3(sharpe),
		RiskFreeRate:   riskFreeRate,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
