// Package llama implements the yield data source over the DeFiLlama
// yields API.
package llama

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
)

// poolsResponse is the /pools envelope.
type poolsResponse struct {
	Status string       `json:"status"`
	Data   []poolRecord `json:"data"`
}

// poolRecord is one pool as the API reports it. Numeric fields are
// pointers: the API omits or nulls them for some pools.
type poolRecord struct {
	Pool        string   `json:"pool"`
	Chain       string   `json:"chain"`
	Project     string   `json:"project"`
	Symbol      string   `json:"symbol"`
	TVLUsd      *float64 `json:"tvlUsd"`
	APY         *float64 `json:"apy"`
	APYBase     *float64 `json:"apyBase"`
	APYReward   *float64 `json:"apyReward"`
	Stablecoin  bool     `json:"stablecoin"`
	Exposure    string   `json:"exposure"`
	ILRisk      string   `json:"ilRisk"`
	Predictions *struct {
		PredictedClass string `json:"predictedClass"`
	} `json:"predictions"`
}

// toPool normalizes the wire record to a domain pool. Returns false
// when the record lacks the fields a pool cannot be identified
// without.
func (r poolRecord) toPool() (domain.Pool, bool) {
	if r.Pool == "" || r.Chain == "" || r.Project == "" {
		return domain.Pool{}, false
	}

	p := domain.Pool{
		ID:         r.Pool,
		Protocol:   r.Project,
		Chain:      r.Chain,
		Symbol:     r.Symbol,
		APY:        fromFloat(r.APY),
		APYBase:    fromFloat(r.APYBase),
		APYReward:  fromFloat(r.APYReward),
		TVLUsd:     fromFloat(r.TVLUsd),
		Stablecoin: r.Stablecoin,
		Exposure:   r.Exposure,
		ILRisk:     r.ILRisk,
	}
	if p.Exposure == "" {
		p.Exposure = "single"
	}
	if r.Predictions != nil {
		p.PredictedClass = r.Predictions.PredictedClass
	}
	return p, true
}

// chartResponse is the /chart/{pool} envelope.
type chartResponse struct {
	Status string        `json:"status"`
	Data   []chartRecord `json:"data"`
}

// chartRecord is one day of pool history on the wire.
type chartRecord struct {
	Timestamp string   `json:"timestamp"`
	APY       *float64 `json:"apy"`
	TVLUsd    *float64 `json:"tvlUsd"`
}

// Timestamp layouts the chart endpoint has been observed to return.
var chartTimeLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02",
}

// toHistoryPoint normalizes the wire record. Returns false for
// records whose timestamp cannot be parsed.
func (r chartRecord) toHistoryPoint() (domain.HistoryPoint, bool) {
	var ts time.Time
	var err error
	for _, layout := range chartTimeLayouts {
		ts, err = time.Parse(layout, r.Timestamp)
		if err == nil {
			break
		}
	}
	if err != nil {
		return domain.HistoryPoint{}, false
	}

	return domain.HistoryPoint{
		Timestamp: ts,
		APY:       fromFloat(r.APY),
		TVLUsd:    fromFloat(r.TVLUsd),
	}, true
}

func fromFloat(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}
