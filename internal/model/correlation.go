package model

import "time"

// CorrelationMatrix is a symmetric pairwise correlation matrix over the
// symbols, in symbol order. Values[i][j] is the correlation of Symbols[i]
// with Symbols[j]; the diagonal is 1.
type CorrelationMatrix struct {
	Symbols []string    `json:"symbols"`
	Values  [][]float64 `json:"values"`
}

// At returns the correlation between two symbols by name, and whether both
// were present in the matrix.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	ai, bi := -1, -1
	for i, s := range m.Symbols {
		if s == a {
			ai = i
		}
		if s == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return 0, false
	}
	return m.Values[ai][bi], true
}

// CorrelationStats summarises the off-diagonal entries of a matrix.
type CorrelationStats struct {
	Max     float64   `json:"max"`
	Min     float64   `json:"min"`
	Avg     float64   `json:"avg"`
	MaxPair [2]string `json:"maxPair"`
	MinPair [2]string `json:"minPair"`
}

// CorrelatedPair is one symbol pair above the correlation threshold.
type CorrelatedPair struct {
	SymbolA     string  `json:"symbolA"`
	SymbolB     string  `json:"symbolB"`
	Correlation float64 `json:"correlation"`
}

// Cluster is a connected group of highly correlated symbols, annotated with
// the average pairwise correlation inside the group.
type Cluster struct {
	Symbols        []string `json:"symbols"`
	AvgCorrelation float64  `json:"avgCorrelation"`
}

// DiversificationScore is the 0-100 composite score with its sub-scores.
// EffectiveN is the concentration-and-correlation-adjusted holding count the
// effective-N sub-score is derived from.
type DiversificationScore struct {
	Total            float64  `json:"total"`
	CountScore       float64  `json:"countScore"`
	CorrelationScore float64  `json:"correlationScore"`
	EffectiveNScore  float64  `json:"effectiveNScore"`
	SectorScore      float64  `json:"sectorScore"`
	EffectiveN       float64  `json:"effectiveN"`
	Rating           string   `json:"rating"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// CorrelationAnalysis is the full correlation report for an account.
type CorrelationAnalysis struct {
	AccountName     string               `json:"accountName,omitempty"`
	CalculationDate time.Time            `json:"calculationDate"`
	LookbackDays    int                  `json:"lookbackDays"`
	Observations    int                  `json:"observations"`
	Matrix          CorrelationMatrix    `json:"matrix"`
	Stats           CorrelationStats     `json:"stats"`
	HighPairs       []CorrelatedPair     `json:"highPairs"`
	Clusters        []Cluster            `json:"clusters"`
	Diversification DiversificationScore `json:"diversification"`
	Weights         []PortfolioWeight    `json:"weights"`
}
