package service

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
)

// MinCorrelationObservations is the minimum number of aligned daily returns
// required before a correlation is computed.
const MinCorrelationObservations = 10

// CorrelationService computes pairwise return correlations across held
// symbols, flags highly correlated pairs and clusters, and scores portfolio
// diversification.
type CorrelationService struct {
	priceRepo    *repository.PriceRepository
	snapshotRepo *repository.SnapshotRepository
	summaries    *SummaryService
	threshold    float64
	lookbackDays int
}

// NewCorrelationService creates a new CorrelationService with the provided dependencies.
// threshold is the correlation above which a pair is flagged; lookbackDays is
// the default analysis window.
func NewCorrelationService(
	priceRepo *repository.PriceRepository,
	snapshotRepo *repository.SnapshotRepository,
	summaries *SummaryService,
	threshold float64,
	lookbackDays int,
) *CorrelationService {
	return &CorrelationService{
		priceRepo:    priceRepo,
		snapshotRepo: snapshotRepo,
		summaries:    summaries,
		threshold:    threshold,
		lookbackDays: lookbackDays,
	}
}

// AlignedReturns builds per-symbol daily return series restricted to the
// dates on which every symbol has a stored return. Alignment by date keeps
// the correlation inputs comparable across symbols with gaps.
func AlignedReturns(series map[string][]model.PricePoint) (map[string][]float64, int) {
	if len(series) == 0 {
		return map[string][]float64{}, 0
	}

	returnsByDate := make(map[string]map[string]float64)
	for symbol, points := range series {
		for _, p := range points {
			if p.DailyReturn == nil {
				continue
			}
			date := p.PriceDate.Format("2006-01-02")
			if returnsByDate[date] == nil {
				returnsByDate[date] = make(map[string]float64)
			}
			returnsByDate[date][symbol] = *p.DailyReturn
		}
	}

	var dates []string
	for date, bySymbol := range returnsByDate {
		if len(bySymbol) == len(series) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	aligned := make(map[string][]float64, len(series))
	for symbol := range series {
		values := make([]float64, 0, len(dates))
		for _, date := range dates {
			values = append(values, returnsByDate[date][symbol])
		}
		aligned[symbol] = values
	}
	return aligned, len(dates)
}

// BuildMatrix computes the pairwise Pearson correlation matrix over aligned
// return series, symbols in sorted order.
func BuildMatrix(aligned map[string][]float64) model.CorrelationMatrix {
	symbols := make([]string, 0, len(aligned))
	for symbol := range aligned {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	values := make([][]float64, len(symbols))
	for i := range symbols {
		values[i] = make([]float64, len(symbols))
		for j := range symbols {
			if i == j {
				values[i][j] = 1
				continue
			}
			values[i][j] = round4(pearson(aligned[symbols[i]], aligned[symbols[j]]))
		}
	}
	return model.CorrelationMatrix{Symbols: symbols, Values: values}
}

// Analyze runs the full correlation analysis for an account over the given
// lookback window (the service default when lookbackDays is 0). It requires
// at least two held symbols and enough aligned observations.
func (s *CorrelationService) Analyze(ctx context.Context, accountName string, lookbackDays int) (model.CorrelationAnalysis, error) {
	if lookbackDays <= 0 {
		lookbackDays = s.lookbackDays
	}

	weights, err := s.summaries.Weights(ctx, accountName)
	if err != nil {
		return model.CorrelationAnalysis{}, err
	}
	if len(weights) < 2 {
		return model.CorrelationAnalysis{}, apperrors.ErrInsufficientData
	}

	now := nowUTC()
	startDate := now.AddDate(0, 0, -lookbackDays).Format("2006-01-02")

	series := make(map[string][]model.PricePoint, len(weights))
	for _, w := range weights {
		points, err := s.priceRepo.GetPrices(w.Symbol, startDate, "")
		if err != nil {
			return model.CorrelationAnalysis{}, err
		}
		series[w.Symbol] = points
	}

	aligned, observations := AlignedReturns(series)
	if observations < MinCorrelationObservations {
		return model.CorrelationAnalysis{}, apperrors.ErrInsufficientData
	}

	matrix := BuildMatrix(aligned)
	stats := matrixStats(matrix)
	highPairs := s.highPairs(matrix)
	clusters := buildClusters(matrix, s.threshold)

	analysis := model.CorrelationAnalysis{
		AccountName:     accountName,
		CalculationDate: now,
		LookbackDays:    lookbackDays,
		Observations:    observations,
		Matrix:          matrix,
		Stats:           stats,
		HighPairs:       highPairs,
		Clusters:        clusters,
		Diversification: ScoreDiversification(weights, matrix, nil),
		Weights:         weights,
	}

	if s.snapshotRepo != nil {
		if err := s.snapshotRepo.SaveCorrelation(uuid.New().String(), analysis); err != nil {
			return model.CorrelationAnalysis{}, err
		}
	}
	return analysis, nil
}

// History returns prior persisted correlation runs for an account.
func (s *CorrelationService) History(accountName string, limit int) ([]model.CorrelationAnalysis, error) {
	return s.snapshotRepo.ListCorrelationSnapshots(accountName, limit)
}

func matrixStats(m model.CorrelationMatrix) model.CorrelationStats {
	stats := model.CorrelationStats{Max: -1, Min: 1}
	var sum float64
	var count int
	for i := range m.Symbols {
		for j := i + 1; j < len(m.Symbols); j++ {
			v := m.Values[i][j]
			sum += v
			count++
			if v > stats.Max {
				stats.Max = v
				stats.MaxPair = [2]string{m.Symbols[i], m.Symbols[j]}
			}
			if v < stats.Min {
				stats.Min = v
				stats.MinPair = [2]string{m.Symbols[i], m.Symbols[j]}
			}
		}
	}
	if count > 0 {
		stats.Avg = round4(sum / float64(count))
	} else {
		stats.Max, stats.Min = 0, 0
	}
	return stats
}

func (s *CorrelationService) highPairs(m model.CorrelationMatrix) []model.CorrelatedPair {
	pairs := []model.CorrelatedPair{}
	for i := range m.Symbols {
		for j := i + 1; j < len(m.Symbols); j++ {
			if math.Abs(m.Values[i][j]) >= s.threshold {
				pairs = append(pairs, model.CorrelatedPair{
					SymbolA:     m.Symbols[i],
					SymbolB:     m.Symbols[j],
					Correlation: m.Values[i][j],
				})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Correlation) > math.Abs(pairs[b].Correlation)
	})
	return pairs
}

// buildClusters groups symbols by a single greedy pass over the matrix: each
// unvisited symbol seeds a cluster that absorbs every remaining symbol whose
// correlation with the seed has magnitude at or above the threshold. A
// strongly inverse pair co-moves just as much as a parallel one, so the sign
// is ignored. Singletons are not reported as clusters.
func buildClusters(m model.CorrelationMatrix, threshold float64) []model.Cluster {
	n := len(m.Symbols)
	visited := make([]bool, n)

	clusters := []model.Cluster{}
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []string{m.Symbols[i]}
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if math.Abs(m.Values[i][j]) >= threshold {
				visited[j] = true
				members = append(members, m.Symbols[j])
			}
		}
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		clusters = append(clusters, model.Cluster{
			Symbols:        members,
			AvgCorrelation: clusterAvgCorrelation(m, members),
		})
	}
	sort.Slice(clusters, func(a, b int) bool { return clusters[a].Symbols[0] < clusters[b].Symbols[0] })
	return clusters
}

func clusterAvgCorrelation(m model.CorrelationMatrix, symbols []string) float64 {
	var sum float64
	var count int
	for i := range symbols {
		for j := i + 1; j < len(symbols); j++ {
			if v, ok := m.At(symbols[i], symbols[j]); ok {
				sum += v
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return round4(sum / float64(count))
}

// EffectiveN is the holding count adjusted for concentration and co-movement:
// the inverse Herfindahl index of the weights scaled down by the
// weight-averaged pairwise correlation magnitude, floored at 1. An equal-weight
// portfolio of uncorrelated holdings has EffectiveN equal to its size.
func EffectiveN(weights []model.PortfolioWeight, matrix model.CorrelationMatrix) float64 {
	var hhi float64
	for _, w := range weights {
		hhi += w.Weight * w.Weight
	}
	if hhi == 0 {
		return 1
	}

	var weightedSum, totalWeight float64
	for i := range weights {
		for j := i + 1; j < len(weights); j++ {
			corr, ok := matrix.At(weights[i].Symbol, weights[j].Symbol)
			if !ok {
				continue
			}
			pairWeight := weights[i].Weight * weights[j].Weight
			weightedSum += pairWeight * math.Abs(corr)
			totalWeight += pairWeight
		}
	}
	weightedAvg := 0.0
	if totalWeight > 0 {
		weightedAvg = weightedSum / totalWeight
	}

	effective := (1 / hhi) * (1 - weightedAvg)
	if effective < 1 {
		return 1
	}
	return effective
}

// ScoreDiversification produces the 0-100 composite score from four
// sub-scores: holding count (max 25), average pairwise correlation (max 35),
// effective-N ratio (max 20), and sector diversity (max 20). Sector data is
// optional; without it the sector sub-score sits at the midpoint. An empty
// portfolio scores zero with a "no holdings" rating.
func ScoreDiversification(weights []model.PortfolioWeight, matrix model.CorrelationMatrix, sectors map[string]string) model.DiversificationScore {
	holdings := len(weights)
	if holdings == 0 {
		return model.DiversificationScore{Rating: "no holdings"}
	}

	score := model.DiversificationScore{}

	switch {
	case holdings >= 15:
		score.CountScore = 25
	case holdings >= 10:
		score.CountScore = 20
	case holdings >= 5:
		score.CountScore = 15
	case holdings >= 3:
		score.CountScore = 10
	default:
		score.CountScore = 5
	}

	avgCorrelation := matrixStats(matrix).Avg
	switch {
	case avgCorrelation < 0.4:
		score.CorrelationScore = 35
	case avgCorrelation < 0.6:
		score.CorrelationScore = 25
	case avgCorrelation < 0.8:
		score.CorrelationScore = 15
	default:
		score.CorrelationScore = 5
	}

	score.EffectiveN = round4(EffectiveN(weights, matrix))
	effectiveRatio := score.EffectiveN / float64(holdings)
	switch {
	case effectiveRatio >= 0.75:
		score.EffectiveNScore = 20
	case effectiveRatio >= 0.5:
		score.EffectiveNScore = 15
	case effectiveRatio >= 0.25:
		score.EffectiveNScore = 10
	default:
		score.EffectiveNScore = 5
	}

	sectorCount := 0
	if len(sectors) > 0 {
		seen := make(map[string]struct{})
		for _, w := range weights {
			if sector, ok := sectors[w.Symbol]; ok && sector != "" {
				seen[sector] = struct{}{}
			}
		}
		sectorCount = len(seen)
	}
	switch {
	case len(sectors) == 0:
		score.SectorScore = 10
	case sectorCount >= 5:
		score.SectorScore = 20
	case sectorCount >= 3:
		score.SectorScore = 15
	case sectorCount == 2:
		score.SectorScore = 10
	default:
		score.SectorScore = 5
	}

	if holdings < 5 {
		score.Recommendations = append(score.Recommendations,
			"Fewer than 5 holdings; adding positions would reduce single-name risk.")
	}
	if avgCorrelation > 0.6 {
		score.Recommendations = append(score.Recommendations,
			"Holdings are highly correlated; consider assets that move independently.")
	}
	if effectiveRatio < 0.5 {
		score.Recommendations = append(score.Recommendations,
			"Position weights are concentrated; rebalancing would raise the effective holding count.")
	}
	if len(sectors) > 0 && sectorCount < 3 {
		score.Recommendations = append(score.Recommendations,
			"Holdings span fewer than 3 sectors; broaden sector exposure.")
	}

	score.Total = score.CountScore + score.CorrelationScore + score.EffectiveNScore + score.SectorScore
	switch {
	case score.Total >= 80:
		score.Rating = "excellent"
	case score.Total >= 60:
		score.Rating = "good"
	case score.Total >= 40:
		score.Rating = "fair"
	default:
		score.Rating = "poor"
	}
	return score
}
