// Package catalog holds the read-only reference data shown next to the chat:
// selectable crops, market prices, regional pest alerts and the expert directory.
package catalog

import (
	"context"
	"iter"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type Crop struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Emoji      string   `json:"emoji"`
	Conditions []string `json:"conditions"`
}

type PricePoint struct {
	Date   string `json:"date"`
	Value  int    `json:"value"`
	Volume int    `json:"volume"`
}

type PriceRecord struct {
	Crop             string       `json:"crop"`
	Emoji            string       `json:"emoji"`
	Variety          string       `json:"variety"`
	Price            int          `json:"price"`
	Unit             string       `json:"unit"`
	Change           int          `json:"change"`
	ChangePercent    float64      `json:"change_percent"`
	Market           string       `json:"market"`
	Grade            string       `json:"grade"`
	ForecastTrend    string       `json:"forecast_trend"`
	SeasonalityScore int          `json:"seasonality_score"`
	VolatilityIndex  int          `json:"volatility_index"`
	Trend            []PricePoint `json:"trend"`
}

type PestAlert struct {
	ID           string          `json:"id"`
	Region       string          `json:"region"`
	PestType     string          `json:"pest_type"`
	Severity     models.Severity `json:"severity"`
	Crop         string          `json:"crop"`
	ReportedDate string          `json:"reported_date"`
	AffectedArea string          `json:"affected_area"`
	Lat          float64         `json:"lat"`
	Lng          float64         `json:"lng"`
}

type Expert struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	Organization      string   `json:"organization"`
	Location          string   `json:"location"`
	Phone             string   `json:"phone"`
	Specialties       []string `json:"specialties"`
	Rating            float64  `json:"rating"`
	ExperienceYears   int      `json:"experience_years"`
	ConsultationCount int      `json:"consultation_count"`
	Availability      string   `json:"availability"`
	ResponseTime      string   `json:"response_time"`
	Languages         []string `json:"languages"`
}

// MarketQuery filters by Korean crop name; empty matches everything.
type MarketQuery struct {
	Crop string
}

// AlertQuery filters by crop name and minimum severity. A zero Severity matches every alert.
type AlertQuery struct {
	Crop        string
	MinSeverity models.Severity
}

type ExpertQuery struct {
	Specialty string
}

type MarketDataProvider interface {
	Prices(ctx context.Context, q MarketQuery) iter.Seq[PriceRecord]
}

type PestAlertProvider interface {
	Alerts(ctx context.Context, q AlertQuery) iter.Seq[PestAlert]
}

type ExpertDirectoryProvider interface {
	Experts(ctx context.Context, q ExpertQuery) iter.Seq[Expert]
}

type CropProvider interface {
	Crops() iter.Seq[Crop]
}

// filtered yields the items accepted by keep, stopping early once ctx is done.
func filtered[T any](ctx context.Context, items []T, keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			if !keep(item) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}
