package catalog

import (
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

// Static serves the built-in mock datasets. It implements every provider in this package.
type Static struct {
	crops   []Crop
	prices  []PriceRecord
	alerts  []PestAlert
	experts []Expert
}

func NewStatic() *Static {
	return &Static{
		crops:   defaultCrops,
		prices:  defaultPrices,
		alerts:  defaultAlerts,
		experts: defaultExperts,
	}
}

func (s *Static) Crops() iter.Seq[Crop] {
	return slices.Values(s.crops)
}

// LookupCrop resolves a crop by id (case-insensitive) or Korean name.
func (s *Static) LookupCrop(v string) (Crop, bool) {
	v = strings.TrimSpace(v)
	for _, c := range s.crops {
		if strings.EqualFold(c.ID, v) || c.Name == v {
			return c, true
		}
	}
	return Crop{}, false
}

func (s *Static) Prices(ctx context.Context, q MarketQuery) iter.Seq[PriceRecord] {
	return filtered(ctx, s.prices, func(p PriceRecord) bool {
		return q.Crop == "" || p.Crop == q.Crop
	})
}

func (s *Static) Alerts(ctx context.Context, q AlertQuery) iter.Seq[PestAlert] {
	return filtered(ctx, s.alerts, func(a PestAlert) bool {
		if q.Crop != "" && a.Crop != q.Crop {
			return false
		}
		return q.MinSeverity == 0 || a.Severity >= q.MinSeverity
	})
}

func (s *Static) Experts(ctx context.Context, q ExpertQuery) iter.Seq[Expert] {
	return filtered(ctx, s.experts, func(e Expert) bool {
		if q.Specialty == "" {
			return true
		}
		return slices.ContainsFunc(e.Specialties, func(sp string) bool {
			return strings.Contains(sp, q.Specialty)
		})
	})
}

var defaultCrops = []Crop{
	{ID: "tomato", Name: "토마토", Emoji: "🍅", Conditions: []string{"잎마름병", "역병", "갈색무늬병", "바이러스병"}},
	{ID: "cucumber", Name: "오이", Emoji: "🥒", Conditions: []string{"노균병", "흰가루병", "탄저병", "세균성점무늬병"}},
	{ID: "pepper", Name: "고추", Emoji: "🌶️", Conditions: []string{"탄저병", "역병", "세균성점무늬병", "바이러스병"}},
	{ID: "cabbage", Name: "배추", Emoji: "🥬", Conditions: []string{"무름병", "노균병", "뿌리혹병", "바이러스병"}},
	{ID: "garlic", Name: "마늘", Emoji: "🧄", Conditions: []string{"흑색썩음병", "잎마름병", "노균병", "바이러스병"}},
	{ID: "onion", Name: "양파", Emoji: "🧅", Conditions: []string{"노균병", "흑색썩음병", "세균성썩음병", "잎마름병"}},
	{ID: "corn", Name: "옥수수", Emoji: "🌽", Conditions: []string{"깜부기병", "잎마름병", "조명나방", "진딧물"}},
	{ID: "carrot", Name: "당근", Emoji: "🥕", Conditions: []string{"검은무늬병", "뿌리썩음병", "진딧물", "선충"}},
}

var defaultPrices = []PriceRecord{
	{
		Crop: "고추", Emoji: "🌶️", Variety: "건고추 상품", Price: 25500, Unit: "kg",
		Change: 150, ChangePercent: 0.59, Market: "대구북부시장", Grade: "상품",
		ForecastTrend: "up", SeasonalityScore: 85, VolatilityIndex: 72,
		Trend: []PricePoint{
			{"09-06", 24800, 450}, {"09-07", 24900, 420}, {"09-08", 25100, 380},
			{"09-09", 25000, 510}, {"09-10", 25200, 490}, {"09-11", 25300, 460},
			{"09-12", 25500, 430},
		},
	},
	{
		Crop: "마늘", Emoji: "🧄", Variety: "깐마늘(국산)", Price: 8200, Unit: "kg",
		Change: -200, ChangePercent: -2.38, Market: "서울가락시장", Grade: "상품",
		ForecastTrend: "down", SeasonalityScore: 92, VolatilityIndex: 45,
		Trend: []PricePoint{
			{"09-06", 8500, 820}, {"09-07", 8400, 750}, {"09-08", 8300, 690},
			{"09-09", 8250, 710}, {"09-10", 8150, 680}, {"09-11", 8100, 650},
			{"09-12", 8200, 720},
		},
	},
	{
		Crop: "양파", Emoji: "🧅", Variety: "양파 중품", Price: 1800, Unit: "kg",
		Change: 50, ChangePercent: 2.86, Market: "부산엄궁시장", Grade: "중품",
		ForecastTrend: "stable", SeasonalityScore: 68, VolatilityIndex: 38,
		Trend: []PricePoint{
			{"09-06", 1750, 1200}, {"09-07", 1760, 1150}, {"09-08", 1770, 1300},
			{"09-09", 1780, 1250}, {"09-10", 1790, 1180}, {"09-11", 1785, 1220},
			{"09-12", 1800, 1100},
		},
	},
}

var defaultAlerts = []PestAlert{
	{ID: "1", Region: "경기도 안산시", PestType: "토마토 잎마름병", Severity: models.SeverityHigh, Crop: "토마토", ReportedDate: "2024-09-10", AffectedArea: "15헥타르", Lat: 37.32, Lng: 126.83},
	{ID: "2", Region: "충남 천안시", PestType: "배추 무름병", Severity: models.SeverityMedium, Crop: "배추", ReportedDate: "2024-09-09", AffectedArea: "8헥타르", Lat: 36.81, Lng: 127.11},
	{ID: "3", Region: "전북 전주시", PestType: "진딧물", Severity: models.SeverityLow, Crop: "고추", ReportedDate: "2024-09-08", AffectedArea: "3헥타르", Lat: 35.82, Lng: 127.11},
	{ID: "4", Region: "경남 창원시", PestType: "노균병", Severity: models.SeverityCritical, Crop: "오이", ReportedDate: "2024-09-11", AffectedArea: "22헥타르", Lat: 35.23, Lng: 128.68},
	{ID: "5", Region: "강원도 춘천시", PestType: "감자 역병", Severity: models.SeverityHigh, Crop: "감자", ReportedDate: "2024-09-12", AffectedArea: "12헥타르", Lat: 37.87, Lng: 127.73},
	{ID: "6", Region: "경북 구미시", PestType: "총채벌레", Severity: models.SeverityMedium, Crop: "고추", ReportedDate: "2024-09-11", AffectedArea: "6헥타르", Lat: 36.12, Lng: 128.34},
	{ID: "7", Region: "전남 나주시", PestType: "도열병", Severity: models.SeverityCritical, Crop: "벼", ReportedDate: "2024-09-13", AffectedArea: "35헥타르", Lat: 35.01, Lng: 126.71},
	{ID: "8", Region: "제주도 제주시", PestType: "귤응애", Severity: models.SeverityLow, Crop: "감귤", ReportedDate: "2024-09-09", AffectedArea: "4헥타르", Lat: 33.50, Lng: 126.53},
}

var defaultExperts = []Expert{
	{
		ID: "1", Name: "김농업", Title: "수석 연구원", Organization: "경기도 농업기술원", Location: "화성시",
		Phone: "031-229-5851", Specialties: []string{"병해충 방제", "토마토 재배", "유기농업"},
		Rating: 4.8, ExperienceYears: 15, ConsultationCount: 1247, Availability: "available",
		ResponseTime: "평균 2시간", Languages: []string{"한국어", "영어"},
	},
	{
		ID: "2", Name: "이현수", Title: "농업기술지도사", Organization: "수원시 농업기술센터", Location: "수원시",
		Phone: "031-228-2114", Specialties: []string{"배추 재배", "토양 관리", "스마트팜"},
		Rating: 4.9, ExperienceYears: 12, ConsultationCount: 892, Availability: "busy",
		ResponseTime: "평균 4시간", Languages: []string{"한국어"},
	},
	{
		ID: "3", Name: "박영희", Title: "병해충 전문가", Organization: "농촌진흥청", Location: "전주시",
		Phone: "063-238-1234", Specialties: []string{"병해충 진단", "친환경 방제", "연구개발"},
		Rating: 4.7, ExperienceYears: 20, ConsultationCount: 2103, Availability: "available",
		ResponseTime: "평균 1시간", Languages: []string{"한국어", "일본어"},
	},
}
