package advisor

import (
	"fmt"
	"strings"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type Treatment struct {
	Type         string   `json:"type"`
	Products     []string `json:"products"`
	Application  string   `json:"application"`
	SafetyPeriod string   `json:"safety_period"`
}

// Guidance is the built-in per-purpose report shown when the relay cannot diagnose.
type Guidance struct {
	Model                string          `json:"model"`
	Findings             string          `json:"findings"`
	Confidence           int             `json:"confidence"`
	Severity             models.Severity `json:"severity"`
	Recommendations      []string        `json:"recommendations"`
	EnvironmentalFactors []string        `json:"environmental_factors"`
	Treatments           []Treatment     `json:"treatments"`
}

func localGuidance(crop string, purpose models.DiagnosisPurpose) Guidance {
	switch purpose {
	case models.PurposeDisease:
		findings := crop + " 세균성 점무늬병"
		switch crop {
		case "토마토":
			findings = "토마토 잎마름병 (Alternaria solani)"
		case "배추":
			findings = "배추 무름병 (Erwinia carotovora)"
		}
		return Guidance{
			Model:      crop + " 병해 전문 AI 모델 v2.1",
			Findings:   findings,
			Confidence: 94,
			Severity:   models.SeverityHigh,
			Recommendations: []string{
				"병든 잎과 과실을 즉시 제거하여 소각 처리",
				"습도 조절을 통한 병원균 확산 방지",
				"7-10일 간격으로 방제 약제 살포",
			},
			EnvironmentalFactors: []string{"습도 85% (위험)", "온도 25°C (적정)", "통풍 불량"},
			Treatments: []Treatment{
				{Type: "화학방제", Products: []string{"테부코나졸 수화제", "프로피코나졸 유제"}, Application: "7일 간격 2-3회 살포", SafetyPeriod: "수확 7일 전까지"},
				{Type: "친환경방제", Products: []string{"규조토", "계피 우린 물", "마늘 우린 물"}, Application: "3-5일 간격 살포", SafetyPeriod: "수확 당일까지 가능"},
			},
		}
	case models.PurposePest:
		return Guidance{
			Model:      crop + " 충해 전문 AI 모델 v1.8",
			Findings:   "진딧물 (Aphidoidea) 중도 발생",
			Confidence: 87,
			Severity:   models.SeverityMedium,
			Recommendations: []string{
				"천적 곤충(무당벌레, 거미) 보호",
				"질소 과잉 시비 제한",
				"끈끈이 트랩 설치로 개체수 모니터링",
			},
			EnvironmentalFactors: []string{"온도 22°C (적정)", "습도 60% (적정)", "바람 약함"},
			Treatments: []Treatment{
				{Type: "생물방제", Products: []string{"콜레마니진디봉", "진디혹파리"}, Application: "천적 곤충 방사", SafetyPeriod: "무독성"},
				{Type: "저독성방제", Products: []string{"계피 추출물", "님오일"}, Application: "5일 간격 살포", SafetyPeriod: "수확 당일까지"},
			},
		}
	case models.PurposeMaturity:
		return Guidance{
			Model:      crop + " 성숙도 전문 AI 모델 v3.0",
			Findings:   "수확 적기 도달 (80-85% 성숙)",
			Confidence: 91,
			Severity:   models.SeverityLow,
			Recommendations: []string{
				"3-5일 내 수확 권장",
				"아침 시간대 수확으로 품질 최적화",
				"저온 저장으로 신선도 유지",
			},
			EnvironmentalFactors: []string{"당도 12.5°Brix", "경도 적정", "색도 지수 85%"},
			Treatments: []Treatment{
				{Type: "수확관리", Products: []string{"수확용 가위", "수확 상자"}, Application: "선별적 수확", SafetyPeriod: "즉시 가능"},
			},
		}
	case models.PurposeGrowth:
		return Guidance{
			Model:                crop + " 종합 분석 AI 모델",
			Findings:             "정상 생육 상태",
			Confidence:           89,
			Severity:             models.SeverityLow,
			Recommendations:      []string{"현재 관리 방법 유지", "정기적인 모니터링 계속"},
			EnvironmentalFactors: []string{"전반적으로 양호한 상태"},
		}
	}
	panic(fmt.Sprintf("advisor: invalid DiagnosisPurpose %d", int(purpose)))
}

func severityLabel(s models.Severity) string {
	switch s {
	case models.SeverityLow:
		return "정상"
	case models.SeverityMedium:
		return "주의"
	case models.SeverityHigh, models.SeverityCritical:
		return "긴급"
	}
	return s.String()
}

// Render formats the guidance as plain text for the transcript.
func (g Guidance) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 🔍 진단 결과\n%s (신뢰도 %d%%, %s)\n", g.Findings, g.Confidence, severityLabel(g.Severity))
	fmt.Fprintf(&b, "분석 모델: %s\n", g.Model)

	b.WriteString("\n## 🌡️ 환경 요인\n")
	for _, f := range g.EnvironmentalFactors {
		b.WriteString("• " + f + "\n")
	}

	b.WriteString("\n## 💊 권장 조치\n")
	for _, r := range g.Recommendations {
		b.WriteString("• " + r + "\n")
	}

	if len(g.Treatments) > 0 {
		b.WriteString("\n## 🧪 처방\n")
		for _, t := range g.Treatments {
			fmt.Fprintf(&b, "• %s: %s (%s, %s)\n", t.Type, strings.Join(t.Products, ", "), t.Application, t.SafetyPeriod)
		}
	}

	b.WriteString("\n⚠️ AI 서비스 연결 실패로 기본 진단 정보를 제공합니다.")
	return b.String()
}
