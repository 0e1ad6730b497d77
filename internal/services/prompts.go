package services

import (
	"strings"
)

const (
	defaultChatContext = "일반 농업 상담"
	noSymptomsMarker   = "사용자가 제공한 정보 없음"
)

const chatPersona = `당신은 전문 농업 AI 어시스턴트입니다. 다음 지침을 따라 답변해주세요:

1. 한국의 농업 환경과 기후를 고려한 답변 제공
2. 작물별 재배 방법, 병해충 방제, 시비 방법 등 실용적인 정보 제공
3. 농약 사용 시 안전 기준과 잔류 허용 기준 준수 강조
4. 친환경 농업 방법 우선 제안
5. 전문적이지만 농부가 이해하기 쉬운 용어로 설명
6. 필요시 관련 기관(농촌진흥청, 농업기술센터 등) 문의 권장`

// diagnosisSections is the fixed answer layout requested from the model.
var diagnosisSections = []struct{ heading, hint string }{
	{"## 🔍 진단 결과", "[가능성이 높은 문제점들]"},
	{"## 🌡️ 원인 분석", "[주요 원인들과 환경 요인]"},
	{"## 💊 해결 방법", "[단계별 처방 및 방제 방법]"},
	{"## ⚠️ 주의사항", "[안전 수칙 및 예방책]"},
	{"## 📞 추가 도움", "[필요시 전문기관 연락처]"},
}

func buildChatPrompt(message, context string) string {
	if strings.TrimSpace(context) == "" {
		context = defaultChatContext
	}

	var b strings.Builder
	b.WriteString(chatPersona)
	b.WriteString("\n\n현재 컨텍스트: ")
	b.WriteString(context)
	b.WriteString("\n\n사용자 질문: ")
	b.WriteString(message)
	return b.String()
}

func buildDiagnosisPrompt(crop, purpose, symptoms string) string {
	if strings.TrimSpace(symptoms) == "" {
		symptoms = noSymptomsMarker
	}

	var b strings.Builder
	b.WriteString("당신은 " + crop + " 전문 진단 AI입니다.\n\n")
	b.WriteString("진단 목적: " + purpose + "\n")
	b.WriteString("증상 설명: " + symptoms + "\n\n")
	b.WriteString("다음 형식으로 답변해주세요:\n\n")
	for _, s := range diagnosisSections {
		b.WriteString(s.heading + "\n")
		b.WriteString(s.hint + "\n\n")
	}
	b.WriteString("한국 농업 환경에 맞는 실용적이고 구체적인 답변을 제공해주세요.")
	return b.String()
}
