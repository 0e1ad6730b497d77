package advisor

import (
	"strings"
)

// FAQEntry is one row of the offline answer table.
type FAQEntry struct {
	Topic    string
	Keywords []string
	Answer   string
}

const fallbackNote = "⚠️ AI 서비스가 일시적으로 연결되지 않아 기본 정보를 제공했습니다."

var defaultFAQ = []FAQEntry{
	{
		Topic:    "disease",
		Keywords: []string{"토마토", "잎마름병", "병해"},
		Answer:   "토마토 잎마름병은 습도가 높을 때 발생하기 쉽습니다. 구리계 살균제를 7-10일 간격으로 살포하고, 통풍을 개선해주세요. 물주기는 아침 시간대에 하는 것이 좋습니다.",
	},
	{
		Topic:    "prices",
		Keywords: []string{"시세", "가격", "농산물"},
		Answer:   "실시간 농산물 시세는 왼쪽 패널에서 확인하실 수 있습니다. 고추, 마늘, 양파 등 주요 농산물의 가격 동향을 실시간으로 모니터링할 수 있어요.",
	},
	{
		Topic:    "watering",
		Keywords: []string{"물", "물주기", "관수"},
		Answer:   "작물별 물 관리 방법이 다릅니다. 일반적으로 아침 시간대(오전 6-9시)에 주는 것이 좋고, 토양 표면이 마를 때 충분히 주세요. 과습은 병해의 원인이 됩니다.",
	},
	{
		Topic:    "fertilizer",
		Keywords: []string{"비료", "영양", "거름"},
		Answer:   "작물 생육 단계별로 필요한 비료가 다릅니다. 질소(N)는 잎 생장에, 인산(P)은 뿌리와 꽃에, 칼륨(K)은 과실 발육에 중요합니다. 토양 검사를 통해 적정량을 시비하세요.",
	},
	{
		Topic:    "weather",
		Keywords: []string{"날씨", "기상", "온도"},
		Answer:   "현재 날씨 정보는 오른쪽 패널에서 확인하실 수 있습니다. 급격한 온도 변화나 습도 변화는 작물에 스트레스를 줄 수 있으니 주의 깊게 관찰해주세요.",
	},
}

const (
	greetingReply = "안녕하세요! 농업에 관한 어떤 것이든 도움드릴 수 있습니다. 작물 진단, 재배 방법, 병해충 방제 등 궁금한 점을 말씀해주세요.\n\n⚠️ AI 서비스 연결을 확인 중입니다."

	helpReply = "다음과 같은 분야에서 도움을 드릴 수 있습니다:\n\n🌱 작물 재배 방법\n🐛 병해충 진단 및 방제\n💰 농산물 시세 정보\n💧 물 관리 방법\n🌡️ 날씨와 농업의 관계\n\n구체적인 질문을 해주시면 더 자세한 답변을 드릴게요!"

	apologyReply = "죄송합니다. AI 서비스에 일시적으로 연결할 수 없습니다. 기본 정보를 제공해드리겠습니다.\n\n📞 농업 관련 전문 상담:\n• 농촌진흥청: 1588-9999\n• 지역 농업기술센터 문의\n• 농약안전정보시스템: psis.go.kr"
)

var (
	greetingKeywords = []string{"안녕", "처음"}
	helpKeywords     = []string{"도움", "뭐"}
)

// FAQResponder answers without the network. It is deterministic and never fails.
type FAQResponder struct {
	entries []FAQEntry
}

func NewFAQResponder() *FAQResponder {
	return &FAQResponder{entries: defaultFAQ}
}

// Match returns the first entry, in table order, with any keyword contained in msg.
func (f *FAQResponder) Match(msg string) (FAQEntry, bool) {
	lower := strings.ToLower(msg)
	for _, e := range f.entries {
		if containsAny(lower, e.Keywords) {
			return e, true
		}
	}
	return FAQEntry{}, false
}

func (f *FAQResponder) Respond(msg string) string {
	if e, ok := f.Match(msg); ok {
		return "🔍 기본 정보: " + e.Answer + "\n\n" + fallbackNote
	}

	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, greetingKeywords):
		return greetingReply
	case containsAny(lower, helpKeywords):
		return helpReply
	}
	return apologyReply
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
