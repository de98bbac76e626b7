package normalizer

import (
	"fmt"
	"strings"

	"bakesight-dashboard/internal/domain"
)

// maxPreviewItems 消息中最多列出的候选商品数
const maxPreviewItems = 3

const adminCallMessage = "키오스크에서 관리자 호출이 접수되었습니다"

var detectionMessages = map[string]string{
	domain.CctvEventViolence:   "폭력 행위가 감지되었습니다",
	domain.CctvEventVandalism:  "기물 파손이 감지되었습니다",
	domain.CctvEventFall:       "낙상 사고가 감지되었습니다",
	domain.CctvEventWheelchair: "휠체어 이용 고객이 방문했습니다",
}

const unknownDetectionMessage = "CCTV 이벤트가 감지되었습니다"

// ReviewMessage review 摘要
// ADMIN_CALL 使用固定文案；有候选商品时列出前 3 个名称（保持原始顺序）
func ReviewMessage(sessionID int64, reason string, candidates []domain.CandidateItem) string {
	if strings.EqualFold(strings.TrimSpace(reason), domain.ReasonAdminCall) {
		return adminCallMessage
	}

	msg := fmt.Sprintf("세션 #%d 검토 필요 (%s)", sessionID, reason)
	if len(candidates) == 0 {
		return msg
	}

	n := len(candidates)
	if n > maxPreviewItems {
		n = maxPreviewItems
	}
	names := make([]string, 0, n)
	for _, c := range candidates[:n] {
		names = append(names, c.DisplayName())
	}
	return fmt.Sprintf("세션 #%d 인식 확인 필요: %s", sessionID, strings.Join(names, ", "))
}

// DetectionMessage CCTV 事件摘要（按事件类型的固定文案）
func DetectionMessage(eventType string) string {
	if msg, ok := detectionMessages[strings.ToUpper(strings.TrimSpace(eventType))]; ok {
		return msg
	}
	return unknownDetectionMessage
}
