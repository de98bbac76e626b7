package normalizer

import (
	"strings"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"
)

type classification struct {
	severity models.Severity
	category models.Category
}

var reviewClasses = map[string]classification{
	domain.ReasonAdminCall: {models.SeverityWarning, models.CategorySystem},
	domain.ReasonReview:    {models.SeverityWarning, models.CategoryPayment},
	domain.ReasonUnknown:   {models.SeverityCritical, models.CategoryPayment},
}

var defaultReviewClass = classification{models.SeverityNormal, models.CategoryPayment}

var detectionSeverity = map[string]models.Severity{
	domain.CctvEventViolence:   models.SeverityCritical,
	domain.CctvEventVandalism:  models.SeverityCritical,
	domain.CctvEventFall:       models.SeverityWarning,
	domain.CctvEventWheelchair: models.SeverityNormal,
}

// ClassifyReview reason → (severity, category)，未知 reason 为 normal/payment
func ClassifyReview(reason string) (models.Severity, models.Category) {
	c, ok := reviewClasses[strings.ToUpper(strings.TrimSpace(reason))]
	if !ok {
		c = defaultReviewClass
	}
	return c.severity, c.category
}

// ClassifyDetection event_type → (severity, category)
// 未映射的类型按 warning 处理；只有 VANDALISM 属于 security，其余为 safety
func ClassifyDetection(eventType string) (models.Severity, models.Category) {
	t := strings.ToUpper(strings.TrimSpace(eventType))

	severity, ok := detectionSeverity[t]
	if !ok {
		severity = models.SeverityWarning
	}
	category := models.CategorySafety
	if t == domain.CctvEventVandalism {
		category = models.CategorySecurity
	}
	return severity, category
}
