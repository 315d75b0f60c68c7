package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NewValidator returns a validator that knows the helpdesk enumerations and reports
// fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	enums := map[string]func(string) bool{
		"ticket_status":   func(s string) bool { return domain.TicketStatus(s).Valid() },
		"ticket_priority": func(s string) bool { return domain.TicketPriority(s).Valid() },
		"branch":          func(s string) bool { return domain.Branch(s).Valid() },
		"service":         func(s string) bool { return domain.Service(s).Valid() },
		"category":        func(s string) bool { return domain.Category(s).Valid() },
		"sub_category":    func(s string) bool { return domain.SubCategory(s).Valid() },
		"network":         func(s string) bool { return domain.Network(s).Valid() },
		"account_role":    func(s string) bool { return domain.Role(s).Valid() },
		"assignee_or_unassigned": func(s string) bool {
			return s == string(domain.AssigneeUnassigned) || domain.Assignee(s).Valid()
		},
	}
	for tag, valid := range enums {
		valid := valid
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
	}
	return v
}

// ValidationDetails maps validator failures to field -> rule.
func ValidationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
