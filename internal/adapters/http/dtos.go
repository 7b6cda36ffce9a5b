package web

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"studio/internal/application/orchestrators"
	"studio/internal/domain/caldate"
)

// validate is shared; validator caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type validatable interface {
	Ok() (map[string]string, bool)
}

// validationFields turns validator errors into a json-field to rule map.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return fields
}

func check(dto any) (map[string]string, bool) {
	if err := validate.Struct(dto); err != nil {
		return validationFields(err), false
	}
	return nil, true
}

type loginDTO struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

func (d *loginDTO) Ok() (map[string]string, bool) {
	d.Email = strings.TrimSpace(d.Email)
	return check(d)
}

type passwordDTO struct {
	CurrentPassword string `json:"currentPassword" validate:"max=256"`
	NewPassword     string `json:"newPassword" validate:"required,min=12,max=256"`
}

func (d *passwordDTO) Ok() (map[string]string, bool) { return check(d) }

type memberDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Surname     string `json:"surname" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"max=32"`
	BirthDate   string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	ParentName  string `json:"parentName" validate:"max=100"`
	ParentPhone string `json:"parentPhone" validate:"max=32"`
	Notes       string `json:"notes" validate:"max=2000"`
}

func (d *memberDTO) Ok() (map[string]string, bool) {
	d.Name = strings.TrimSpace(d.Name)
	d.Surname = strings.TrimSpace(d.Surname)
	d.Email = strings.TrimSpace(d.Email)
	return check(d)
}

func (d *memberDTO) input() orchestrators.MemberInput {
	in := orchestrators.MemberInput{
		Name:        d.Name,
		Surname:     d.Surname,
		Email:       d.Email,
		Phone:       d.Phone,
		ParentName:  d.ParentName,
		ParentPhone: d.ParentPhone,
		Notes:       d.Notes,
	}
	if d.BirthDate != "" {
		if t, err := caldate.Parse(d.BirthDate); err == nil {
			in.BirthDate = &t
		}
	}
	return in
}

type assignDTO struct {
	PackageID string `json:"packageId" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

func (d *assignDTO) Ok() (map[string]string, bool) { return check(d) }

type paymentDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Notes  string          `json:"notes" validate:"max=500"`
}

func (d *paymentDTO) Ok() (map[string]string, bool) {
	fields, ok := check(d)
	if !d.Amount.IsPositive() {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields["amount"] = "gt=0"
		ok = false
	}
	return fields, ok
}

type packageDTO struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Description  string          `json:"description" validate:"max=1000"`
	Price        decimal.Decimal `json:"price"`
	LessonCount  *int            `json:"lessonCount" validate:"omitempty,min=0"`
	DurationDays *int            `json:"durationDays" validate:"omitempty,min=0"`
	IsActive     *bool           `json:"isActive"`
}

func (d *packageDTO) Ok() (map[string]string, bool) {
	d.Name = strings.TrimSpace(d.Name)
	return check(d)
}

func (d *packageDTO) input(id string) orchestrators.SavePackageInput {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return orchestrators.SavePackageInput{
		ID:           id,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		LessonCount:  d.LessonCount,
		DurationDays: d.DurationDays,
		IsActive:     active,
	}
}

type branchDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=32"`
}

func (d *branchDTO) Ok() (map[string]string, bool) { return check(d) }

func (d *branchDTO) input(id string) orchestrators.SaveBranchInput {
	return orchestrators.SaveBranchInput{ID: id, Name: d.Name, Description: d.Description, Address: d.Address, Phone: d.Phone}
}

type attendanceDTO struct {
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Slot      string   `json:"slot" validate:"required,oneof=morning evening"`
	MemberIDs []string `json:"memberIds" validate:"dive,required"`
}

func (d *attendanceDTO) Ok() (map[string]string, bool) { return check(d) }

// mustDate parses a date that already passed the datetime=2006-01-02 rule.
func mustDate(s string) time.Time {
	t, _ := caldate.Parse(s)
	return t
}
