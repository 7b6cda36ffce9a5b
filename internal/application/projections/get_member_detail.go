package projections

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	lessonstore "studio/internal/adapters/storage/lesson"
	domainAssignment "studio/internal/domain/assignment"
	"studio/internal/domain/display"
	domainMember "studio/internal/domain/member"
	domainPayment "studio/internal/domain/payment"
)

// GetMemberDetailQuery carries query parameters.
type GetMemberDetailQuery struct {
	MemberID string
	Today    time.Time
}

// AssignmentView is an assigned package with its read-time balance.
type AssignmentView struct {
	domainAssignment.Assignment
	domainAssignment.Balance
	Due             decimal.Decimal `json:"outstandingDue"`
	OutstandingText string          `json:"outstandingText"`
	Expired         bool            `json:"expired"`
}

// PaymentView is a payment with display strings.
type PaymentView struct {
	domainPayment.Payment
	AmountText string `json:"amountText"`
	DateText   string `json:"dateText"`
}

// GetMemberDetailResult carries the query result.
type GetMemberDetailResult struct {
	Member      domainMember.Member `json:"member"`
	IsMinor     bool                `json:"isMinor"`
	PhoneText   string              `json:"phoneText,omitempty"`
	NotesHTML   string              `json:"notesHtml,omitempty"`
	Assignments []AssignmentView    `json:"assignments"`
	Payments    []PaymentView       `json:"payments"`
	TotalPaid   decimal.Decimal     `json:"totalPaid"`
	TotalText   string              `json:"totalText"`
}

// GetMemberDetailDeps holds dependencies for GetMemberDetail.
type GetMemberDetailDeps struct {
	MemberStore     MemberStore
	AssignmentStore AssignmentStore
	PaymentStore    PaymentStore
	LessonStore     LessonStore
}

// QueryGetMemberDetail assembles a member with balances and payment history.
// PRE: Valid member ID
// POST: Every assignment carries a balance computed from all lessons the member attended
// INVARIANT: Balances are derived at read time; nothing is written
func QueryGetMemberDetail(ctx context.Context, query GetMemberDetailQuery, deps GetMemberDetailDeps) (GetMemberDetailResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, query.MemberID)
	if err != nil {
		return GetMemberDetailResult{}, err
	}

	assignments, err := deps.AssignmentStore.ListByMember(ctx, m.ID)
	if err != nil {
		return GetMemberDetailResult{}, err
	}
	payments, err := deps.PaymentStore.ListByMember(ctx, m.ID)
	if err != nil {
		return GetMemberDetailResult{}, err
	}
	lessons, err := deps.LessonStore.List(ctx, lessonstore.ListFilter{MemberID: m.ID})
	if err != nil {
		return GetMemberDetailResult{}, err
	}

	attended := make([]time.Time, 0, len(lessons))
	for _, l := range lessons {
		attended = append(attended, l.Date)
	}

	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}

	result := GetMemberDetailResult{
		Member:      m,
		IsMinor:     m.IsMinor(today),
		PhoneText:   display.FormatPhone(m.Phone),
		Assignments: make([]AssignmentView, 0, len(assignments)),
		Payments:    make([]PaymentView, 0, len(payments)),
		TotalPaid:   domainPayment.Total(payments),
	}
	result.TotalText = display.FormatPrice(result.TotalPaid)
	if result.NotesHTML, err = display.NotesHTML(m.Notes); err != nil {
		return GetMemberDetailResult{}, err
	}

	for _, a := range assignments {
		b := domainAssignment.ComputeBalance(a, attended)
		result.Assignments = append(result.Assignments, AssignmentView{
			Assignment:      a,
			Balance:         b,
			Due:             b.OutstandingDue(),
			OutstandingText: display.FormatPrice(b.Outstanding),
			Expired:         a.IsExpired(today),
		})
	}
	for _, p := range payments {
		result.Payments = append(result.Payments, PaymentView{
			Payment:    p,
			AmountText: display.FormatPrice(p.Amount),
			DateText:   display.FormatDateDDMMYY(p.Date),
		})
	}
	return result, nil
}
