package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studio/internal/domain/caldate"
	"studio/internal/domain/member"
)

// MemberStore defines the member persistence needed by the registry use cases.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// MemberInput carries the editable member fields.
type MemberInput struct {
	Name        string
	Surname     string
	Email       string
	Phone       string
	BirthDate   *time.Time
	ParentName  string
	ParentPhone string
	Notes       string
}

func (in MemberInput) apply(m *member.Member) {
	m.Name = in.Name
	m.Surname = in.Surname
	m.Email = in.Email
	m.Phone = in.Phone
	m.BirthDate = nil
	if in.BirthDate != nil && !in.BirthDate.IsZero() {
		b := caldate.Midnight(*in.BirthDate)
		m.BirthDate = &b
	}
	m.ParentName = in.ParentName
	m.ParentPhone = in.ParentPhone
	m.Notes = in.Notes
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStore
	Now         func() time.Time
}

// ExecuteRegisterMember creates a member.
// PRE: name, surname and email are present; guardian fields present for minors
// POST: Member saved with a generated ID; guardian fields cleared for adults
// INVARIANT: Nothing is written when validation fails
func ExecuteRegisterMember(ctx context.Context, input MemberInput, deps RegisterMemberDeps) (member.Member, error) {
	now := nowOr(deps.Now)

	var m member.Member
	input.apply(&m)
	m.Normalize(now)
	if err := m.Validate(now); err != nil {
		return member.Member{}, invalid(err)
	}
	m.ID = generateID()
	m.CreatedAt = caldate.Stamp(now)

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("save member: %w", err)
	}

	slog.Info("member_event", "event", "member_registered", "member_id", m.ID, "minor", m.IsMinor(now))
	return m, nil
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStore
	Now         func() time.Time
}

// ExecuteUpdateMember replaces the editable fields of an existing member.
// PRE: member exists
// POST: Member saved with UpdatedAt set; CreatedAt unchanged
func ExecuteUpdateMember(ctx context.Context, id string, input MemberInput, deps UpdateMemberDeps) (member.Member, error) {
	now := nowOr(deps.Now)

	before, err := deps.MemberStore.GetByID(ctx, id)
	if err != nil {
		return member.Member{}, err
	}

	m := before
	input.apply(&m)
	m.Normalize(now)
	if err := m.Validate(now); err != nil {
		return member.Member{}, invalid(err)
	}
	updated := caldate.Stamp(now)
	m.UpdatedAt = &updated

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("save member: %w", err)
	}

	slog.Info("member_event", "event", "member_updated", "member_id", m.ID, "changes", changes(before, m))
	return m, nil
}
