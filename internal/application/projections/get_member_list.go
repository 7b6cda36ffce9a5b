package projections

import (
	"context"
	"slices"
	"time"

	"studio/internal/application/listutil"
	"studio/internal/domain/display"
	domainMember "studio/internal/domain/member"
)

// Sort columns accepted by the member list.
const (
	MemberSortName    = "name"
	MemberSortCreated = "createdAt"
)

// MemberSortColumns lists the accepted sort keys.
var MemberSortColumns = []string{MemberSortName, MemberSortCreated}

// GetMemberListQuery carries query parameters.
type GetMemberListQuery struct {
	listutil.ListParams
	Today time.Time // evaluation day for the minor flag
}

// MemberRow is one line of the member list.
type MemberRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsMinor   bool      `json:"isMinor"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members []MemberRow       `json:"members"`
	Page    listutil.PageInfo `json:"page"`
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore MemberStore
}

// QueryGetMemberList searches, sorts and pages the member registry.
// PRE: Valid query parameters
// POST: Rows match Search on name, surname, email or phone digits
// INVARIANT: Name order follows the studio locale's collation
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return GetMemberListResult{}, err
	}

	matched := make([]domainMember.Member, 0, len(members))
	for _, m := range members {
		if m.Matches(query.Search) {
			matched = append(matched, m)
		}
	}

	if query.Sort == MemberSortCreated {
		slices.SortStableFunc(matched, func(a, b domainMember.Member) int {
			return query.SortParams.Apply(a.CreatedAt.Compare(b.CreatedAt))
		})
	} else {
		sortByName(matched, fullName, memberID)
		if query.Descending() {
			slices.Reverse(matched)
		}
	}

	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}
	page, info := listutil.Paginate(matched, query.PageParams)
	rows := make([]MemberRow, 0, len(page))
	for _, m := range page {
		rows = append(rows, MemberRow{
			ID:        m.ID,
			Name:      m.Name,
			Surname:   m.Surname,
			FullName:  m.FullName(),
			Email:     m.Email,
			Phone:     display.FormatPhone(m.Phone),
			IsMinor:   m.IsMinor(today),
			CreatedAt: m.CreatedAt,
		})
	}
	return GetMemberListResult{Members: rows, Page: info}, nil
}

func fullName(m domainMember.Member) string { return m.FullName() }

func memberID(m domainMember.Member) string { return m.ID }
