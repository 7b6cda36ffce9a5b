package orchestrators

import (
	"context"
	"fmt"
	"time"

	"studio/internal/adapters/storage"
	"studio/internal/domain/account"
	"studio/internal/domain/assignment"
	"studio/internal/domain/branch"
	"studio/internal/domain/caldate"
	"studio/internal/domain/catalog"
	"studio/internal/domain/lesson"
	"studio/internal/domain/member"
	"studio/internal/domain/outbox"
	"studio/internal/domain/payment"
)

var fixedTime = time.Date(2024, 6, 14, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}

// passTx runs fn directly; mocks have nothing to roll back.
type passTx struct {
	calls int
}

func (t *passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type mockMemberStore struct {
	members map[string]member.Member
	deleted []string
	saveErr error
}

func newMockMemberStore(ms ...member.Member) *mockMemberStore {
	s := &mockMemberStore{members: make(map[string]member.Member)}
	for _, m := range ms {
		s.members[m.ID] = m
	}
	return s
}

func (s *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return member.Member{}, notFound("member", id)
	}
	return m, nil
}

func (s *mockMemberStore) Save(_ context.Context, m member.Member) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.members[m.ID] = m
	return nil
}

func (s *mockMemberStore) List(_ context.Context) ([]member.Member, error) {
	out := make([]member.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	return out, nil
}

func (s *mockMemberStore) Delete(_ context.Context, id string) error {
	delete(s.members, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type mockPackageStore struct {
	packages map[string]catalog.Package
	deleted  []string
}

func newMockPackageStore(ps ...catalog.Package) *mockPackageStore {
	s := &mockPackageStore{packages: make(map[string]catalog.Package)}
	for _, p := range ps {
		s.packages[p.ID] = p
	}
	return s
}

func (s *mockPackageStore) GetByID(_ context.Context, id string) (catalog.Package, error) {
	p, ok := s.packages[id]
	if !ok {
		return catalog.Package{}, notFound("package", id)
	}
	return p, nil
}

func (s *mockPackageStore) Save(_ context.Context, p catalog.Package) error {
	s.packages[p.ID] = p
	return nil
}

func (s *mockPackageStore) Delete(_ context.Context, id string) error {
	delete(s.packages, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type mockAssignmentStore struct {
	items   map[string]assignment.Assignment
	deleted []string
}

func newMockAssignmentStore(as ...assignment.Assignment) *mockAssignmentStore {
	s := &mockAssignmentStore{items: make(map[string]assignment.Assignment)}
	for _, a := range as {
		s.items[a.ID] = a
	}
	return s
}

func (s *mockAssignmentStore) Get(_ context.Context, memberID, id string) (assignment.Assignment, error) {
	a, ok := s.items[id]
	if !ok || a.MemberID != memberID {
		return assignment.Assignment{}, notFound("assignment", id)
	}
	return a, nil
}

func (s *mockAssignmentStore) Save(_ context.Context, a assignment.Assignment) error {
	s.items[a.ID] = a
	return nil
}

func (s *mockAssignmentStore) Delete(_ context.Context, _, id string) error {
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *mockAssignmentStore) DeleteByMember(_ context.Context, memberID string) (int64, error) {
	var n int64
	for id, a := range s.items {
		if a.MemberID == memberID {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

type mockPaymentStore struct {
	items     map[string]payment.Payment
	deleted   []string
	saveErr   error
	deleteErr error
}

func newMockPaymentStore(ps ...payment.Payment) *mockPaymentStore {
	s := &mockPaymentStore{items: make(map[string]payment.Payment)}
	for _, p := range ps {
		s.items[p.ID] = p
	}
	return s
}

func (s *mockPaymentStore) Get(_ context.Context, memberID, id string) (payment.Payment, error) {
	p, ok := s.items[id]
	if !ok || p.MemberID != memberID {
		return payment.Payment{}, notFound("payment", id)
	}
	return p, nil
}

func (s *mockPaymentStore) Save(_ context.Context, p payment.Payment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items[p.ID] = p
	return nil
}

func (s *mockPaymentStore) Delete(_ context.Context, _, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *mockPaymentStore) DeleteByMember(_ context.Context, memberID string) (int64, error) {
	var n int64
	for id, p := range s.items {
		if p.MemberID == memberID {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

type mockOutboxStore struct {
	entries map[string]outbox.Entry
	order   []string
}

func newMockOutboxStore() *mockOutboxStore {
	return &mockOutboxStore{entries: make(map[string]outbox.Entry)}
}

func (s *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return outbox.Entry{}, notFound("outbox entry", id)
	}
	return e, nil
}

func (s *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	if _, ok := s.entries[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.entries[e.ID] = e
	return nil
}

func (s *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, id := range s.order {
		e := s.entries[id]
		if e.IsTerminal() {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type mockLessonStore struct {
	lessons   map[string]lesson.Lesson
	setCalls  int
	saveCalls int
}

func newMockLessonStore() *mockLessonStore {
	return &mockLessonStore{lessons: make(map[string]lesson.Lesson)}
}

func (s *mockLessonStore) FindBySlot(_ context.Context, d time.Time, slot lesson.Slot) (lesson.Lesson, error) {
	at := lesson.At(d, slot)
	for _, l := range s.lessons {
		if l.Date.Equal(at) && l.TimeSlot == slot {
			return l, nil
		}
	}
	return lesson.Lesson{}, notFound("lesson", lesson.Key(d, slot))
}

func (s *mockLessonStore) Save(_ context.Context, l lesson.Lesson) error {
	s.saveCalls++
	s.lessons[l.ID] = l
	return nil
}

func (s *mockLessonStore) SetMembers(_ context.Context, id string, ids []string, updatedAt time.Time) error {
	s.setCalls++
	l := s.lessons[id]
	l.MemberIDs = ids
	l.UpdatedAt = caldate.Stamp(updatedAt)
	s.lessons[id] = l
	return nil
}

type mockAccountStore struct {
	accounts map[string]account.Account
	saves    int
}

func newMockAccountStore(as ...account.Account) *mockAccountStore {
	s := &mockAccountStore{accounts: make(map[string]account.Account)}
	for _, a := range as {
		s.accounts[a.Email] = a
	}
	return s
}

func (s *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, notFound("account", id)
}

func (s *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := s.accounts[account.NormalizeEmail(email)]
	if !ok {
		return account.Account{}, notFound("account", email)
	}
	return a, nil
}

func (s *mockAccountStore) Save(_ context.Context, a account.Account) error {
	s.saves++
	s.accounts[a.Email] = a
	return nil
}

type mockBranchStore struct {
	branches map[string]branch.Branch
}

func newMockBranchStore() *mockBranchStore {
	return &mockBranchStore{branches: make(map[string]branch.Branch)}
}

func (s *mockBranchStore) GetByID(_ context.Context, id string) (branch.Branch, error) {
	b, ok := s.branches[id]
	if !ok {
		return branch.Branch{}, notFound("branch", id)
	}
	return b, nil
}

func (s *mockBranchStore) Save(_ context.Context, b branch.Branch) error {
	s.branches[b.ID] = b
	return nil
}

func (s *mockBranchStore) Delete(_ context.Context, id string) error {
	delete(s.branches, id)
	return nil
}
