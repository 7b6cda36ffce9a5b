package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/caldate"
	"studio/internal/domain/member"
)

// ImportMembersInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream with a header row
type ImportMembersInput struct {
	Reader     io.Reader
	ActorEmail string
	DryRun     bool
	UpdateMode bool // update members matched by email and full name instead of skipping them
}

// ImportMembersResult holds aggregate counts and per-row errors from an import run.
type ImportMembersResult struct {
	Total   int                     `json:"total"`
	Created int                     `json:"created"`
	Updated int                     `json:"updated"`
	Skipped int                     `json:"skipped"`
	Errors  []ImportMembersRowError `json:"errors"`
	DryRun  bool                    `json:"dryRun"`
	Unknown []string                `json:"unknownColumns,omitempty"`
}

// ImportMembersRowError describes why a single CSV row was rejected.
type ImportMembersRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// MemberImportStore is what ImportMembers needs from the member store.
type MemberImportStore interface {
	Save(ctx context.Context, m member.Member) error
	List(ctx context.Context) ([]member.Member, error)
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	Tx          Transactor
	MemberStore MemberImportStore
	Now         func() time.Time
}

var importColumns = map[string]bool{
	"NAME": true, "SURNAME": true, "EMAIL": true, "PHONE": true,
	"BIRTHDATE": true, "PARENTNAME": true, "PARENTPHONE": true, "NOTES": true,
}

// ExecuteImportMembers parses a CSV stream and creates or updates members.
// Rows go through the same checks as a single registration; a rejected row is
// reported and skipped without stopping the import.
// PRE: header contains NAME, SURNAME and EMAIL
// POST: All accepted rows are written in one transaction; DryRun writes nothing
// INVARIANT: Existing members are never deleted and keep their IDs
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	now := nowOr(deps.Now)

	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ImportMembersResult{}, invalid(errors.New("csv is empty"))
	}
	if err != nil {
		return ImportMembersResult{}, invalid(fmt.Errorf("read csv header: %w", err))
	}

	colIdx := make(map[string]int, len(header))
	result := ImportMembersResult{DryRun: input.DryRun, Errors: []ImportMembersRowError{}}
	for i, h := range header {
		key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")), "_", ""))
		colIdx[key] = i
		if !importColumns[key] {
			result.Unknown = append(result.Unknown, h)
		}
	}
	for _, col := range []string{"NAME", "SURNAME", "EMAIL"} {
		if _, ok := colIdx[col]; !ok {
			return ImportMembersResult{}, invalid(fmt.Errorf("csv missing required column: %s", col))
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	existing, err := deps.MemberStore.List(ctx)
	if err != nil {
		return ImportMembersResult{}, fmt.Errorf("list members: %w", err)
	}
	byKey := make(map[string]member.Member, len(existing))
	for _, m := range existing {
		byKey[importKey(m)] = m
	}

	var pending []member.Member
	rowNum := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Total++
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Total++

		in := MemberInput{
			Name:        getCol(row, "NAME"),
			Surname:     getCol(row, "SURNAME"),
			Email:       getCol(row, "EMAIL"),
			Phone:       getCol(row, "PHONE"),
			ParentName:  getCol(row, "PARENTNAME"),
			ParentPhone: getCol(row, "PARENTPHONE"),
			Notes:       getCol(row, "NOTES"),
		}
		if raw := getCol(row, "BIRTHDATE"); raw != "" {
			b, err := parseImportDate(raw)
			if err != nil {
				result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "invalid birth date: " + raw})
				continue
			}
			in.BirthDate = &b
		}

		var m member.Member
		in.apply(&m)
		m.Normalize(now)
		if err := m.Validate(now); err != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		key := importKey(m)
		if prev, ok := byKey[key]; ok {
			if !input.UpdateMode {
				result.Skipped++
				continue
			}
			m.ID = prev.ID
			m.CreatedAt = prev.CreatedAt
			stamp := caldate.Stamp(now)
			m.UpdatedAt = &stamp
			result.Updated++
		} else {
			m.ID = generateID()
			m.CreatedAt = caldate.Stamp(now)
			result.Created++
		}
		byKey[key] = m
		pending = append(pending, m)
	}

	if !input.DryRun && len(pending) > 0 {
		err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
			for _, m := range pending {
				if err := deps.MemberStore.Save(ctx, m); err != nil {
					return fmt.Errorf("save member %s: %w", m.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return ImportMembersResult{}, err
		}
	}

	slog.Info("member_event", "event", "members_imported",
		"actor", input.ActorEmail,
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// importKey identifies a member across imports. Email alone is not unique:
// siblings often share a parent's address.
func importKey(m member.Member) string {
	return strings.ToLower(m.Email) + "|" + strings.ToLower(m.FullName())
}

// parseImportDate accepts ISO dates and the dd.mm.yyyy form spreadsheets export.
func parseImportDate(s string) (time.Time, error) {
	if t, err := caldate.Parse(s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"02.01.2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
