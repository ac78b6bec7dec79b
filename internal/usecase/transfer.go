package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
)

// memberRow is the portable form of a member used by JSON export and import.
// Parent links refer to ids of the same file.
type memberRow struct {
	ID          int64            `json:"id"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Patronymic  string           `json:"patronymic"`
	Gender      familyone.Gender `json:"gender"`
	BirthDate   string           `json:"birthDate"`
	Role        familyone.Role   `json:"role"`
	PhoneNumber string           `json:"phoneNumber"`
	FatherID    *int64           `json:"fatherId"`
	MotherID    *int64           `json:"motherId"`
	WeddingDate string           `json:"weddingDate"`
	MaidenName  string           `json:"maidenName"`
}

func (r memberRow) identity() domain.Identity {
	return domain.Identity{
		LastName:   r.LastName,
		FirstName:  r.FirstName,
		Patronymic: r.Patronymic,
		BirthDate:  r.BirthDate,
		Role:       r.Role,
	}
}

func (r memberRow) member() domain.FamilyMember {
	return domain.FamilyMember{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Patronymic:  r.Patronymic,
		Gender:      r.Gender,
		BirthDate:   r.BirthDate,
		Role:        r.Role,
		PhoneNumber: r.PhoneNumber,
		WeddingDate: r.WeddingDate,
		MaidenName:  r.MaidenName,
	}
}

func normalizeRow(r memberRow) memberRow {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Patronymic = strings.TrimSpace(r.Patronymic)
	r.Gender = familyone.ParseGender(string(r.Gender))
	r.BirthDate = familyone.NormalizeDate(r.BirthDate)
	r.Role = familyone.RoleOrOther(string(r.Role))
	r.WeddingDate = familyone.NormalizeDate(r.WeddingDate)
	return r
}

// ExportJSON writes every member as an indented JSON array without photos.
func (uc *MemberUsecase) ExportJSON(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Member.Usecase.ExportJSON")
	defer span.End()

	members, err := uc.members.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list members")
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberRow{
			ID:          m.ID,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Patronymic:  m.Patronymic,
			Gender:      m.Gender,
			BirthDate:   m.BirthDate,
			Role:        m.Role,
			PhoneNumber: m.PhoneNumber,
			FatherID:    m.FatherID,
			MotherID:    m.MotherID,
			WeddingDate: m.WeddingDate,
			MaidenName:  m.MaidenName,
		})
	}

	compact, err := marshalCanonical(rows)
	if err != nil {
		return nil, errors.Wrap(err, "encode members")
	}
	return indent(compact), nil
}

var csvHeader = []string{
	"ID", "Имя", "Фамилия", "Отчество", "Пол", "Дата рождения",
	"Телефон", "Роль", "Дата свадьбы", "Девичья фамилия",
}

// ExportCSV writes a spreadsheet friendly table with every field quoted and
// roles replaced by their labels.
func (uc *MemberUsecase) ExportCSV(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Member.Usecase.ExportCSV")
	defer span.End()

	members, err := uc.members.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list members")
	}

	lines := make([]string, 0, len(members)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, m := range members {
		fields := []string{
			strconv.FormatInt(m.ID, 10),
			m.FirstName,
			m.LastName,
			m.Patronymic,
			string(m.Gender),
			m.BirthDate,
			m.PhoneNumber,
			m.Role.Label(),
			m.WeddingDate,
			m.MaidenName,
		}
		for i, f := range fields {
			fields[i] = quoteCSV(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ImportJSON loads members from an ExportJSON document. In merge mode members whose
// identity is already present are skipped; replace mode clears the tree first.
func (uc *MemberUsecase) ImportJSON(ctx context.Context, data []byte, mode domain.ImportMode) (domain.ImportReport, error) {
	ctx, span := tracer.Start(ctx, "Member.Usecase.ImportJSON")
	defer span.End()

	var report domain.ImportReport

	if mode == "" {
		mode = domain.ImportModeMerge
	}
	if mode != domain.ImportModeMerge && mode != domain.ImportModeReplace {
		return report, domain.InvalidInputError{Reason: fmt.Sprintf("unknown import mode %q", mode)}
	}

	var rows *[]memberRow
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&rows); err != nil {
		return report, domain.InvalidInputError{Reason: "cannot parse members: " + err.Error()}
	}
	if rows == nil {
		return report, domain.InvalidInputError{Reason: "members must be an array"}
	}

	var current []domain.FamilyMember
	if mode == domain.ImportModeReplace {
		if err := uc.members.DeleteAll(ctx); err != nil {
			span.RecordError(err)
			return report, domain.StoreWriteError{Op: "clear members", Err: err}
		}
	} else {
		var err error
		current, err = uc.members.List(ctx)
		if err != nil {
			span.RecordError(err)
			return report, errors.Wrap(err, "list members")
		}
	}

	index := make(map[string]int64, len(current))
	for _, m := range current {
		index[domain.Fingerprint(m.Identity())] = m.ID
	}

	keyToID := make(map[string]int64, len(*rows))
	pending := make([]pendingRelation, 0, len(*rows))
	for _, raw := range *rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row := normalizeRow(raw)
		fp := domain.Fingerprint(row.identity())

		localID, known := index[fp]
		if known {
			report.Skipped++
		} else {
			id, err := uc.members.Upsert(ctx, row.member())
			if err != nil {
				span.RecordError(err)
				return report, domain.StoreWriteError{Op: "insert member", Err: err}
			}
			localID = id
			index[fp] = id
			report.Inserted++
		}
		if row.ID != 0 {
			keyToID[domain.MemberKey(row.ID)] = localID
		}

		pending = append(pending, pendingRelation{
			localID:   localID,
			fatherKey: rowParentKey(row.FatherID),
			motherKey: rowParentKey(row.MotherID),
		})
	}

	updated, err := relinkParents(ctx, uc.members, pending, keyToID)
	if err != nil {
		span.RecordError(err)
		return report, err
	}
	report.RelationsUpdated = updated

	logger.Infof("imported members (%s): %+v", mode, report)
	return report, nil
}

func rowParentKey(id *int64) *string {
	if id == nil {
		return nil
	}
	key := domain.MemberKey(*id)
	return &key
}
