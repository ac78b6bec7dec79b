package usecase

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/totegamma/familyone"
	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/imaging"
)

func newMemberFixture(s *memStore, cache HashCache) *MemberUsecase {
	return NewMemberUsecase(memMembers{s}, memPhotos{s}, cache)
}

func TestMemberSaveNormalizes(t *testing.T) {
	s := newMemStore()
	uc := newMemberFixture(s, nil)

	id, err := uc.Save(context.Background(), domain.FamilyMember{
		FirstName: "Пётр", LastName: "Сидоров", BirthDate: "1980-12-31", Gender: "unknown",
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got := s.members[id]
	if got.BirthDate != "31.12.1980" {
		t.Fatalf("expected 31.12.1980 got %s", got.BirthDate)
	}
	if got.Gender != familyone.GenderMale || got.Role != familyone.RoleOther {
		t.Fatalf("expected defaults got %s %s", got.Gender, got.Role)
	}

	_, err = uc.Save(context.Background(), domain.FamilyMember{ID: id, FirstName: "Пётр", FatherID: ptr(id)})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for self parent got %v", err)
	}
}

func TestMemberDeleteRemovesPhotos(t *testing.T) {
	s := newMemStore()
	_, _, son := seedFamily(t, s)
	uc := newMemberFixture(s, nil)

	if err := uc.Delete(context.Background(), son); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	photos, _ := uc.Photos(context.Background(), son)
	if len(photos) != 0 {
		t.Fatalf("expected photos to be removed got %d", len(photos))
	}
	if _, err := uc.Get(context.Background(), son); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestAddPhotoDetectsDuplicates(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()
	id, _ := memMembers{s}.Upsert(ctx, domain.FamilyMember{FirstName: "Анна", LastName: "Ким"})
	cache := newMapHashCache()
	uc := newMemberFixture(s, cache)

	board := checkerboard(t, false)
	result, err := uc.AddPhoto(ctx, AddPhotoInput{MemberID: id, PhotoURI: dataURI(board), IsProfilePhoto: true})
	if err != nil || result != domain.PhotoSaved {
		t.Fatalf("expected saved got %s %v", result, err)
	}
	if s.members[id].PhotoURI != dataURI(board) {
		t.Fatalf("expected profile photo to be set")
	}

	result, _ = uc.AddPhoto(ctx, AddPhotoInput{MemberID: id, PhotoURI: dataURI(board)})
	if result != domain.PhotoDuplicate {
		t.Fatalf("expected exact duplicate got %s", result)
	}

	// same picture, different bytes
	reencoded, err := imaging.Normalize(board, 64, 0.95)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	result, _ = uc.AddPhoto(ctx, AddPhotoInput{MemberID: id, PhotoURI: familyone.ComposeDataURI(reencoded, "image/jpeg")})
	if result != domain.PhotoDuplicate {
		t.Fatalf("expected perceptual duplicate got %s", result)
	}

	result, _ = uc.AddPhoto(ctx, AddPhotoInput{MemberID: id, PhotoURI: dataURI(checkerboard(t, true))})
	if result != domain.PhotoSaved {
		t.Fatalf("expected different picture to be saved got %s", result)
	}
	if len(s.photos) != 2 {
		t.Fatalf("expected 2 photos got %d", len(s.photos))
	}
	if cache.hits == 0 {
		t.Fatalf("expected the hash cache to be consulted")
	}
}

func TestAddPhotoIgnoresCorruptStoredPhotos(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()
	id, _ := memMembers{s}.Upsert(ctx, domain.FamilyMember{FirstName: "Анна", LastName: "Ким"})
	_, _ = memPhotos{s}.Add(ctx, domain.MemberPhoto{MemberID: id, PhotoURI: "data:image/png;base64,AAAA"})
	uc := newMemberFixture(s, nil)

	result, err := uc.AddPhoto(ctx, AddPhotoInput{MemberID: id, PhotoURI: dataURI(solid(t, color.RGBA{R: 1, A: 255}))})
	if err != nil || result != domain.PhotoSaved {
		t.Fatalf("expected saved got %s %v", result, err)
	}

	_, err = uc.AddPhoto(ctx, AddPhotoInput{MemberID: id, PhotoURI: "data:image/png;base64,AAAA"})
	if !errors.Is(err, domain.ErrImageDecode) {
		t.Fatalf("expected decode error got %v", err)
	}
	_, err = uc.AddPhoto(ctx, AddPhotoInput{MemberID: 404, PhotoURI: dataURI(solid(t, color.RGBA{A: 255}))})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()
	_, _ = memMembers{s}.Upsert(ctx, domain.FamilyMember{
		FirstName: `Ан"на`, LastName: "Ким", Gender: familyone.GenderFemale,
		BirthDate: "05.05.1995", Role: familyone.RoleSister,
	})

	out, err := newMemberFixture(s, nil).ExportCSV(ctx)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(string(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines got %d", len(lines))
	}
	if lines[0] != "ID,Имя,Фамилия,Отчество,Пол,Дата рождения,Телефон,Роль,Дата свадьбы,Девичья фамилия" {
		t.Fatalf("unexpected header %s", lines[0])
	}
	expected := `"1","Ан""на","Ким","","FEMALE","05.05.1995","","Сестра","",""`
	if lines[1] != expected {
		t.Fatalf("expected %s got %s", expected, lines[1])
	}
}

func TestImportJSONMergeAndReplace(t *testing.T) {
	src := newMemStore()
	seedFamily(t, src)
	exported, err := newMemberFixture(src, nil).ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := newMemStore()
	dst.nextID = 50
	uc := newMemberFixture(dst, nil)

	report, err := uc.ImportJSON(context.Background(), exported, domain.ImportModeMerge)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report != (domain.ImportReport{Inserted: 3, RelationsUpdated: 1}) {
		t.Fatalf("unexpected report %+v", report)
	}
	var son domain.FamilyMember
	for _, m := range dst.members {
		if m.Role == familyone.RoleSon {
			son = m
		}
	}
	if son.FatherID == nil || dst.members[*son.FatherID].Role != familyone.RoleFather {
		t.Fatalf("expected son to keep his father")
	}
	if son.PhotoURI != "" {
		t.Fatalf("expected JSON import to carry no photos")
	}

	report, err = uc.ImportJSON(context.Background(), exported, domain.ImportModeMerge)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if report != (domain.ImportReport{Skipped: 3}) {
		t.Fatalf("expected everything skipped got %+v", report)
	}

	report, err = uc.ImportJSON(context.Background(), exported, domain.ImportModeReplace)
	if err != nil {
		t.Fatalf("replace import failed: %v", err)
	}
	if report.Inserted != 3 || len(dst.members) != 3 {
		t.Fatalf("expected tree to be replaced got %+v with %d members", report, len(dst.members))
	}
}

func TestImportJSONRejectsBadInput(t *testing.T) {
	uc := newMemberFixture(newMemStore(), nil)
	cases := []struct {
		data string
		mode domain.ImportMode
	}{
		{`{"id":1}`, domain.ImportModeMerge},
		{`null`, domain.ImportModeMerge},
		{`[]`, "overwrite"},
	}
	for _, c := range cases {
		if _, err := uc.ImportJSON(context.Background(), []byte(c.data), c.mode); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s/%s: expected invalid input got %v", c.data, c.mode, err)
		}
	}
}
