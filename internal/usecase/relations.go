package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/totegamma/familyone/internal/domain"
)

// pendingRelation is a member whose parent links are resolved after every member exists locally.
type pendingRelation struct {
	localID   int64
	fatherKey *string
	motherKey *string
}

// resolveParent maps key through keyToID. Unresolvable keys keep the current link,
// and a member is never made its own parent.
func resolveParent(key *string, keyToID map[string]int64, current *int64, self int64) *int64 {
	if key != nil {
		if id, ok := keyToID[*key]; ok && id != self {
			return &id
		}
	}
	return current
}

// relinkParents is the second pass of restore and import. It re-reads the store so
// freshly inserted members are visible and writes back only members whose links changed.
func relinkParents(ctx context.Context, members MemberRepository, pending []pendingRelation, keyToID map[string]int64) (int, error) {
	latest, err := members.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list members")
	}
	byID := make(map[int64]domain.FamilyMember, len(latest))
	for _, m := range latest {
		byID[m.ID] = m
	}

	updated := 0
	for _, rel := range pending {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		member, ok := byID[rel.localID]
		if !ok {
			continue
		}

		father := resolveParent(rel.fatherKey, keyToID, member.FatherID, member.ID)
		mother := resolveParent(rel.motherKey, keyToID, member.MotherID, member.ID)
		if domain.SameParent(father, member.FatherID) && domain.SameParent(mother, member.MotherID) {
			continue
		}

		member.FatherID = father
		member.MotherID = mother
		if _, err := members.Upsert(ctx, member); err != nil {
			return updated, domain.StoreWriteError{Op: "update member relations", Err: err}
		}
		byID[member.ID] = member
		updated++
	}
	return updated, nil
}
