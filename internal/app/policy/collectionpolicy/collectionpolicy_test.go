package collectionpolicy_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/collectionpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

func TestOwnerOnly(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	col := models.Collection{Owner: owner}

	for name, fn := range map[string]func(primitive.ObjectID, models.Collection) bool{
		"CanView":   collectionpolicy.CanView,
		"CanMutate": collectionpolicy.CanMutate,
		"CanDelete": collectionpolicy.CanDelete,
	} {
		if !fn(owner, col) {
			t.Errorf("%s: owner should be allowed", name)
		}
		if fn(other, col) {
			t.Errorf("%s: non-owner should be denied", name)
		}
	}
}
