package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"photoshare/internal/authz"
	"photoshare/internal/models"
)

func TestCan(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.RoleUser}
	stranger := &models.User{ID: 2, Role: models.RoleUser}
	moderator := &models.User{ID: 3, Role: models.RoleModerator}
	admin := &models.User{ID: 4, Role: models.RoleAdmin}

	tests := []struct {
		name     string
		user     *models.User
		action   authz.Action
		resource authz.Resource
		ownerID  uint
		want     bool
	}{
		{"owner updates own image", owner, authz.ActionUpdate, authz.ResourceImage, 1, true},
		{"owner deletes own image", owner, authz.ActionDelete, authz.ResourceImage, 1, true},
		{"stranger cannot update image", stranger, authz.ActionUpdate, authz.ResourceImage, 1, false},
		{"moderator cannot update image", moderator, authz.ActionUpdate, authz.ResourceImage, 1, false},
		{"moderator cannot delete image", moderator, authz.ActionDelete, authz.ResourceImage, 1, false},
		{"admin updates any image", admin, authz.ActionUpdate, authz.ResourceImage, 1, true},
		{"admin deletes any image", admin, authz.ActionDelete, authz.ResourceImage, 1, true},

		{"author updates own comment", owner, authz.ActionUpdate, authz.ResourceComment, 1, true},
		{"stranger cannot update comment", stranger, authz.ActionUpdate, authz.ResourceComment, 1, false},
		{"moderator updates any comment", moderator, authz.ActionUpdate, authz.ResourceComment, 1, true},
		{"author cannot delete own comment", owner, authz.ActionDelete, authz.ResourceComment, 1, false},
		{"moderator deletes any comment", moderator, authz.ActionDelete, authz.ResourceComment, 1, true},
		{"admin deletes any comment", admin, authz.ActionDelete, authz.ResourceComment, 1, true},

		{"nil user can do nothing", nil, authz.ActionUpdate, authz.ResourceImage, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.Can(tt.user, tt.action, tt.resource, tt.ownerID))
		})
	}
}
