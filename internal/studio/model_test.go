package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCanManage(t *testing.T) {
	assert.True(t, RoleOwner.CanManage())
	assert.True(t, RoleModerator.CanManage())
	assert.False(t, RoleMember.CanManage())
}

func TestValidRole(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleModerator, RoleMember} {
		assert.True(t, ValidRole(role), string(role))
	}
	assert.False(t, ValidRole("SUPERVISOR"))
	assert.False(t, ValidRole(""))
}

func TestValidJoinType(t *testing.T) {
	for _, jt := range []JoinType{JoinTypeOpen, JoinTypeInviteOnly, JoinTypeWaitlist} {
		assert.True(t, ValidJoinType(jt), string(jt))
	}
	assert.False(t, ValidJoinType("SECRET"))
}
