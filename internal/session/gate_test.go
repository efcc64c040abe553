package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/hcadmin/internal/model"
)

func TestGate(t *testing.T) {
	all := model.Permissions{Read: true, Write: true, Delete: true}
	readOnly := model.Permissions{Read: true}

	cases := []struct {
		name string
		user *model.Admin
		want model.Permissions
	}{
		{"no user", nil, readOnly},
		{"super admin without permissions", &model.Admin{Role: "super admin"}, all},
		{"super admin ignores explicit denial", &model.Admin{Role: "super admin", Permissions: &model.Permissions{}}, all},
		{"admin without permissions object", &model.Admin{Role: "admin"}, readOnly},
		{"admin literal booleans", &model.Admin{Role: "admin", Permissions: &model.Permissions{Read: false, Write: true}}, model.Permissions{Write: true}},
		{"role match is exact", &model.Admin{Role: "Super Admin"}, readOnly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Gate(tc.user, "super admin"))
		})
	}
}

func TestGate_MissingFlagsDecodeFalse(t *testing.T) {
	var u model.Admin
	assert.NoError(t, jsonUnmarshal(`{"_id":"u1","role":"admin","permissions":{"write":true}}`, &u))
	assert.Equal(t, model.Permissions{Write: true}, Gate(&u, "super admin"))
}
