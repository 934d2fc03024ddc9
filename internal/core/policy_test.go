package core

import (
	"testing"

	"pnt-health-station-api-server/internal/models"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		role   string
		rel    Relation
		want   bool
	}{
		{"employee creates request", ActionCreateRequest, models.RoleEmployee, RelationNone, true},
		{"admin creates request", ActionCreateRequest, models.RoleAdmin, RelationNone, true},
		{"unknown role creates request", ActionCreateRequest, "GUEST", RelationNone, false},

		{"employee views all requests", ActionViewAllRequests, models.RoleEmployee, RelationNone, false},
		{"staff views all requests", ActionViewAllRequests, models.RoleStaff, RelationNone, true},

		{"staff processes request", ActionProcessRequest, models.RoleStaff, RelationNone, true},
		{"employee processes request", ActionProcessRequest, models.RoleEmployee, RelationNone, false},
		{"staff processes own request", ActionProcessRequest, models.RoleStaff, RelationSelf, false},
		{"admin processes own request", ActionProcessRequest, models.RoleAdmin, RelationSelf, false},

		{"staff reprocesses", ActionReprocessRequest, models.RoleStaff, RelationNone, false},
		{"admin reprocesses", ActionReprocessRequest, models.RoleAdmin, RelationNone, true},
		{"admin reprocesses own request", ActionReprocessRequest, models.RoleAdmin, RelationSelf, false},

		{"staff manages stock", ActionManageStock, models.RoleStaff, RelationNone, true},
		{"employee manages stock", ActionManageStock, models.RoleEmployee, RelationNone, false},

		{"staff manages users", ActionManageUsers, models.RoleStaff, RelationNone, false},
		{"admin manages users", ActionManageUsers, models.RoleAdmin, RelationNone, true},

		{"empty role", ActionViewLogs, "", RelationNone, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.action, tc.role, tc.rel); got != tc.want {
				t.Errorf("Allowed(%q, %q, %d) = %v, want %v", tc.action, tc.role, tc.rel, got, tc.want)
			}
		})
	}
}
