package core

import "pnt-health-station-api-server/internal/models"

// Action là một hành động cần phân quyền. Bản gốc rải rác kiểm tra vai trò
// trong từng route; ở đây gom về một bảng duy nhất để test độc lập.
type Action string

const (
	ActionCreateRequest    Action = "request.create"
	ActionViewAllRequests  Action = "request.view_all"
	ActionProcessRequest   Action = "request.process"
	ActionReprocessRequest Action = "request.reprocess"
	ActionAddMedication    Action = "medication.add"
	ActionManageStock      Action = "stock.manage"
	ActionViewLogs         Action = "log.view"
	ActionViewReports      Action = "report.view"
	ActionManageUsers      Action = "user.manage"
)

// Relation mô tả quan hệ giữa người thao tác và tài nguyên.
type Relation int

const (
	RelationNone Relation = iota
	RelationSelf // tài nguyên thuộc về chính người thao tác
)

var policyTable = map[Action]map[string]bool{
	ActionCreateRequest: {
		models.RoleEmployee: true,
		models.RoleStaff:    true,
		models.RoleAdmin:    true,
	},
	ActionViewAllRequests: {
		models.RoleStaff: true,
		models.RoleAdmin: true,
	},
	ActionProcessRequest: {
		models.RoleStaff: true,
		models.RoleAdmin: true,
	},
	ActionReprocessRequest: {
		models.RoleAdmin: true,
	},
	ActionAddMedication: {
		models.RoleStaff: true,
		models.RoleAdmin: true,
	},
	ActionManageStock: {
		models.RoleStaff: true,
		models.RoleAdmin: true,
	},
	ActionViewLogs: {
		models.RoleStaff: true,
		models.RoleAdmin: true,
	},
	ActionViewReports: {
		models.RoleStaff: true,
		models.RoleAdmin: true,
	},
	ActionManageUsers: {
		models.RoleAdmin: true,
	},
}

// Allowed trả lời câu hỏi (hành động, vai trò, quan hệ) có được phép không.
// Không ai được xử lý phiếu của chính mình, kể cả admin.
func Allowed(action Action, role string, rel Relation) bool {
	if rel == RelationSelf && (action == ActionProcessRequest || action == ActionReprocessRequest) {
		return false
	}
	return policyTable[action][role]
}
