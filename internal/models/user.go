package models

// Các vai trò của người dùng. Role là trục phân quyền duy nhất.
const (
	RoleEmployee = "EMPLOYEE"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
)

// User struct matches the document in MongoDB.
type User struct {
	Email    string `bson:"email" json:"email"`
	Name     string `bson:"name" json:"name"`
	Password string `bson:"password,omitempty" json:"-"`
	Role     string `bson:"role" json:"role"`
	Phone    string `bson:"phone" json:"phone"`
	Unit     string `bson:"unit" json:"unit"` // Đơn vị / Lớp
}
